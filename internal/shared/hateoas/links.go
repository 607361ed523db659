package hateoas

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Link is a hypermedia relation.
type Link struct {
	Href string `json:"href"`
}

// Links maps a relation name ("self", "update", "delete") to its link.
type Links map[string]Link

// URLBuilder turns API paths into absolute URLs.
// When BaseURL is empty the scheme and host of the current request are used.
// X-Forwarded-Proto and X-Forwarded-Host are client controlled unless a
// reverse proxy rewrites them, so they are read only with TrustProxy.
type URLBuilder struct {
	BaseURL    string
	TrustProxy bool
}

// Absolute returns the absolute URL of path for the request in c.
func (b URLBuilder) Absolute(c *gin.Context, path string) string {
	if b.BaseURL != "" {
		return strings.TrimRight(b.BaseURL, "/") + path
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	host := c.Request.Host

	if b.TrustProxy {
		if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		if fwd := c.GetHeader("X-Forwarded-Host"); fwd != "" {
			host = strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
	}

	return scheme + "://" + host + path
}

// Resource returns the links of a single resource: "self" always,
// "update" and "delete" only for callers allowed to write.
func (b URLBuilder) Resource(c *gin.Context, path string, canWrite bool) Links {
	href := b.Absolute(c, path)
	links := Links{"self": {Href: href}}
	if canWrite {
		links["update"] = Link{Href: href}
		links["delete"] = Link{Href: href}
	}
	return links
}

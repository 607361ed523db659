// Package versioning extracts the API version requested through the Accept header,
// e.g. "application/json; version=2.0".
package versioning

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Negotiator resolves the API version of a request.
type Negotiator struct {
	Default string
}

// NewNegotiator returns a Negotiator falling back to defaultVersion.
func NewNegotiator(defaultVersion string) *Negotiator {
	return &Negotiator{Default: defaultVersion}
}

// Version returns the version carried by accept, or the default one.
// The first ";"-separated segment containing "version" wins; a segment
// without "=" is skipped.
func (n *Negotiator) Version(accept string) string {
	for _, segment := range strings.Split(accept, ";") {
		segment = strings.TrimSpace(segment)
		if !strings.Contains(segment, "version") {
			continue
		}
		parts := strings.Split(segment, "=")
		if len(parts) < 2 {
			continue
		}
		return strings.TrimSpace(parts[1])
	}
	return n.Default
}

// AtLeast reports whether version >= min. Versions are dotted numbers
// ("2", "2.0", "2.1.3"); anything unparsable sorts below every valid version.
func AtLeast(version, min string) bool {
	return semver.Compare(canonical(version), canonical(min)) >= 0
}

func canonical(version string) string {
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}

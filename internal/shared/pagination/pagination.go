package pagination

import (
	"math"
	"strconv"
	"strings"

	"bookapi-backend/internal/shared/validation"
)

const (
	DefaultPage  = 1
	DefaultLimit = 3
	MaxLimit     = 50
)

// Config holds the pagination defaults applied to list endpoints.
type Config struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig mirrors the package constants.
func DefaultConfig() Config {
	return Config{DefaultLimit: DefaultLimit, MaxLimit: MaxLimit}
}

// Params is a validated page request.
type Params struct {
	Page  int
	Limit int
}

// Offset is the index of the first item of the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Parse validates the raw "page" and "limit" query values.
// Empty values take the defaults and limit is capped at cfg.MaxLimit.
// Values that are not positive integers, or a page whose offset would
// overflow, are rejected with a *validation.Error.
func (cfg Config) Parse(rawPage, rawLimit string) (Params, error) {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = MaxLimit
	}

	var violations []validation.Violation

	page, ok := parsePositive(rawPage, DefaultPage)
	if !ok {
		violations = append(violations, validation.Violation{Field: "page", Message: "page must be a positive integer"})
	}

	limit, ok := parsePositive(rawLimit, cfg.DefaultLimit)
	if !ok {
		violations = append(violations, validation.Violation{Field: "limit", Message: "limit must be a positive integer"})
	}

	if len(violations) > 0 {
		return Params{}, validation.New(violations...)
	}

	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}

	// The offset (page-1)*limit must fit in an int.
	if page-1 > math.MaxInt/limit {
		return Params{}, validation.New(validation.Violation{Field: "page", Message: "page is out of range"})
	}

	return Params{Page: page, Limit: limit}, nil
}

func parsePositive(raw string, fallback int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request
// data shared by the form handlers and the summary partials.

package http

import (
	"net/http"
	"net/url"
	"strings"

	"stationery/internal/core"
)

// FilterParams holds the department and month filters shared by the
// summary, dashboard and export endpoints.
type FilterParams struct {
	Department string
	Month      string
}

// ParseFilterParams extracts department and month filters from query
// parameters. Missing values default to the match-everything filter.
func ParseFilterParams(query url.Values) FilterParams {
	params := FilterParams{
		Department: core.FilterAll,
		Month:      core.FilterAll,
	}

	if v := sanitizeInput(query.Get("department")); v != "" {
		params.Department = v
	}
	if v := sanitizeInput(query.Get("month")); v != "" {
		params.Month = v
	}

	return params
}

// CacheKey returns a stable cache key for this filter combination.
func (p FilterParams) CacheKey() string {
	return p.Department + "|" + p.Month
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireGET is a convenience function for GET-only handlers.
func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}

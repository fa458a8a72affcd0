// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package htmx provides types and helpers for htmx integration.
package htmx

import (
	"net/http"
)

// Header constants for htmx request headers.
const (
	HeaderRequest    = "HX-Request"
	HeaderBoosted    = "HX-Boosted"
	HeaderCurrentURL = "HX-Current-URL"
	HeaderTarget     = "HX-Target"
)

// Header constants for htmx response headers.
const (
	HeaderRedirect = "HX-Redirect"
	HeaderRefresh  = "HX-Refresh"
)

// Request contains information about an htmx request.
type Request struct {
	// IsHtmx is true if this is an htmx request (HX-Request header is "true").
	IsHtmx bool
	// IsBoosted is true for hx-boost navigation, which follows plain redirects.
	IsBoosted  bool
	CurrentURL string
	Target     string
}

// ParseRequest extracts htmx information from request headers.
func ParseRequest(r *http.Request) *Request {
	return &Request{
		IsHtmx:     r.Header.Get(HeaderRequest) == "true",
		IsBoosted:  r.Header.Get(HeaderBoosted) == "true",
		CurrentURL: r.Header.Get(HeaderCurrentURL),
		Target:     r.Header.Get(HeaderTarget),
	}
}

// WantsClientRedirect reports whether a redirect must be sent as HX-Redirect
// because htmx would otherwise swap the target page into the current one.
func (r *Request) WantsClientRedirect() bool {
	return r.IsHtmx && !r.IsBoosted
}

// Redirect tells htmx to navigate to url with a full page load.
func Redirect(w http.ResponseWriter, url string) {
	w.Header().Set(HeaderRedirect, url)
	w.WriteHeader(http.StatusOK)
}

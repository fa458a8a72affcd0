// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

//go:build dev

// Package assets serves static files from the filesystem in development mode.
package assets

import (
	"net/http"
)

// CSSPath returns the unversioned path to the main CSS file.
func CSSPath() string {
	return "/static/css/styles.css"
}

// FileServer returns an http.Handler that serves static files from the filesystem.
func FileServer() http.Handler {
	return http.FileServer(http.Dir("internal/assets/static"))
}

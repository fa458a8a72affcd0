// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

//go:build !dev

package assets

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSSPath_Versioned(t *testing.T) {
	path := CSSPath()

	assert.True(t, strings.HasPrefix(path, "/static/css/styles.css?v="))
	assert.Len(t, strings.TrimPrefix(path, "/static/css/styles.css?v="), 8)
}

func TestFileServer(t *testing.T) {
	rec := httptest.NewRecorder()
	FileServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/css/styles.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "font-family")
}

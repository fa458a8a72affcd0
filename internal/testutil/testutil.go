// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/oliverandrich/multidomain-locale/internal/database"
	"codeberg.org/oliverandrich/multidomain-locale/internal/locale"
	"codeberg.org/oliverandrich/multidomain-locale/internal/repository"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
)

// LocaleSettings mirrors a typical multi-domain deployment.
const LocaleSettings = `
cookie_name = "pl"

[paths]
include = ["^/"]
exclude = ["^/v3/", "^/health$", "^/static/"]

[fallback]
locales = ["en_GB"]
default = "en_GB"

[domains.de]
locales = ["de_DE", "en_GB"]
default = "de_DE"

[domains.ch]
locales = ["de_CH", "fr_CH", "it_CH", "en_GB"]
default = "de_CH"

[domains.jp]
locales = ["jp_JP"]
default = "jp_JP"

[domains.us]
locales = ["en_US"]
default = "en_US"
`

// NewLocaleSettings parses LocaleSettings.
func NewLocaleSettings(t *testing.T) *locale.Settings {
	t.Helper()
	settings, err := locale.DecodeSettings(LocaleSettings)
	require.NoError(t, err)
	return settings
}

// NewLocaleService builds a locale service from LocaleSettings.
func NewLocaleService(t *testing.T) *locale.Service {
	t.Helper()
	svc, err := locale.NewService(NewLocaleSettings(t))
	require.NoError(t, err)
	return svc
}

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewRequest creates a request for host and path, with optional headers.
func NewRequest(method, host, path string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Host = host
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"codeberg.org/oliverandrich/multidomain-locale/internal/config"
	"codeberg.org/oliverandrich/multidomain-locale/internal/database"
	"codeberg.org/oliverandrich/multidomain-locale/internal/models"
	"codeberg.org/oliverandrich/multidomain-locale/internal/repository"
	"codeberg.org/oliverandrich/multidomain-locale/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csrfTokenPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locales.toml")
	require.NoError(t, os.WriteFile(path, []byte(testutil.LocaleSettings), 0o600))

	return &config.Config{
		Server: config.ServerConfig{
			Host:        "localhost",
			Port:        8080,
			BaseURL:     "http://localhost:8080",
			MaxBodySize: 1,
		},
		TLS: config.TLSConfig{Mode: "off"},
		Locale: config.LocaleConfig{
			ConfigFile:      path,
			PermanentStatus: http.StatusMovedPermanently,
			TemporaryStatus: http.StatusFound,
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.Close()
	})
	return app
}

func do(app *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func TestNew_RedirectsToDomainDefault(t *testing.T) {
	app := newTestApp(t, newTestConfig(t))

	rec := do(app, testutil.NewRequest(http.MethodGet, "www.domain.de", "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/de_DE/", rec.Header().Get(echo.HeaderLocation))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestNew_LocalizedPage(t *testing.T) {
	app := newTestApp(t, newTestConfig(t))

	rec := do(app, testutil.NewRequest(http.MethodGet, "www.domain.de", "/de_DE/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "de-DE", rec.Header().Get("Content-Language"))
	assert.Contains(t, rec.Body.String(), "Parkplatz buchen statt suchen")
}

func TestNew_LocaleWithoutTrailingSlash(t *testing.T) {
	app := newTestApp(t, newTestConfig(t))

	rec := do(app, testutil.NewRequest(http.MethodGet, "www.domain.ch", "/fr_CH", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Parquez-vous sans chercher!")
}

func TestNew_InvalidLocaleFlow(t *testing.T) {
	app := newTestApp(t, newTestConfig(t))

	rec := do(app, testutil.NewRequest(http.MethodGet, "www.domain.de", "/xx_XX/", nil))
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	rec = do(app, testutil.NewRequest(http.MethodGet, "www.domain.de", "/", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/de_DE/", rec.Header().Get(echo.HeaderLocation))
}

func TestNew_API(t *testing.T) {
	app := newTestApp(t, newTestConfig(t))

	rec := do(app, testutil.NewRequest(http.MethodGet, "www.domain.ch", "/v3/version?api_key=abc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":3}`, rec.Body.String())

	rec = do(app, testutil.NewRequest(http.MethodGet, "www.domain.ch", "/de_DE/v3/version?api_key=abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "The page you are looking for does not exist.")

	rec = do(app, testutil.NewRequest(http.MethodGet, "www.domain.jp", "/v3/locales", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tld":"jp","locales":["jp_JP"],"default":"jp_JP"}`, rec.Body.String())

	rec = do(app, testutil.NewRequest(http.MethodGet, "www.domain.jp", "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNew_StaticFilesSkipLocale(t *testing.T) {
	app := newTestApp(t, newTestConfig(t))

	rec := do(app, testutil.NewRequest(http.MethodGet, "www.domain.de", "/static/css/styles.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "font-family")
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestNew_SwitchLocale(t *testing.T) {
	app := newTestApp(t, newTestConfig(t))

	// render a page to receive the CSRF cookie and token
	rec := do(app, testutil.NewRequest(http.MethodGet, "www.domain.ch", "/de_CH/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	match := csrfTokenPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2)
	var csrfCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "_csrf" {
			csrfCookie = c
		}
	}
	require.NotNil(t, csrfCookie)

	form := url.Values{"locale": {"it_CH"}, "next": {"/login"}, "csrf_token": {match[1]}}
	req := httptest.NewRequest(http.MethodPost, "/de_CH/locale", strings.NewReader(form.Encode()))
	req.Host = "www.domain.ch"
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.AddCookie(csrfCookie)

	rec = do(app, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/it_CH/login", rec.Header().Get(echo.HeaderLocation))

	var localeCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "pl" {
			localeCookie = c
		}
	}
	require.NotNil(t, localeCookie)

	// the stored preference wins on the next unprefixed request
	req = testutil.NewRequest(http.MethodGet, "www.domain.ch", "/login", nil)
	req.AddCookie(localeCookie)
	rec = do(app, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/it_CH/login", rec.Header().Get(echo.HeaderLocation))
}

func TestNew_SwitchLocaleRequiresCSRFToken(t *testing.T) {
	app := newTestApp(t, newTestConfig(t))

	req := httptest.NewRequest(http.MethodPost, "/de_CH/locale", strings.NewReader("locale=fr_CH"))
	req.Host = "www.domain.ch"
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := do(app, req)

	assert.Contains(t, []int{http.StatusBadRequest, http.StatusForbidden}, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
}

func TestNew_CookieNameOverride(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Locale.CookieName = "lang"
	app := newTestApp(t, cfg)

	req := testutil.NewRequest(http.MethodGet, "www.domain.ch", "/login", nil)
	req.AddCookie(&http.Cookie{Name: "lang", Value: "fr_CH"})
	rec := do(app, req)

	assert.Equal(t, "/fr_CH/login", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "lang", app.Locales.CookieName())
}

func TestNew_CustomStatuses(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Locale.PermanentStatus = http.StatusPermanentRedirect
	cfg.Locale.TemporaryStatus = http.StatusTemporaryRedirect
	cfg.Server.BasePath = "/shop"
	app := newTestApp(t, cfg)

	rec := do(app, testutil.NewRequest(http.MethodGet, "www.domain.us", "/login?x=1", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/shop/en_US/login?x=1", rec.Header().Get(echo.HeaderLocation))
}

func TestNew_RegistryOverlay(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "registry.db")
	db, err := database.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, repository.New(db).UpsertDomain(context.Background(),
		models.NewDomain("at", []string{"de_AT", "en_GB"}, "de_AT")))
	require.NoError(t, db.Close())

	cfg := newTestConfig(t)
	cfg.Database.DSN = dsn
	app := newTestApp(t, cfg)

	rec := do(app, testutil.NewRequest(http.MethodGet, "www.domain.at", "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/de_AT/", rec.Header().Get(echo.HeaderLocation))
}

func TestNew_Errors(t *testing.T) {
	t.Run("missing settings file", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.Locale.ConfigFile = filepath.Join(t.TempDir(), "missing.toml")

		_, err := New(context.Background(), cfg)

		assert.ErrorContains(t, err, "failed to read locale settings")
	})

	t.Run("invalid cookie hash key", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.Locale.CookieHashKey = "abc"

		_, err := New(context.Background(), cfg)

		assert.ErrorContains(t, err, "locale cookie hash key")
	})
}

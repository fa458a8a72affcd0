// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates_test

import (
	"context"
	"strings"
	"testing"

	"codeberg.org/oliverandrich/multidomain-locale/internal/ctxkeys"
	"codeberg.org/oliverandrich/multidomain-locale/internal/i18n"
	"codeberg.org/oliverandrich/multidomain-locale/internal/templates"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(ctx, &sb))
	return sb.String()
}

func localeContext(t *testing.T, code string) context.Context {
	t.Helper()
	require.NoError(t, i18n.Init())
	return i18n.WithLocale(context.Background(), code)
}

func TestHome(t *testing.T) {
	ctx := localeContext(t, "de_DE")

	html := render(t, ctx, templates.Home(templates.Page{Locales: []string{"de_DE", "en_GB"}, Path: "/"}))

	assert.Contains(t, html, `<html lang="de-DE">`)
	assert.Contains(t, html, "<h1>Parkplatz buchen statt suchen</h1>")
	assert.Contains(t, html, `href="/de_DE/login"`)
	assert.Contains(t, html, `<option value="de_DE" selected>`)
	assert.Contains(t, html, `<option value="en_GB">`)
}

func TestHome_SingleLocaleHidesSwitcher(t *testing.T) {
	ctx := localeContext(t, "en_US")

	html := render(t, ctx, templates.Home(templates.Page{Locales: []string{"en_US"}, Path: "/"}))

	assert.NotContains(t, html, "locale-switcher")
	assert.Contains(t, html, "Park without searching")
}

func TestLogin_CSRFToken(t *testing.T) {
	ctx := localeContext(t, "fr_CH")
	ctx = context.WithValue(ctx, ctxkeys.CSRFToken{}, "tok123")

	html := render(t, ctx, templates.Login(templates.Page{}))

	assert.Contains(t, html, "<h1>Se connecter</h1>")
	assert.Contains(t, html, `action="/fr_CH/login"`)
	assert.Contains(t, html, `name="csrf_token" value="tok123"`)
}

func TestLogin_NoCSRFToken(t *testing.T) {
	html := render(t, localeContext(t, "en_GB"), templates.Login(templates.Page{}))

	assert.NotContains(t, html, "csrf_token")
}

func TestError(t *testing.T) {
	html := render(t, localeContext(t, "en_GB"), templates.Error(templates.Page{}, 404, "error_not_found"))

	assert.Contains(t, html, "<h1>404</h1>")
	assert.Contains(t, html, "The page you are looking for does not exist.")
}

func TestLocaleSwitcher_EscapesPath(t *testing.T) {
	ctx := localeContext(t, "de_CH")

	html := render(t, ctx, templates.LocaleSwitcher([]string{"de_CH", "fr_CH"}, `/login"><script>`))

	assert.Contains(t, html, `action="/de_CH/locale"`)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestHelpers(t *testing.T) {
	ctx := localeContext(t, "it_CH")

	assert.Equal(t, "it_CH", templates.Locale(ctx))
	assert.Equal(t, "/it_CH/login", templates.LocalePath(ctx, "/login"))
	assert.Equal(t, "Accedi", templates.T(ctx, "login_title"))
	assert.Empty(t, templates.CSRFToken(ctx))
	assert.True(t, strings.HasPrefix(templates.CSSPath(), "/static/css/styles.css"))
}

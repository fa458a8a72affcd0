// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"strings"

	"codeberg.org/oliverandrich/multidomain-locale/internal/locale"
	"codeberg.org/oliverandrich/multidomain-locale/internal/middleware"
	"codeberg.org/oliverandrich/multidomain-locale/internal/templates"
	"github.com/labstack/echo/v4"
)

// APIVersion is reported by the version endpoint.
const APIVersion = 3

// Handlers contains all HTTP handlers.
type Handlers struct {
	locales  locale.Manager
	cookie   *middleware.CookieCodec
	basePath string
}

// New creates a new Handlers instance. basePath is prepended to redirect
// targets.
func New(locales locale.Manager, cookie *middleware.CookieCodec, basePath string) *Handlers {
	return &Handlers{
		locales:  locales,
		cookie:   cookie,
		basePath: strings.TrimSuffix(basePath, "/"),
	}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Home renders the home page.
func (h *Handlers) Home(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Home(h.page(c)))
}

// Login renders the login page.
func (h *Handlers) Login(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Login(h.page(c)))
}

// Version reports the API version.
func (h *Handlers) Version(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{
		"version": APIVersion,
	})
}

// DomainLocales reports the locales configured for the requesting host.
func (h *Handlers) DomainLocales(c echo.Context) error {
	tld := h.locales.TopLevelDomain(c.Request().Host)
	allowed := h.locales.AllowedLocales(tld)
	return c.JSON(http.StatusOK, map[string]any{
		"tld":     tld,
		"locales": allowed.Locales,
		"default": allowed.Default,
	})
}

// page collects the layout data for the current request.
func (h *Handlers) page(c echo.Context) templates.Page {
	r := c.Request()
	return templates.Page{
		Locales: h.locales.AllowedLocales(h.locales.TopLevelDomain(r.Host)).Locales,
		Path:    h.stripLocale(r.URL.Path),
	}
}

// stripLocale removes a leading locale segment from path.
func (h *Handlers) stripLocale(path string) string {
	res := h.locales.LocalePathInfo(path)
	if !res.Found {
		return path
	}
	return h.locales.RemoveInvalidLocale(path, res.Locale)
}

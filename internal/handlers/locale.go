// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"codeberg.org/oliverandrich/multidomain-locale/internal/htmx"
	"github.com/labstack/echo/v4"
)

// SwitchLocale stores the submitted locale in the locale cookie and sends the
// browser to the same page under the new locale.
func (h *Handlers) SwitchLocale(c echo.Context) error {
	r := c.Request()
	code := c.FormValue("locale")

	allowed := h.locales.AllowedLocales(h.locales.TopLevelDomain(r.Host))
	if !h.locales.IsLocaleAllowed(code, allowed.Locales) {
		slog.Debug("locale switch rejected", "locale", code, "host", r.Host)
		return RenderError(c, http.StatusBadRequest, "locale_invalid")
	}

	if err := h.cookie.Write(c.Response(), code); err != nil {
		return err
	}

	target := h.basePath + "/" + code + h.stripLocale(safeNext(c.FormValue("next")))
	slog.Debug("locale switched", "locale", code, "location", target)

	if htmx.ParseRequest(r).WantsClientRedirect() {
		htmx.Redirect(c.Response(), target)
		return nil
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// safeNext keeps next only when it is a local absolute path.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

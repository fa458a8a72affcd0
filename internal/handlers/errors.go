// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/multidomain-locale/internal/templates"
	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders localized error pages for errors returned by
// handlers and the router.
func (h *Handlers) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}

	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "path", c.Request().URL.Path)
	}

	var renderErr error
	if c.Request().Method == http.MethodHead {
		renderErr = c.NoContent(code)
	} else {
		renderErr = Render(c, code, templates.Error(h.page(c), code, messageFor(code)))
	}
	if renderErr != nil {
		slog.Error("failed to render error page", "error", renderErr)
	}
}

// RenderError renders an error page with the given status code and message ID.
func RenderError(c echo.Context, code int, messageID string) error {
	return Render(c, code, templates.Error(templates.Page{}, code, messageID))
}

func messageFor(code int) string {
	switch {
	case code == http.StatusNotFound || code == http.StatusMethodNotAllowed:
		return "error_not_found"
	case code >= http.StatusInternalServerError:
		return "error_internal"
	default:
		return "error_bad_request"
	}
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"
	"io"

	"codeberg.org/oliverandrich/multidomain-locale/internal/assets"
	"codeberg.org/oliverandrich/multidomain-locale/internal/ctxkeys"
	"codeberg.org/oliverandrich/multidomain-locale/internal/i18n"
	"github.com/a-h/templ"
)

// CSRFToken returns the CSRF token from the context.
func CSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(ctxkeys.CSRFToken{}).(string); ok {
		return token
	}
	return ""
}

// T translates a message by ID.
func T(ctx context.Context, messageID string) string {
	return i18n.T(ctx, messageID)
}

// TData translates a message with template data.
func TData(ctx context.Context, messageID string, data map[string]any) string {
	return i18n.TData(ctx, messageID, data)
}

// Locale returns the current locale.
func Locale(ctx context.Context) string {
	return i18n.GetLocale(ctx)
}

// CSSPath returns the path to the stylesheet.
func CSSPath() string {
	return assets.CSSPath()
}

// LocalePath prefixes path with the current locale.
func LocalePath(ctx context.Context, path string) string {
	return "/" + Locale(ctx) + path
}

// writer collects the first write error so components read top to bottom.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(parts ...string) {
	for _, p := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, p)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) component(ctx context.Context, c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

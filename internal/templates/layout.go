// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"
	"io"

	"codeberg.org/oliverandrich/multidomain-locale/internal/i18n"
	"github.com/a-h/templ"
)

// Page carries what the layout needs besides the body.
type Page struct {
	Title   string
	Locales []string // allowed locales of the current domain
	Path    string   // current path without the locale segment
}

// Layout wraps body in the HTML document shell.
func Layout(page Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &writer{w: w}
		out.raw(`<!DOCTYPE html><html lang="`)
		out.text(i18n.HTMLLang(ctx))
		out.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		if page.Title != "" {
			out.text(page.Title)
			out.raw(" | ")
		}
		out.text(T(ctx, "app_name"))
		out.raw(`</title><link rel="stylesheet" href="`)
		out.text(CSSPath())
		out.raw(`"></head><body><header><a href="`)
		out.text(LocalePath(ctx, "/"))
		out.raw(`">`)
		out.text(T(ctx, "app_name"))
		out.raw(`</a>`)
		if len(page.Locales) > 1 {
			out.component(ctx, LocaleSwitcher(page.Locales, page.Path))
		}
		out.raw(`</header><main>`)
		out.component(ctx, body)
		out.raw(`</main><footer>`)
		out.text(TData(ctx, "current_locale", map[string]any{"Locale": Locale(ctx)}))
		out.raw(`</footer></body></html>`)
		return out.err
	})
}

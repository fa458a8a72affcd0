// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Home renders the home page.
func Home(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		page.Title = T(ctx, "home_title")
		body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			out := &writer{w: w}
			out.raw(`<h1>`)
			out.text(page.Title)
			out.raw(`</h1><p>`)
			out.text(T(ctx, "home_welcome"))
			out.raw(`</p><p><a href="`)
			out.text(LocalePath(ctx, "/login"))
			out.raw(`">`)
			out.text(T(ctx, "login_title"))
			out.raw(`</a></p>`)
			return out.err
		})
		return Layout(page, body).Render(ctx, w)
	})
}

// Login renders the login form.
func Login(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		page.Title = T(ctx, "login_title")
		body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			out := &writer{w: w}
			out.raw(`<h1>`)
			out.text(page.Title)
			out.raw(`</h1><form method="post" action="`)
			out.text(LocalePath(ctx, "/login"))
			out.raw(`">`)
			out.component(ctx, csrfField())
			out.raw(`<label>`)
			out.text(T(ctx, "login_email"))
			out.raw(`<input type="email" name="email" required></label><label>`)
			out.text(T(ctx, "login_password"))
			out.raw(`<input type="password" name="password" required></label><button type="submit">`)
			out.text(T(ctx, "login_submit"))
			out.raw(`</button></form>`)
			return out.err
		})
		return Layout(page, body).Render(ctx, w)
	})
}

// Error renders an error page for status code with a message ID.
func Error(page Page, code int, messageID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		message := T(ctx, messageID)
		page.Title = message
		body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			out := &writer{w: w}
			out.raw(`<h1>`)
			out.text(strconv.Itoa(code))
			out.raw(`</h1><p>`)
			out.text(message)
			out.raw(`</p>`)
			return out.err
		})
		return Layout(page, body).Render(ctx, w)
	})
}

// LocaleSwitcher renders a form posting the chosen locale.
func LocaleSwitcher(locales []string, path string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		current := Locale(ctx)
		out := &writer{w: w}
		out.raw(`<form class="locale-switcher" method="post" action="`)
		out.text(LocalePath(ctx, "/locale"))
		out.raw(`">`)
		out.component(ctx, csrfField())
		out.raw(`<input type="hidden" name="next" value="`)
		out.text(path)
		out.raw(`"><label>`)
		out.text(T(ctx, "locale_switch"))
		out.raw(`<select name="locale">`)
		for _, code := range locales {
			out.raw(`<option value="`)
			out.text(code)
			out.raw(`"`)
			if code == current {
				out.raw(` selected`)
			}
			out.raw(`>`)
			out.text(code)
			out.raw(`</option>`)
		}
		out.raw(`</select></label><button type="submit">`)
		out.text(T(ctx, "locale_switch"))
		out.raw(`</button></form>`)
		return out.err
	})
}

func csrfField() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		token := CSRFToken(ctx)
		if token == "" {
			return nil
		}
		out := &writer{w: w}
		out.raw(`<input type="hidden" name="csrf_token" value="`)
		out.text(token)
		out.raw(`">`)
		return out.err
	})
}

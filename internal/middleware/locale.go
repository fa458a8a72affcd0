// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/multidomain-locale/internal/i18n"
	"codeberg.org/oliverandrich/multidomain-locale/internal/locale"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/text/language"
)

// LocaleKey is the echo context key holding the request locale.
const LocaleKey = "locale"

// LocaleConfig configures LocaleRedirect.
type LocaleConfig struct {
	Skipper echomw.Skipper
	Cookie  *CookieCodec
	// BasePath is prepended to redirect targets, e.g. when the app is
	// mounted below a prefix. Empty keeps redirects root-relative.
	BasePath        string
	PermanentStatus int
	TemporaryStatus int
}

// LocaleRedirect validates the locale segment of every request path and
// redirects to the canonical locale-prefixed path when necessary.
func LocaleRedirect(m locale.Manager, cfg LocaleConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = echomw.DefaultSkipper
	}
	if cfg.Cookie == nil {
		cfg.Cookie = &CookieCodec{Name: locale.DefaultCookieName, MaxAge: DefaultCookieMaxAge}
	}
	if cfg.PermanentStatus == 0 {
		cfg.PermanentStatus = http.StatusMovedPermanently
	}
	if cfg.TemporaryStatus == 0 {
		cfg.TemporaryStatus = http.StatusFound
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			r := c.Request()
			d := locale.Decide(m, locale.Request{
				Method:         r.Method,
				Host:           r.Host,
				Path:           r.URL.EscapedPath(),
				RawQuery:       r.URL.RawQuery,
				Cookie:         cfg.Cookie.Read(r),
				AcceptLanguage: r.Header.Get("Accept-Language"),
			})

			switch d.Action {
			case locale.PermanentRedirect:
				if !redirectable(r.Method) {
					return next(c)
				}
				target := d.Location(cfg.BasePath)
				slog.Debug("locale removed", "path", r.URL.Path, "location", target)
				return c.Redirect(cfg.PermanentStatus, target)

			case locale.TemporaryRedirect:
				if !redirectable(r.Method) {
					return next(c)
				}
				setLocale(c, d.Locale)
				h := c.Response().Header()
				h.Add(echo.HeaderVary, "Accept-Language")
				h.Add(echo.HeaderVary, echo.HeaderCookie)
				target := d.Location(cfg.BasePath)
				slog.Debug("locale added", "path", r.URL.Path, "location", target, "locale", d.Locale)
				return c.Redirect(cfg.TemporaryStatus, target)
			}

			if d.Locale != "" {
				setLocale(c, d.Locale)
				if tag := i18n.TagFor(d.Locale); tag != language.Und {
					c.Response().Header().Set("Content-Language", tag.String())
				}
			}
			return next(c)
		}
	}
}

// Locale returns the locale LocaleRedirect resolved for the request, or ""
// for paths outside locale handling.
func Locale(c echo.Context) string {
	if code, ok := c.Get(LocaleKey).(string); ok {
		return code
	}
	return ""
}

func setLocale(c echo.Context, code string) {
	c.Set(LocaleKey, code)
	c.SetRequest(c.Request().WithContext(i18n.WithLocale(c.Request().Context(), code)))
}

// redirectable reports whether a redirect can replay the request; other
// methods would lose their body.
func redirectable(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

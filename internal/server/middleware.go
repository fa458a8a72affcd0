// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"codeberg.org/oliverandrich/multidomain-locale/internal/config"
	"codeberg.org/oliverandrich/multidomain-locale/internal/ctxkeys"
	"codeberg.org/oliverandrich/multidomain-locale/internal/locale"
	"codeberg.org/oliverandrich/multidomain-locale/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func setupMiddleware(e *echo.Echo, cfg *config.Config, m locale.Manager, cookie *middleware.CookieCodec) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator:        uuid.NewString,
		RequestIDHandler: requestIDToContext,
	}))
	e.Use(requestLogger())
	e.Use(echomw.Secure())
	e.Use(echomw.Gzip())
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxBodySize)))
	e.Use(staticCacheHeaders())
	e.Use(csrfMiddleware(cfg))
	e.Use(csrfToContext())
	e.Use(middleware.LocaleRedirect(m, middleware.LocaleConfig{
		Skipper:         skipStatic,
		Cookie:          cookie,
		BasePath:        cfg.Server.BasePath,
		PermanentStatus: cfg.Locale.PermanentStatus,
		TemporaryStatus: cfg.Locale.TemporaryStatus,
	}))
}

func skipStatic(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/static/")
}

// csrfMiddleware configures CSRF protection.
func csrfMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	secure := strings.HasPrefix(cfg.Server.BaseURL, "https://")

	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		Skipper:        skipStatic,
		TokenLookup:    "form:csrf_token,header:X-CSRF-Token",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSecure:   secure,
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	})
}

// csrfToContext copies the CSRF token to the request context.
func csrfToContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := c.Get("csrf").(string); ok {
				ctx := context.WithValue(c.Request().Context(), ctxkeys.CSRFToken{}, token)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// requestIDToContext copies the request id to the request context.
func requestIDToContext(c echo.Context, id string) {
	ctx := context.WithValue(c.Request().Context(), ctxkeys.RequestID{}, id)
	c.SetRequest(c.Request().WithContext(ctx))
}

// requestLogger returns middleware that logs requests using slog.
func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogHost:      true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("host", v.Host),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if loc, ok := c.Get(middleware.LocaleKey).(string); ok && loc != "" {
				attrs = append(attrs, slog.String("locale", loc))
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				slog.LogAttrs(c.Request().Context(), slog.LevelError, "request", attrs...)
			} else {
				slog.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			}

			return nil
		},
	})
}

// staticCacheHeaders adds cache headers for static assets.
func staticCacheHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			if strings.HasPrefix(r.URL.Path, "/static/") {
				if isVersionedAsset(r.URL.Query().Get("v")) {
					c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
				} else {
					c.Response().Header().Set("Cache-Control", "no-cache")
				}
			}
			return next(c)
		}
	}
}

// isVersionedAsset checks for an 8 character lower-case hex version.
func isVersionedAsset(version string) bool {
	if len(version) != 8 {
		return false
	}
	for _, c := range version {
		isDigit := c >= '0' && c <= '9'
		isHexLetter := c >= 'a' && c <= 'f'
		if !isDigit && !isHexLetter {
			return false
		}
	}
	return true
}

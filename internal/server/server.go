// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/oliverandrich/multidomain-locale/internal/assets"
	"codeberg.org/oliverandrich/multidomain-locale/internal/config"
	"codeberg.org/oliverandrich/multidomain-locale/internal/database"
	"codeberg.org/oliverandrich/multidomain-locale/internal/handlers"
	"codeberg.org/oliverandrich/multidomain-locale/internal/i18n"
	"codeberg.org/oliverandrich/multidomain-locale/internal/locale"
	"codeberg.org/oliverandrich/multidomain-locale/internal/middleware"
	"codeberg.org/oliverandrich/multidomain-locale/internal/repository"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
	"github.com/vinovest/sqlx"
)

// App is a fully wired application ready to serve.
type App struct {
	Echo    *echo.Echo
	Locales *locale.Service
	db      *sqlx.DB
}

// Close releases the registry connection, if any.
func (a *App) Close() error {
	return database.Close(a.db)
}

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	return startWithGracefulShutdown(ctx, app, cfg)
}

// New loads the locale settings, overlays the registry and builds the echo
// instance with middleware and routes.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	settings, err := locale.LoadSettings(cfg.Locale.ConfigFile)
	if err != nil {
		return nil, err
	}
	if cfg.Locale.CookieName != "" {
		settings.CookieName = cfg.Locale.CookieName
	}

	// Registry
	var db *sqlx.DB
	if cfg.Database.DSN != "" {
		db, err = database.Open(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		n, applyErr := repository.New(db).ApplyDomains(ctx, settings)
		if applyErr != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to load domain registry: %w", applyErr)
		}
		slog.Info("domain registry loaded", "domains", n)
	}

	svc, err := locale.NewService(settings)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("invalid locale settings: %w", err)
	}
	slog.Info("locale settings loaded",
		"file", cfg.Locale.ConfigFile,
		"domains", settings.TLDs(),
		"fallback", settings.Fallback.Default,
	)

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to init i18n: %w", initErr)
	}

	cookie, err := middleware.NewCookieCodec(svc.CookieName(), cfg.Locale.CookieHashKey, cfg.UseTLS())
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	h := handlers.New(svc, cookie, cfg.Server.BasePath)
	e.HTTPErrorHandler = h.HTTPErrorHandler

	setupMiddleware(e, cfg, svc, cookie)
	setupRoutes(e, h)

	return &App{Echo: e, Locales: svc, db: db}, nil
}

func setupRoutes(e *echo.Echo, h *handlers.Handlers) {
	// Static files
	e.GET("/static/*", echo.WrapHandler(http.StripPrefix("/static/", assets.FileServer())))

	// API, outside the locale handling
	e.GET("/health", h.Health)
	e.GET("/v3/version", h.Version)
	e.GET("/v3/locales", h.DomainLocales)

	// Localized pages
	e.GET("/:locale", h.Home)
	e.GET("/:locale/", h.Home)
	e.GET("/:locale/login", h.Login)
	e.POST("/:locale/login", h.Login)
	e.POST("/:locale/locale", h.SwitchLocale)
}

func startWithGracefulShutdown(ctx context.Context, app *App, cfg *config.Config) error {
	e := app.Echo

	// Setup TLS
	tlsResult, err := SetupTLS(cfg, app.Locales)
	if err != nil {
		return fmt.Errorf("TLS setup failed: %w", err)
	}

	// Channel for server errors
	errChan := make(chan error, 2)

	// HTTP challenge server for ACME mode
	var httpServer *http.Server

	switch tlsResult.Mode {
	case TLSModeOff:
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeACME:
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, ":443", tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		httpServer = &http.Server{
			Addr:              ":80",
			Handler:           tlsResult.HTTPHandler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("HTTP→HTTPS redirect active", "addr", ":80")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeManual:
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, addr, tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()
	}

	// Wait for interrupt signal, cancellation or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("shutting down server", "reason", ctx.Err())
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown main server", "error", err)
	}

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown HTTP redirect server", "error", err)
		}
	}

	slog.Info("server stopped")
	return nil
}

// startTLSServer starts the Echo server with a custom TLS configuration.
func startTLSServer(e *echo.Echo, addr string, tlsConfig *tls.Config) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}
	e.TLSListener = tls.NewListener(ln, tlsConfig)
	e.TLSServer.TLSConfig = tlsConfig
	return e.Server.Serve(e.TLSListener)
}

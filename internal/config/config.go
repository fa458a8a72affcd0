// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

// configPath is set by the config flag before the other flags resolve
// their TOML sources.
var configPath = "config.toml"

var configFile = altsrc.NewStringPtrSourcer(&configPath)

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	TLS      TLSConfig
	Locale   LocaleConfig
}

type TLSConfig struct {
	Mode     string   // auto, acme, manual, off
	CertDir  string   // ACME certificate cache
	Email    string   // ACME email for Let's Encrypt
	Hosts    []string // host names certificates are issued for (acme mode)
	CertFile string   // Path to certificate file (manual mode)
	KeyFile  string   // Path to private key file (manual mode)
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	BasePath    string // path prefix prepended to redirect targets
	MaxBodySize int    // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

// DatabaseConfig points at the optional domain registry. An empty DSN
// disables it.
type DatabaseConfig struct {
	DSN string
}

type LocaleConfig struct { //nolint:govet // fieldalignment not critical
	ConfigFile      string // TOML file with domains and path rules
	CookieName      string // overrides cookie_name from ConfigFile when set
	CookieHashKey   string // 32-byte hex string, signs the cookie when set
	PermanentStatus int
	TemporaryStatus int
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			BasePath:    cmd.String("base-path"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		TLS: TLSConfig{
			Mode:     cmd.String("tls-mode"),
			CertDir:  cmd.String("tls-cert-dir"),
			Email:    cmd.String("tls-email"),
			Hosts:    cmd.StringSlice("tls-hosts"),
			CertFile: cmd.String("tls-cert-file"),
			KeyFile:  cmd.String("tls-key-file"),
		},
		Locale: LocaleConfig{
			ConfigFile:      cmd.String("locale-config"),
			CookieName:      cmd.String("locale-cookie-name"),
			CookieHashKey:   cmd.String("locale-cookie-hash-key"),
			PermanentStatus: int(cmd.Int("locale-permanent-status")),
			TemporaryStatus: int(cmd.Int("locale-temporary-status")),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}

	return cfg
}

// Validate checks values the flag parser cannot.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.TLS.Mode) {
	case "", "auto", "off", "acme", "manual":
	default:
		errs = append(errs, fmt.Errorf("unknown tls mode %q", c.TLS.Mode))
	}
	if strings.EqualFold(c.TLS.Mode, "manual") && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("tls mode manual requires tls-cert-file and tls-key-file"))
	}

	if c.Locale.ConfigFile == "" {
		errs = append(errs, errors.New("locale-config must not be empty"))
	}
	if !isRedirectStatus(c.Locale.PermanentStatus) {
		errs = append(errs, fmt.Errorf("locale-permanent-status %d is not a redirect status", c.Locale.PermanentStatus))
	}
	if !isRedirectStatus(c.Locale.TemporaryStatus) {
		errs = append(errs, fmt.Errorf("locale-temporary-status %d is not a redirect status", c.Locale.TemporaryStatus))
	}

	return errors.Join(errs...)
}

func isRedirectStatus(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func buildBaseURL(cfg *Config) string {
	host := cfg.Server.Host
	port := cfg.Server.Port
	mode := strings.ToLower(cfg.TLS.Mode)

	// Determine if TLS will be used
	useTLS := shouldUseTLS(mode, host)

	scheme := "http"
	if useTLS {
		scheme = "https"
	}

	// ACME mode always uses port 443
	if mode == "acme" {
		return fmt.Sprintf("https://%s", host)
	}

	// Hide default ports in URL
	if (scheme == "http" && port == 80) || (scheme == "https" && port == 443) {
		return fmt.Sprintf("%s://%s", scheme, host)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, port)
}

func shouldUseTLS(mode, host string) bool {
	switch mode {
	case "off":
		return false
	case "acme", "manual":
		return true
	default: // "auto" or empty
		return !IsLocalhost(host)
	}
}

// UseTLS reports whether the server terminates TLS itself.
func (c *Config) UseTLS() bool {
	return shouldUseTLS(strings.ToLower(c.TLS.Mode), c.Server.Host)
}

// IsLocalhost checks if the host is a localhost address.
func IsLocalhost(host string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	// Check for *.localhost subdomains (e.g., app.localhost)
	return strings.HasSuffix(host, ".localhost")
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Value:       "config.toml",
			Usage:       "Path to configuration file",
			Destination: &configPath,
			Sources:     cli.EnvVars("CONFIG"),
		},
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL for the application",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-path",
			Usage:   "Path prefix the application is mounted under",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_PATH"), toml.TOML("server.base_path", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Usage:   "Domain registry DSN (empty disables the registry)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-mode",
			Value:   "auto",
			Usage:   "TLS mode (auto, acme, manual, off)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_MODE"), toml.TOML("tls.mode", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-cert-dir",
			Value:   "./data/certs",
			Usage:   "Directory for ACME certificates",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_CERT_DIR"), toml.TOML("tls.cert_dir", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-email",
			Usage:   "Email for ACME/Let's Encrypt registration",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_EMAIL"), toml.TOML("tls.email", configFile)),
		},
		&cli.StringSliceFlag{
			Name:    "tls-hosts",
			Usage:   "Host names to request ACME certificates for (one per configured domain)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_HOSTS"), toml.TOML("tls.hosts", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-cert-file",
			Usage:   "Path to TLS certificate file (manual mode)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_CERT_FILE"), toml.TOML("tls.cert_file", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-key-file",
			Usage:   "Path to TLS private key file (manual mode)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_KEY_FILE"), toml.TOML("tls.key_file", configFile)),
		},
		// Locale flags
		&cli.StringFlag{
			Name:    "locale-config",
			Value:   "locales.toml",
			Usage:   "Locale settings file (domains, fallback, path rules)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOCALE_CONFIG"), toml.TOML("locale.config_file", configFile)),
		},
		&cli.StringFlag{
			Name:    "locale-cookie-name",
			Usage:   "Locale cookie name (overrides the settings file)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOCALE_COOKIE_NAME"), toml.TOML("locale.cookie_name", configFile)),
		},
		&cli.StringFlag{
			Name:    "locale-cookie-hash-key",
			Usage:   "Locale cookie hash key (32-byte hex, plain cookie if empty)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOCALE_COOKIE_HASH_KEY"), toml.TOML("locale.cookie_hash_key", configFile)),
		},
		&cli.IntFlag{
			Name:    "locale-permanent-status",
			Value:   http.StatusMovedPermanently,
			Usage:   "Status for redirects that strip an invalid locale",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOCALE_PERMANENT_STATUS"), toml.TOML("locale.permanent_status", configFile)),
		},
		&cli.IntFlag{
			Name:    "locale-temporary-status",
			Value:   http.StatusFound,
			Usage:   "Status for redirects that add the chosen locale",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOCALE_TEMPORARY_STATUS"), toml.TOML("locale.temporary_status", configFile)),
		},
	}
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestIsLocalhost(t *testing.T) {
	tests := []struct {
		host     string
		expected bool
	}{
		{"", true},
		{"localhost", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"app.localhost", true},
		{"sub.domain.localhost", true},
		{"example.com", false},
		{"www.example.com", false},
		{"192.168.1.1", false},
		{"localhost.com", false}, // not a real localhost
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLocalhost(tt.host))
		})
	}
}

func TestShouldUseTLS(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		host     string
		expected bool
	}{
		{"off mode", "off", "example.com", false},
		{"acme mode", "acme", "localhost", true},
		{"manual mode", "manual", "localhost", true},
		{"auto mode with localhost", "auto", "localhost", false},
		{"auto mode with remote host", "auto", "example.com", true},
		{"empty mode with localhost", "", "localhost", false},
		{"empty mode with remote host", "", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shouldUseTLS(tt.mode, tt.host))
		})
	}
}

func TestBuildBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		expected string
	}{
		{
			name: "localhost HTTP default port",
			cfg: &Config{
				Server: ServerConfig{Host: "localhost", Port: 80},
				TLS:    TLSConfig{Mode: "off"},
			},
			expected: "http://localhost",
		},
		{
			name: "localhost HTTP custom port",
			cfg: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				TLS:    TLSConfig{Mode: "off"},
			},
			expected: "http://localhost:8080",
		},
		{
			name: "remote host with auto TLS",
			cfg: &Config{
				Server: ServerConfig{Host: "example.com", Port: 443},
				TLS:    TLSConfig{Mode: "auto"},
			},
			expected: "https://example.com",
		},
		{
			name: "remote host with auto TLS custom port",
			cfg: &Config{
				Server: ServerConfig{Host: "example.com", Port: 8443},
				TLS:    TLSConfig{Mode: "manual"},
			},
			expected: "https://example.com:8443",
		},
		{
			name: "ACME mode forces port 443",
			cfg: &Config{
				Server: ServerConfig{Host: "example.com", Port: 8080},
				TLS:    TLSConfig{Mode: "acme"},
			},
			expected: "https://example.com",
		},
		{
			name: "localhost with auto TLS uses HTTP",
			cfg: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
				TLS:    TLSConfig{Mode: "auto"},
			},
			expected: "http://localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildBaseURL(tt.cfg))
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			TLS: TLSConfig{Mode: "auto"},
			Locale: LocaleConfig{
				ConfigFile:      "locales.toml",
				PermanentStatus: 301,
				TemporaryStatus: 302,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"307 and 308", func(c *Config) {
			c.Locale.PermanentStatus = 308
			c.Locale.TemporaryStatus = 307
		}, ""},
		{"unknown tls mode", func(c *Config) { c.TLS.Mode = "selfsigned" }, "unknown tls mode"},
		{"manual without files", func(c *Config) { c.TLS.Mode = "manual" }, "requires tls-cert-file"},
		{"no locale config", func(c *Config) { c.Locale.ConfigFile = "" }, "locale-config must not be empty"},
		{"permanent not a redirect", func(c *Config) { c.Locale.PermanentStatus = 200 }, "locale-permanent-status 200"},
		{"temporary not a redirect", func(c *Config) { c.Locale.TemporaryStatus = 404 }, "locale-temporary-status 404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestUseTLS(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Host: "www.domain.de"}, TLS: TLSConfig{Mode: "AUTO"}}
	assert.True(t, cfg.UseTLS())

	cfg.TLS.Mode = "off"
	assert.False(t, cfg.UseTLS())
}

func TestFlags(t *testing.T) {
	flags := Flags()

	// Should have all expected flags
	assert.NotEmpty(t, flags)

	// Check for key flags
	flagNames := make(map[string]bool)
	for _, f := range flags {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	assert.True(t, flagNames["config"], "should have config flag")
	assert.True(t, flagNames["host"], "should have host flag")
	assert.True(t, flagNames["port"], "should have port flag")
	assert.True(t, flagNames["base-url"], "should have base-url flag")
	assert.True(t, flagNames["log-level"], "should have log-level flag")
	assert.True(t, flagNames["database-dsn"], "should have database-dsn flag")
	assert.True(t, flagNames["tls-mode"], "should have tls-mode flag")
	assert.True(t, flagNames["tls-hosts"], "should have tls-hosts flag")
	assert.True(t, flagNames["locale-config"], "should have locale-config flag")
	assert.True(t, flagNames["locale-cookie-hash-key"], "should have locale-cookie-hash-key flag")
}

func TestNewFromCLI(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			// Verify defaults are applied
			assert.NotNil(t, cfg)
			assert.Equal(t, "localhost", cfg.Server.Host)
			assert.Equal(t, 8080, cfg.Server.Port)
			assert.Equal(t, "info", cfg.Log.Level)
			assert.Equal(t, "text", cfg.Log.Format)
			assert.Empty(t, cfg.Database.DSN)
			assert.Equal(t, "locales.toml", cfg.Locale.ConfigFile)
			assert.Empty(t, cfg.Locale.CookieName)
			assert.Equal(t, 301, cfg.Locale.PermanentStatus)
			assert.Equal(t, 302, cfg.Locale.TemporaryStatus)

			// BaseURL should be auto-generated
			assert.NotEmpty(t, cfg.Server.BaseURL)
			assert.NoError(t, cfg.Validate())

			return nil
		},
	}

	// Run the command with default flags
	err := app.Run(context.Background(), []string{"test"})
	assert.NoError(t, err)
}

func TestNewFromCLI_WithCustomValues(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			// Verify custom values
			assert.Equal(t, "0.0.0.0", cfg.Server.Host)
			assert.Equal(t, 9000, cfg.Server.Port)
			assert.Equal(t, "https://example.com", cfg.Server.BaseURL)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, "./data/test.db", cfg.Database.DSN)
			assert.Equal(t, "/app", cfg.Server.BasePath)
			assert.Equal(t, []string{"www.domain.de", "www.domain.ch"}, cfg.TLS.Hosts)
			assert.Equal(t, 307, cfg.Locale.TemporaryStatus)

			return nil
		},
	}

	// Run with custom args
	args := []string{
		"test",
		"--host", "0.0.0.0",
		"--port", "9000",
		"--base-url", "https://example.com",
		"--log-level", "debug",
		"--database-dsn", "./data/test.db",
		"--base-path", "/app",
		"--tls-hosts", "www.domain.de",
		"--tls-hosts", "www.domain.ch",
		"--locale-temporary-status", "307",
	}
	err := app.Run(context.Background(), args)
	assert.NoError(t, err)
}

func TestNewFromCLI_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9100

[locale]
config_file = "/etc/locales.toml"
permanent_status = 308
`), 0o600))

	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.Equal(t, 9100, cfg.Server.Port)
			assert.Equal(t, "/etc/locales.toml", cfg.Locale.ConfigFile)
			assert.Equal(t, 308, cfg.Locale.PermanentStatus)
			assert.Equal(t, 302, cfg.Locale.TemporaryStatus)

			return nil
		},
	}

	err := app.Run(context.Background(), []string{"test", "--config", path})
	assert.NoError(t, err)
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"codeberg.org/oliverandrich/multidomain-locale/internal/config"
	"codeberg.org/oliverandrich/multidomain-locale/internal/locale"
	"golang.org/x/crypto/acme/autocert"
)

// TLSMode represents the resolved TLS mode.
type TLSMode string

const (
	TLSModeOff    TLSMode = "off"
	TLSModeACME   TLSMode = "acme"
	TLSModeManual TLSMode = "manual"
)

// TLSResult contains the resolved TLS configuration.
type TLSResult struct {
	TLSConfig   *tls.Config
	CertManager *autocert.Manager // nil unless ACME mode
	HTTPHandler http.Handler      // ACME challenges and HTTP→HTTPS redirect
	Hosts       []string          // hosts certificates are issued for (ACME only)
	Mode        TLSMode
}

// SetupTLS configures TLS based on the configuration. In ACME mode
// certificates are issued for every configured host whose top-level domain
// has locale settings.
func SetupTLS(cfg *config.Config, svc *locale.Service) (*TLSResult, error) {
	mode := resolveTLSMode(cfg)

	switch mode {
	case TLSModeOff:
		slog.Info("TLS mode: off")
		return &TLSResult{Mode: TLSModeOff}, nil

	case TLSModeACME:
		if err := validateACME(cfg); err != nil {
			return nil, err
		}
		hosts := acmeHosts(cfg, svc)
		if len(hosts) == 0 {
			return nil, fmt.Errorf("ACME mode requires at least one host in TLS_HOSTS")
		}
		slog.Info("TLS mode: acme (Let's Encrypt)",
			"hosts", hosts,
			"email", cfg.TLS.Email,
		)
		return setupACME(cfg, hosts)

	case TLSModeManual:
		slog.Info("TLS mode: manual",
			"cert", cfg.TLS.CertFile,
			"key", cfg.TLS.KeyFile,
		)
		return setupManual(cfg)

	default:
		return nil, fmt.Errorf("unknown TLS mode: %s", mode)
	}
}

// resolveTLSMode determines the TLS mode based on configuration and environment.
func resolveTLSMode(cfg *config.Config) TLSMode {
	mode := strings.ToLower(cfg.TLS.Mode)

	// Explicit mode takes precedence
	switch mode {
	case "off":
		return TLSModeOff
	case "acme":
		return TLSModeACME
	case "manual":
		return TLSModeManual
	case "auto", "":
		// Fall through to auto-detection
	default:
		slog.Warn("unknown TLS mode, using auto", "mode", mode)
	}

	if config.IsLocalhost(cfg.Server.Host) {
		return TLSModeOff
	}

	// If cert files are provided, use manual mode
	if cfg.TLS.CertFile != "" && cfg.TLS.KeyFile != "" {
		return TLSModeManual
	}

	if cfg.TLS.Email != "" && len(cfg.TLS.Hosts) > 0 {
		return TLSModeACME
	}

	slog.Warn("no certificate source configured, serving plain HTTP")
	return TLSModeOff
}

// acmeHosts returns the configured hosts, lower-cased and deduplicated,
// dropping those whose top-level domain has no locale settings. Without
// configured hosts the server host is used.
func acmeHosts(cfg *config.Config, svc *locale.Service) []string {
	candidates := cfg.TLS.Hosts
	if len(candidates) == 0 && !config.IsLocalhost(cfg.Server.Host) {
		candidates = []string{cfg.Server.Host}
	}

	domains := svc.Settings().Domains
	hosts := make([]string, 0, len(candidates))
	for _, host := range candidates {
		host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
		if host == "" || net.ParseIP(host) != nil || slices.Contains(hosts, host) {
			continue
		}
		if _, ok := domains[svc.TopLevelDomain(host)]; !ok {
			slog.Warn("skipping ACME host without locale settings", "host", host)
			continue
		}
		hosts = append(hosts, host)
	}
	return hosts
}

// validateACME checks requirements when ACME mode is selected.
func validateACME(cfg *config.Config) error {
	if cfg.Server.Port != 443 {
		slog.Warn("ACME mode uses port 443, configured port will be ignored",
			"configured_port", cfg.Server.Port,
		)
	}

	if cfg.TLS.Email == "" {
		return fmt.Errorf("ACME mode requires TLS_EMAIL to be set")
	}

	// Check if port 80 is available (required for HTTP-01 challenge)
	if !isPortAvailable(80) {
		return fmt.Errorf("ACME mode requires port 80 for HTTP-01 challenge (port in use)")
	}

	if !isPortAvailable(443) {
		return fmt.Errorf("ACME mode requires port 443 for HTTPS (port in use)")
	}

	return nil
}

// isPortAvailable checks if a port is available for binding.
func isPortAvailable(port int) bool {
	addr := fmt.Sprintf(":%d", port)
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

// setupACME configures Let's Encrypt with autocert for hosts.
func setupACME(cfg *config.Config, hosts []string) (*TLSResult, error) {
	certDir := filepath.Join(cfg.TLS.CertDir, "acme")
	if err := os.MkdirAll(certDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create ACME cert directory: %w", err)
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Email:      cfg.TLS.Email,
		Cache:      autocert.DirCache(certDir),
		HostPolicy: autocert.HostWhitelist(hosts...),
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	return &TLSResult{
		Mode:        TLSModeACME,
		TLSConfig:   tlsConfig,
		CertManager: manager,
		HTTPHandler: manager.HTTPHandler(nil),
		Hosts:       hosts,
	}, nil
}

// setupManual loads user-provided certificate files.
func setupManual(cfg *config.Config) (*TLSResult, error) {
	certFile := cfg.TLS.CertFile
	keyFile := cfg.TLS.KeyFile

	if certFile == "" || keyFile == "" {
		return nil, fmt.Errorf("manual TLS mode requires both cert-file and key-file")
	}

	if _, err := os.Stat(certFile); err != nil {
		return nil, fmt.Errorf("certificate file not found: %w", err)
	}
	if _, err := os.Stat(keyFile); err != nil {
		return nil, fmt.Errorf("key file not found: %w", err)
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}

	slog.Info("Using manual certificate", "cert", certFile, "key", keyFile)
	logCertFingerprint(&cert)

	return &TLSResult{
		Mode: TLSModeManual,
		TLSConfig: &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		},
	}, nil
}

// logCertFingerprint logs the SHA256 fingerprint of the certificate.
func logCertFingerprint(cert *tls.Certificate) {
	if len(cert.Certificate) == 0 {
		return
	}
	fingerprint := sha256.Sum256(cert.Certificate[0])
	hexParts := make([]string, len(fingerprint))
	for i, b := range fingerprint {
		hexParts[i] = fmt.Sprintf("%02X", b)
	}
	slog.Info("Certificate fingerprint", "sha256", strings.Join(hexParts, ":"))
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package locale

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"

	"github.com/BurntSushi/toml"
)

// DefaultCookieName is the cookie that carries a preferred locale.
const DefaultCookieName = "pl"

// Source is a place a locale preference can come from.
type Source string

const (
	SourceCookie Source = "cookie"
	SourceHeader Source = "header"
)

// DefaultPrecedence is cookie first, then Accept-Language.
var DefaultPrecedence = []Source{SourceCookie, SourceHeader}

// DomainSettings configures the locales of one top-level domain.
type DomainSettings struct {
	Locales []string `toml:"locales"`
	Default string   `toml:"default"`
}

// PathSettings selects the paths subject to locale handling.
type PathSettings struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// Settings is the locale configuration surface.
type Settings struct {
	CookieName string                    `toml:"cookie_name"`
	Precedence []Source                  `toml:"precedence"`
	Paths      PathSettings              `toml:"paths"`
	Fallback   DomainSettings            `toml:"fallback"`
	Domains    map[string]DomainSettings `toml:"domains"`
}

// DefaultSettings returns settings with the default cookie, precedence and
// a catch-all path allowlist. Domains and fallback still need to be set.
func DefaultSettings() *Settings {
	return &Settings{
		CookieName: DefaultCookieName,
		Precedence: slices.Clone(DefaultPrecedence),
		Paths: PathSettings{
			Include: []string{"^/"},
		},
		Domains: map[string]DomainSettings{},
	}
}

// LoadSettings reads a TOML settings file.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	if _, err := toml.DecodeFile(path, s); err != nil {
		return nil, fmt.Errorf("failed to read locale settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// DecodeSettings parses TOML settings from a string.
func DecodeSettings(data string) (*Settings, error) {
	s := DefaultSettings()
	if _, err := toml.Decode(data, s); err != nil {
		return nil, fmt.Errorf("failed to decode locale settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings for consistency.
func (s *Settings) Validate() error {
	var errs []error

	if s.CookieName == "" {
		errs = append(errs, errors.New("cookie_name must not be empty"))
	}

	for _, src := range s.Precedence {
		if src != SourceCookie && src != SourceHeader {
			errs = append(errs, fmt.Errorf("unknown precedence source %q", src))
		}
	}

	if err := s.Fallback.validate("fallback"); err != nil {
		errs = append(errs, err)
	}
	for _, tld := range s.TLDs() {
		if err := s.Domains[tld].validate("domains." + tld); err != nil {
			errs = append(errs, err)
		}
	}

	for _, pattern := range append(slices.Clone(s.Paths.Include), s.Paths.Exclude...) {
		if _, err := regexp.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("invalid path pattern %q: %w", pattern, err))
		}
	}

	return errors.Join(errs...)
}

// TLDs returns the configured top-level domains in sorted order.
func (s *Settings) TLDs() []string {
	tlds := make([]string, 0, len(s.Domains))
	for tld := range s.Domains {
		tlds = append(tlds, tld)
	}
	sort.Strings(tlds)
	return tlds
}

func (d DomainSettings) validate(name string) error {
	if len(d.Locales) == 0 {
		return fmt.Errorf("%s: no locales configured", name)
	}
	for _, code := range d.Locales {
		if !IsLocaleCode(code) {
			return fmt.Errorf("%s: malformed locale code %q", name, code)
		}
	}
	if !slices.Contains(d.Locales, d.Default) {
		return fmt.Errorf("%s: default %q is not among its locales", name, d.Default)
	}
	return nil
}

// ValidateDomain checks the settings of a single top-level domain.
func ValidateDomain(tld string, d DomainSettings) error {
	return d.validate("domains." + tld)
}

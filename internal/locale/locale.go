// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package locale decides whether a request path carries a locale that is
// valid for the requesting domain, and where to redirect it if not.
package locale

import (
	"strings"
)

// Action is the outcome of a locale decision.
type Action int

const (
	// NoAction lets the request pass unchanged.
	NoAction Action = iota
	// PermanentRedirect strips an invalid locale segment from the path.
	PermanentRedirect
	// TemporaryRedirect prepends a resolved locale to the path.
	TemporaryRedirect
)

func (a Action) String() string {
	switch a {
	case PermanentRedirect:
		return "permanent_redirect"
	case TemporaryRedirect:
		return "temporary_redirect"
	default:
		return "no_action"
	}
}

// Request is the read-only view of an incoming request.
type Request struct {
	Method         string
	Host           string
	Path           string
	RawQuery       string // passed through verbatim
	Cookie         string // locale cookie value, empty if absent
	AcceptLanguage string
}

// AllowedLocales lists the locales a top-level domain accepts.
type AllowedLocales struct {
	Locales []string
	Default string
}

// Result is the locale segment found at the start of a path.
type Result struct {
	Locale string
	Found  bool
}

// Decision is what the adapter should do with a request.
type Decision struct {
	Action   Action
	Path     string
	RawQuery string
	// Locale is the effective request locale. Empty when the path is not
	// locale-aware or the decision is a permanent redirect.
	Locale string
}

// Location renders the redirect target for baseURL.
func (d Decision) Location(baseURL string) string {
	loc := strings.TrimSuffix(baseURL, "/") + onHost(d.Path)
	if d.RawQuery != "" {
		loc += "?" + d.RawQuery
	}
	return loc
}

// onHost collapses leading slashes and backslashes so path cannot be read
// as a URL on another host.
func onHost(path string) string {
	if strings.HasPrefix(path, "//") || strings.HasPrefix(path, `/\`) {
		return "/" + strings.TrimLeft(path, `/\`)
	}
	return path
}

// Manager resolves the locale-related facts the decision depends on.
type Manager interface {
	TopLevelDomain(host string) string
	IsPathIncluded(path string) bool
	AllowedLocales(tld string) AllowedLocales
	LocalePathInfo(path string) Result
	IsLocaleAllowed(locale string, allowed []string) bool
	RemoveInvalidLocale(path, locale string) string
	ChooseLocale(req Request, allowed AllowedLocales) string
}

// Decide evaluates req against m.
func Decide(m Manager, req Request) Decision {
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if !m.IsPathIncluded(path) {
		return Decision{Action: NoAction, Path: path, RawQuery: req.RawQuery}
	}

	allowed := m.AllowedLocales(m.TopLevelDomain(req.Host))

	if result := m.LocalePathInfo(path); result.Found {
		if m.IsLocaleAllowed(result.Locale, allowed.Locales) {
			return Decision{Action: NoAction, Path: path, RawQuery: req.RawQuery, Locale: result.Locale}
		}
		return Decision{
			Action:   PermanentRedirect,
			Path:     m.RemoveInvalidLocale(path, result.Locale),
			RawQuery: req.RawQuery,
		}
	}

	chosen := m.ChooseLocale(req, allowed)
	return Decision{
		Action:   TemporaryRedirect,
		Path:     "/" + chosen + path,
		RawQuery: req.RawQuery,
		Locale:   chosen,
	}
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package locale

import (
	"net"
	"regexp"
	"slices"
	"strings"
)

// localePattern matches codes like de_DE, fr_CH or es_419.
var localePattern = regexp.MustCompile(`^[a-z]{2,3}_(?:[A-Z]{2}|[0-9]{3})$`)

// IsLocaleCode reports whether s has the language_COUNTRY shape.
func IsLocaleCode(s string) bool {
	return localePattern.MatchString(s)
}

// Service is the settings-backed Manager.
type Service struct {
	settings *Settings
	include  []*regexp.Regexp
	exclude  []*regexp.Regexp
	// matchers is keyed by the comma-joined locale list; read-only after
	// construction.
	matchers map[string]*acceptMatcher
}

var _ Manager = (*Service)(nil)

// NewService validates settings and builds a Service from them.
func NewService(settings *Settings) (*Service, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		settings: settings,
		matchers: make(map[string]*acceptMatcher, len(settings.Domains)+1),
	}
	for _, p := range settings.Paths.Include {
		s.include = append(s.include, regexp.MustCompile(p))
	}
	for _, p := range settings.Paths.Exclude {
		s.exclude = append(s.exclude, regexp.MustCompile(p))
	}
	s.matchers[matcherKey(settings.Fallback.Locales)] = newAcceptMatcher(settings.Fallback.Locales)
	for _, d := range settings.Domains {
		s.matchers[matcherKey(d.Locales)] = newAcceptMatcher(d.Locales)
	}
	return s, nil
}

// Settings returns the settings the service was built from.
func (s *Service) Settings() *Settings {
	return s.settings
}

// CookieName returns the name of the locale cookie.
func (s *Service) CookieName() string {
	return s.settings.CookieName
}

// TopLevelDomain returns the last label of host, without port.
func (s *Service) TopLevelDomain(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if net.ParseIP(host) != nil {
		return host
	}
	if i := strings.LastIndexByte(host, '.'); i >= 0 {
		return host[i+1:]
	}
	return host
}

// IsPathIncluded reports whether path is subject to locale handling. A
// leading locale segment is ignored, so /de_DE/v3/x is judged as /v3/x.
func (s *Service) IsPathIncluded(path string) bool {
	if res := s.LocalePathInfo(path); res.Found {
		path = s.RemoveInvalidLocale(path, res.Locale)
	}

	included := false
	for _, re := range s.include {
		if re.MatchString(path) {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, re := range s.exclude {
		if re.MatchString(path) {
			return false
		}
	}
	return true
}

// AllowedLocales returns the domain's locales, or the fallback's for
// unknown domains.
func (s *Service) AllowedLocales(tld string) AllowedLocales {
	d, ok := s.settings.Domains[tld]
	if !ok {
		d = s.settings.Fallback
	}
	return AllowedLocales{Locales: slices.Clone(d.Locales), Default: d.Default}
}

// LocalePathInfo extracts a locale-shaped first segment from path.
func (s *Service) LocalePathInfo(path string) Result {
	segment := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	if !IsLocaleCode(segment) {
		return Result{}
	}
	return Result{Locale: segment, Found: true}
}

// IsLocaleAllowed reports whether locale is one of allowed.
func (s *Service) IsLocaleAllowed(locale string, allowed []string) bool {
	return locale != "" && slices.Contains(allowed, locale)
}

// RemoveInvalidLocale drops the leading locale segment from path.
func (s *Service) RemoveInvalidLocale(path, locale string) string {
	rest, ok := strings.CutPrefix(path, "/"+locale)
	if !ok {
		return path
	}
	if rest == "" {
		return "/"
	}
	if !strings.HasPrefix(rest, "/") {
		// segment only shared a prefix with locale
		return path
	}
	// a doubled slash would leave a protocol-relative URL
	return "/" + strings.TrimLeft(rest, `/\`)
}

// ChooseLocale picks the locale for a request without one, following the
// configured precedence and ending at the domain default.
func (s *Service) ChooseLocale(req Request, allowed AllowedLocales) string {
	for _, src := range s.settings.Precedence {
		switch src {
		case SourceCookie:
			if s.IsLocaleAllowed(req.Cookie, allowed.Locales) {
				return req.Cookie
			}
		case SourceHeader:
			if req.AcceptLanguage == "" {
				continue
			}
			if match, ok := s.matcherFor(allowed).Match(req.AcceptLanguage); ok {
				return match
			}
		}
	}
	return allowed.Default
}

func (s *Service) matcherFor(allowed AllowedLocales) *acceptMatcher {
	if m, ok := s.matchers[matcherKey(allowed.Locales)]; ok {
		return m
	}
	return newAcceptMatcher(allowed.Locales)
}

func matcherKey(locales []string) string {
	return strings.Join(locales, ",")
}

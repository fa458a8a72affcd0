// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// acceptMatcher matches Accept-Language headers against a locale list.
type acceptMatcher struct {
	locales []string
	matcher language.Matcher // nil when no locale parses as BCP 47
	index   []int            // matcher tag index -> locales index
}

func newAcceptMatcher(locales []string) *acceptMatcher {
	m := &acceptMatcher{locales: locales}

	var tags []language.Tag
	for i, code := range locales {
		tag, err := ParseTag(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		m.index = append(m.index, i)
	}
	if len(tags) > 0 {
		m.matcher = language.NewMatcher(tags)
	}
	return m
}

// Match returns the best locale for the header, honouring q-weights.
func (m *acceptMatcher) Match(acceptLanguage string) (string, bool) {
	if m.matcher == nil {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(strings.TrimSpace(acceptLanguage))
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, conf := m.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(m.index) {
		return "", false
	}
	return m.locales[m.index[idx]], true
}

// ParseTag converts a locale code such as de_DE into a BCP 47 tag.
func ParseTag(code string) (language.Tag, error) {
	return language.Parse(strings.ReplaceAll(code, "_", "-"))
}

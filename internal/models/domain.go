// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package models holds the records stored in the domain registry.
package models

import (
	"strings"
	"time"

	"codeberg.org/oliverandrich/multidomain-locale/internal/locale"
)

// Domain is a registry entry overriding the locale settings of one
// top-level domain.
type Domain struct { //nolint:govet // fieldalignment not critical for models
	TLD           string    `db:"tld" json:"tld"`
	Locales       string    `db:"locales" json:"locales"` // comma-separated
	DefaultLocale string    `db:"default_locale" json:"default_locale"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// NewDomain builds a Domain from its locale list.
func NewDomain(tld string, locales []string, defaultLocale string) *Domain {
	return &Domain{
		TLD:           strings.ToLower(tld),
		Locales:       strings.Join(locales, ","),
		DefaultLocale: defaultLocale,
	}
}

// LocaleList returns the locales in configured order.
func (d *Domain) LocaleList() []string {
	var out []string
	for code := range strings.SplitSeq(d.Locales, ",") {
		if code = strings.TrimSpace(code); code != "" {
			out = append(out, code)
		}
	}
	return out
}

// Settings converts the entry to locale settings.
func (d *Domain) Settings() locale.DomainSettings {
	return locale.DomainSettings{
		Locales: d.LocaleList(),
		Default: d.DefaultLocale,
	}
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package i18n

import (
	"context"
	"embed"
	"io/fs"

	"codeberg.org/oliverandrich/multidomain-locale/internal/locale"
	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale was set on the request.
const DefaultLocale = "en_GB"

//go:embed translations/*.toml
var translationFS embed.FS

var bundle *i18n.Bundle

type localeContextKey struct{}
type localizerContextKey struct{}

// Init initializes the i18n bundle with embedded translations.
func Init() error {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(translationFS, "translations/*.toml")
	if err != nil {
		return err
	}

	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(translationFS, file); err != nil {
			return err
		}
	}

	return nil
}

// Languages returns the languages that have translations.
func Languages() []language.Tag {
	if bundle == nil {
		return nil
	}
	return bundle.LanguageTags()
}

// WithLocale stores the locale code (e.g. de_CH) and a matching localizer
// in the context.
func WithLocale(ctx context.Context, code string) context.Context {
	ctx = context.WithValue(ctx, localeContextKey{}, code)
	localizer := i18n.NewLocalizer(bundle, TagFor(code).String(), language.English.String())
	return context.WithValue(ctx, localizerContextKey{}, localizer)
}

// GetLocale returns the current locale code from context.
func GetLocale(ctx context.Context) string {
	if code, ok := ctx.Value(localeContextKey{}).(string); ok && code != "" {
		return code
	}
	return DefaultLocale
}

// TagFor converts a locale code to a language tag. Codes without a valid
// BCP 47 form yield language.Und.
func TagFor(code string) language.Tag {
	tag, err := locale.ParseTag(code)
	if err != nil {
		return language.Und
	}
	return tag
}

// HTMLLang returns the current locale in the form used by the html lang
// attribute.
func HTMLLang(ctx context.Context) string {
	tag := TagFor(GetLocale(ctx))
	if tag == language.Und {
		return language.English.String()
	}
	return tag.String()
}

// T translates a message by ID.
func T(ctx context.Context, messageID string) string {
	localizer := getLocalizer(ctx)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: messageID,
	})
	if err != nil {
		return messageID
	}
	return msg
}

// TData translates a message with template data.
func TData(ctx context.Context, messageID string, data map[string]any) string {
	localizer := getLocalizer(ctx)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

func getLocalizer(ctx context.Context) *i18n.Localizer {
	if localizer, ok := ctx.Value(localizerContextKey{}).(*i18n.Localizer); ok {
		return localizer
	}
	return i18n.NewLocalizer(bundle, language.English.String())
}

// Package i18n holds the French and English message catalogs, the
// Accept-Language detection and the localized date formats.
package i18n

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLang is used when nothing better can be negotiated.
const DefaultLang = "fr"

var (
	supported = []language.Tag{language.French, language.English}
	matcher   = language.NewMatcher(supported)
)

// DetectLanguage picks the best supported language for an Accept-Language
// header value.
func DetectLanguage(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// Normalize maps arbitrary input ("EN", "en_GB", "") to a supported code.
func Normalize(lang string) string {
	l := strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(l, "-_"); i > 0 {
		l = l[:i]
	}
	if _, ok := catalogs[l]; ok {
		return l
	}
	return DefaultLang
}

// T translates code into lang, falling back to French and then to the
// code itself. When args are given the message is used as a format string.
func T(lang, code string, args ...any) string {
	msg, ok := catalogs[strings.ToLower(lang)][code]
	if !ok {
		msg, ok = catalogs[DefaultLang][code]
	}
	if !ok {
		msg = code
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

type ctxKey struct{}

// WithLang stores the request language.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, Normalize(lang))
}

// LangFromContext returns the request language or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(ctxKey{}).(string); ok && l != "" {
		return l
	}
	return DefaultLang
}

// Package i18n resolves localized UI strings. Bundles are nested JSON objects
// partitioned by language and namespace; lookups that cannot be satisfied fall
// back to the key path so missing translations stay visible.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is one of the supported UI locales.
type Language string

const (
	English    Language = "en"
	Portuguese Language = "pt"

	DefaultLanguage = English
)

// Supported lists every language a bundle may exist for, default first.
func Supported() []Language {
	return []Language{English, Portuguese}
}

// ParseLanguage accepts only the exact codes of supported languages.
func ParseLanguage(value string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(value))) {
	case English:
		return English, true
	case Portuguese:
		return Portuguese, true
	default:
		return "", false
	}
}

// DetectLanguage maps a runtime-reported locale ("pt-BR", "pt_BR.UTF-8", "en")
// to a supported language using its primary subtag.
func DetectLanguage(locale string) Language {
	locale = strings.TrimSpace(locale)
	if idx := strings.IndexAny(locale, ".@"); idx >= 0 {
		locale = locale[:idx]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" {
		return DefaultLanguage
	}

	// the primary subtag is compared literally; three-letter codes such as "por" are not mapped
	primary, _, _ := strings.Cut(locale, "-")
	if strings.EqualFold(primary, string(Portuguese)) {
		return Portuguese
	}
	return DefaultLanguage
}

// DetectFromAcceptLanguage applies DetectLanguage to the preferred entry of an
// Accept-Language header, the server-side equivalent of the browser locale.
func DetectFromAcceptLanguage(header string) Language {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	return DetectLanguage(tags[0].String())
}

package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

var matcher = language.NewMatcher(supported)

// ParseLocale resolves a locale string to the closest supported tag.
// Unknown or empty input resolves to the base locale.
func ParseLocale(locale string) language.Tag {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return language.AmericanEnglish
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return language.AmericanEnglish
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.AmericanEnglish
	}
	return supported[index]
}

// Printer returns a message printer for locale.
func Printer(locale string) *message.Printer {
	Default()
	return message.NewPrinter(ParseLocale(locale))
}

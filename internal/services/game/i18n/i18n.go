// Package i18n carries the display strings for the standard roster.
// Role, alignment, ability, and modifier identifiers stay stable on
// the wire; these catalogs only translate them for presentation. Each
// locale registers its strings in a per-language message file, and
// lookups fall back to the caller's English text when a locale has no
// entry for a key.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys derive from the stable catalog identifiers, so a new
// role or modifier only needs entries in the message files.

// RoleKey returns the message key for a role's display name.
func RoleKey(role string) string { return "role." + role }

// AlignmentKey returns the message key for an alignment's display name.
func AlignmentKey(alignment string) string { return "alignment." + alignment }

// AbilityNameKey returns the message key for an ability's display name.
func AbilityNameKey(id string) string { return "ability." + id + ".name" }

// AbilityDescriptionKey returns the message key for an ability's
// description.
func AbilityDescriptionKey(id string) string { return "ability." + id + ".description" }

// ModifierKey returns the message key for a modifier's display name.
func ModifierKey(modifier string) string { return "modifier." + modifier }

var supported = []language.Tag{
	language.English,
	language.MustParse("pt-BR"),
}

var matcher = language.NewMatcher(supported)

// Printer returns a message printer for the best supported match in an
// Accept-Language header. Empty or unparseable headers get English.
func Printer(acceptLanguage string) *message.Printer {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return message.NewPrinter(language.English)
	}
	_, index, _ := matcher.Match(tags...)
	return message.NewPrinter(supported[index])
}

// Lookup translates key through p. When the printer's locale has no
// entry the key itself comes back from Sprintf, and the caller's
// fallback text is used instead.
func Lookup(p *message.Printer, key, fallback string) string {
	if got := p.Sprintf(key); got != key {
		return got
	}
	return fallback
}

// Package i18n renders user-facing error messages by locale. Catalogs
// are compiled in; locale negotiation runs through x/text matching so
// "pt" resolves to pt-BR instead of falling straight to English.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// Code aliases the error code string. The errors package imports this
// one, so the alias avoids the cycle.
type Code = string

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	// catalogs holds the built-in and test-registered catalogs by locale.
	catalogs = map[string]*Catalog{
		"en-US": NewCatalog("en-US", messagesEnUS),
		"pt-BR": NewCatalog("pt-BR", messagesPtBR),
	}
	supportedTags = []language.Tag{
		language.MustParse("en-US"),
		language.MustParse("pt-BR"),
	}
	matcher = language.NewMatcher(supportedTags)
)

// GetCatalog returns the catalog for the given locale.
// Unknown locales resolve through language matching and fall back to en-US.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}

	if c, ok := lookupCatalog(requested); ok {
		return c
	}

	resolved := BaseLocale
	if tag, err := language.Parse(requested); err == nil {
		_, index, confidence := matcher.Match(tag)
		if confidence > language.No {
			resolved = supportedTags[index].String()
		}
	}
	if c, ok := lookupCatalog(resolved); ok {
		return c
	}
	c, _ := lookupCatalog(BaseLocale)
	return c
}

// RegisterCatalog installs a catalog for a locale, replacing any
// existing one. Tests use it to inject fixture messages.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// NewCatalog builds a catalog from a message map. The map is copied so
// later mutation by the caller cannot reach the shared registry.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
	}
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template for code with the given
// metadata. An unknown code renders as the code itself, and a template
// that fails to parse or execute renders as its raw text, so a catalog
// gap never turns into an empty user message.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}

	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}

package i18n

import (
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/smalltown/internal/services/game/domain/ability"
	"github.com/louisbranch/smalltown/internal/services/game/domain/role/catalog"
)

func TestPrinterMatchesAcceptLanguage(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", "Protect"},
		{"exact match", "pt-BR", "Proteger"},
		{"weighted list", "pt-BR,pt;q=0.9,en;q=0.8", "Proteger"},
		{"parent tag", "pt", "Proteger"},
		{"unsupported locale", "fr-FR", "Protect"},
		{"garbage header", ";;;", "Protect"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Printer(tc.header)
			got := Lookup(p, AbilityNameKey("doctor.protect"), "Protect")
			if got != tc.want {
				t.Fatalf("Lookup() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLookupFallsBackForUnknownKeys(t *testing.T) {
	p := message.NewPrinter(language.MustParse("pt-BR"))
	if got := Lookup(p, RoleKey("Godfather"), "Godfather"); got != "Godfather" {
		t.Fatalf("Lookup() = %q, want the fallback text", got)
	}
}

// TestStandardRosterCovered keeps the message files in step with the
// role catalog: every role, alignment, ability, and modifier in the
// standard set must carry a Brazilian Portuguese entry.
func TestStandardRosterCovered(t *testing.T) {
	const missing = "\x00missing"
	p := message.NewPrinter(language.MustParse("pt-BR"))
	set := catalog.Standard()

	var descriptors []ability.Descriptor
	for _, r := range set.Roles() {
		if Lookup(p, RoleKey(r.Name), missing) == missing {
			t.Errorf("role %s has no pt-BR name", r.Name)
		}
		descriptors = append(descriptors, r.Abilities...)
	}
	for _, a := range set.Alignments() {
		if Lookup(p, AlignmentKey(a.Name), missing) == missing {
			t.Errorf("alignment %s has no pt-BR name", a.Name)
		}
		descriptors = append(descriptors, a.Shared...)
	}
	for _, m := range set.Modifiers() {
		if Lookup(p, ModifierKey(m.Name), missing) == missing {
			t.Errorf("modifier %s has no pt-BR name", m.Name)
		}
	}
	for _, d := range descriptors {
		if Lookup(p, AbilityNameKey(d.ID), missing) == missing {
			t.Errorf("ability %s has no pt-BR name", d.ID)
		}
		if Lookup(p, AbilityDescriptionKey(d.ID), missing) == missing {
			t.Errorf("ability %s has no pt-BR description", d.ID)
		}
	}
}

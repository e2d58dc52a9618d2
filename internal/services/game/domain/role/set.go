package role

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/smalltown/internal/services/game/domain/ability"
)

var (
	// ErrNameRequired indicates a missing name.
	ErrNameRequired = errors.New("name is required")
	// ErrRoleExists indicates the role name is already registered.
	ErrRoleExists = errors.New("role is already registered")
	// ErrAlignmentExists indicates the alignment name is already registered.
	ErrAlignmentExists = errors.New("alignment is already registered")
	// ErrModifierExists indicates the modifier name is already registered.
	ErrModifierExists = errors.New("modifier is already registered")
	// ErrWinCheckRequired indicates an alignment without a win condition.
	ErrWinCheckRequired = errors.New("alignment win check is required")
	// ErrUnknownModifier indicates a modifier name with no registration.
	ErrUnknownModifier = errors.New("modifier is not registered")
)

// Set bundles the roles, alignments, and modifiers a game plays with,
// plus the flat ability registry their descriptors land in.
type Set struct {
	roles      map[string]Role
	alignments map[string]Alignment
	modifiers  map[string]Modifier
	abilities  *ability.Registry
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{
		roles:      make(map[string]Role),
		alignments: make(map[string]Alignment),
		modifiers:  make(map[string]Modifier),
		abilities:  ability.NewRegistry(),
	}
}

// RegisterRole adds a role and registers its ability descriptors.
func (s *Set) RegisterRole(r Role) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrNameRequired
	}
	if _, exists := s.roles[r.Name]; exists {
		return fmt.Errorf("%w: %s", ErrRoleExists, r.Name)
	}
	for _, d := range append(append([]ability.Descriptor(nil), r.Abilities...), r.Passives...) {
		if err := s.abilities.Register(d); err != nil {
			return fmt.Errorf("role %s ability %s: %w", r.Name, d.ID, err)
		}
	}
	s.roles[r.Name] = r
	return nil
}

// RegisterAlignment adds an alignment and registers its shared abilities.
func (s *Set) RegisterAlignment(a Alignment) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return ErrNameRequired
	}
	if a.WinCheck == nil {
		return fmt.Errorf("%w: %s", ErrWinCheckRequired, a.Name)
	}
	if _, exists := s.alignments[a.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlignmentExists, a.Name)
	}
	for _, d := range a.Shared {
		if err := s.abilities.Register(d); err != nil {
			return fmt.Errorf("alignment %s ability %s: %w", a.Name, d.ID, err)
		}
	}
	s.alignments[a.Name] = a
	return nil
}

// RegisterModifier adds an ability modifier.
func (s *Set) RegisterModifier(m Modifier) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return ErrNameRequired
	}
	if _, exists := s.modifiers[m.Name]; exists {
		return fmt.Errorf("%w: %s", ErrModifierExists, m.Name)
	}
	s.modifiers[m.Name] = m
	return nil
}

// Role returns the named role.
func (s *Set) Role(name string) (Role, bool) {
	r, ok := s.roles[name]
	return r, ok
}

// Alignment returns the named alignment.
func (s *Set) Alignment(name string) (Alignment, bool) {
	a, ok := s.alignments[name]
	return a, ok
}

// Modifier returns the named modifier.
func (s *Set) Modifier(name string) (Modifier, bool) {
	m, ok := s.modifiers[name]
	return m, ok
}

// Abilities returns the flat registry of every registered descriptor.
func (s *Set) Abilities() *ability.Registry {
	return s.abilities
}

// Roles lists registered roles sorted by name.
func (s *Set) Roles() []Role {
	names := make([]string, 0, len(s.roles))
	for name := range s.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Role, 0, len(names))
	for _, name := range names {
		out = append(out, s.roles[name])
	}
	return out
}

// Alignments lists registered alignments sorted by name.
func (s *Set) Alignments() []Alignment {
	names := make([]string, 0, len(s.alignments))
	for name := range s.alignments {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Alignment, 0, len(names))
	for _, name := range names {
		out = append(out, s.alignments[name])
	}
	return out
}

// Modifiers lists registered modifiers sorted by name.
func (s *Set) Modifiers() []Modifier {
	names := make([]string, 0, len(s.modifiers))
	for name := range s.modifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Modifier, 0, len(names))
	for _, name := range names {
		out = append(out, s.modifiers[name])
	}
	return out
}

// EffectiveDescriptor applies the named modifiers to the descriptor in
// order. Unknown modifier names error so callers fail loudly instead of
// silently skipping a decoration.
func (s *Set) EffectiveDescriptor(d ability.Descriptor, modifierNames []string) (ability.Descriptor, error) {
	for _, name := range modifierNames {
		m, ok := s.modifiers[name]
		if !ok {
			return ability.Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownModifier, name)
		}
		if m.Transform != nil {
			d = m.Transform(d)
		}
	}
	return d, nil
}

// PlayerTags merges a role's tags with those granted by the named
// modifiers, preserving order and dropping duplicates.
func (s *Set) PlayerTags(r Role, modifierNames []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(tags []string) {
		for _, tag := range tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	add(r.Tags)
	for _, name := range modifierNames {
		m, ok := s.modifiers[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModifier, name)
		}
		add(m.Tags)
	}
	return out, nil
}

// EvaluateWins returns the names of alignments whose win predicates
// hold for the snapshot, sorted for determinism.
func (s *Set) EvaluateWins(snap Snapshot) []string {
	var out []string
	for name, a := range s.alignments {
		if a.WinCheck != nil && a.WinCheck(snap) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

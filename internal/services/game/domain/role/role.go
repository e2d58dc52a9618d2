// Package role defines roles, alignments, and the modifiers that
// decorate their abilities.
package role

import (
	"github.com/louisbranch/smalltown/internal/services/game/domain/ability"
)

// Role is a reusable template of abilities and tags. A role carries no
// alignment of its own; games assign role and alignment per player, so
// the same role can serve different factions.
type Role struct {
	Name        string
	Description string
	Abilities   []ability.Descriptor
	Passives    []ability.Descriptor
	Tags        []string
	// KnowsRolemates seeds mutual knowledge and a group chat between
	// players sharing this role at game creation.
	KnowsRolemates bool
}

// Modifier decorates a role's abilities and tags its holder. Transforms
// apply in attachment order, so stacking is well defined.
type Modifier struct {
	Name        string
	Description string
	// Tags are granted to any player holding the modifier.
	Tags []string
	// Transform rewrites each of the role's ability descriptors. A nil
	// transform leaves descriptors untouched.
	Transform func(ability.Descriptor) ability.Descriptor
}

// Member is one player's standing inside a win-condition snapshot.
type Member struct {
	Name      string
	Role      string
	Alignment string
	Hostile   bool
	Alive     bool
}

// Snapshot is the game surface win predicates are judged against.
type Snapshot struct {
	Day     int
	Members []Member
}

// Living returns the members still alive.
func (s Snapshot) Living() []Member {
	out := make([]Member, 0, len(s.Members))
	for _, m := range s.Members {
		if m.Alive {
			out = append(out, m)
		}
	}
	return out
}

// WinCheck reports whether an alignment's win condition holds.
type WinCheck func(Snapshot) bool

// Alignment is a faction: its hostility, what members know about each
// other, the abilities the faction shares, and its win condition.
type Alignment struct {
	Name        string
	Description string
	// Hostile marks factions whose survival blocks the town's win.
	Hostile bool
	// Informed seeds mutual knowledge and a faction chat between
	// members at game creation.
	Informed bool
	Shared   []ability.Descriptor
	WinCheck WinCheck
}

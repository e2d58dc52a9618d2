package ability

import (
	"github.com/louisbranch/smalltown/internal/services/game/domain/knowledge"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
)

// View exposes the read-only game facts available at queue time.
type View interface {
	// Phase returns the current phase.
	Phase() phase.Phase
	// Living returns the names of living players in join order.
	Living() []string
	// PlayerExists reports whether the named player is in the game.
	PlayerExists(name string) bool
	// PlayerAlive reports whether the named player is alive.
	PlayerAlive(name string) bool
	// PlayerHasTag reports whether the player carries the tag, either from
	// their role or from an attached modifier.
	PlayerHasTag(name, tag string) bool
	// UsesLeft returns the remaining uses for the holder's ability instance.
	// The bool is false when the ability is unlimited.
	UsesLeft(user, abilityID string) (int, bool)
	// LastUsedDay returns the day the holder last consumed the ability,
	// or zero when it has never been used.
	LastUsedDay(user, abilityID string) int
}

// KillResult reports what a kill attempt did.
type KillResult string

const (
	// KillResultDied indicates the target died.
	KillResultDied KillResult = "died"
	// KillResultProtected indicates protection stopped the kill.
	KillResultProtected KillResult = "protected"
	// KillResultGuarded indicates a guard died in the target's place.
	KillResultGuarded KillResult = "guarded"
	// KillResultAbsent indicates the target was already dead or missing.
	KillResultAbsent KillResult = "absent"
)

// Env exposes the effect surface abilities use while resolving. All
// mutations land on the resolution pass's working state; the durable
// record is the event stream the pass emits.
type Env interface {
	View

	// PlayerAlignment returns the player's alignment name.
	PlayerAlignment(name string) string
	// PlayerRole returns the player's role name.
	PlayerRole(name string) string
	// PlayerHostile reports whether the player's alignment is hostile.
	PlayerHostile(name string) bool

	// Kill attempts to kill the target, honoring protection, guards, and
	// innate immunity at the moment of the call.
	Kill(target, cause string) KillResult
	// Protect shields the target from kills for the rest of the pass.
	// Players that refuse protection are left untouched.
	Protect(target string)
	// Guard assigns the guardian to die in the target's place once.
	Guard(target, guardian string)
	// Block voids the target's not-yet-resolved invocations this pass.
	Block(target string)
	// Learn records a fact in the observer's knowledge.
	Learn(observer, subject string, fact knowledge.Fact)

	// VisitsBy lists players the user visited this pass, in visit order.
	VisitsBy(user string) []string
	// VisitorsOf lists players who visited the target this pass, in
	// visit order.
	VisitorsOf(target string) []string
}

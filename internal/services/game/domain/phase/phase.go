// Package phase models the day/night cycle of a game.
//
// A game alternates DAY(n) and NIGHT(n); advancing from NIGHT(n) starts
// DAY(n+1). Phases only move forward through Next; moderator overrides go
// through the game decider, which validates against terminal states.
package phase

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
)

// Kind identifies the half of the day/night cycle a phase belongs to.
type Kind string

const (
	// KindUnspecified represents an invalid phase kind.
	KindUnspecified Kind = ""
	// KindDay is the discussion/vote half of the cycle.
	KindDay Kind = "DAY"
	// KindNight is the action half of the cycle.
	KindNight Kind = "NIGHT"
	// KindAny marks ability eligibility in either phase. It is never a
	// game phase itself.
	KindAny Kind = "ANY"
)

// ErrInvalidStart indicates a game cannot begin in the requested phase.
var ErrInvalidStart = apperrors.New(apperrors.CodeGameInvalidStartPhase, "games must start in a day or night phase")

// Phase is a position in the day/night cycle.
type Phase struct {
	Kind Kind `json:"kind"`
	Day  int  `json:"day"`
}

// Start returns the initial phase for a game. Zero values default to DAY(1).
func Start(kind Kind, day int) (Phase, error) {
	if kind == KindUnspecified && day == 0 {
		return Phase{Kind: KindDay, Day: 1}, nil
	}
	if kind == KindUnspecified {
		kind = KindDay
	}
	if day == 0 {
		day = 1
	}
	if (kind != KindDay && kind != KindNight) || day < 1 {
		return Phase{}, apperrors.WithMetadata(
			apperrors.CodeGameInvalidStartPhase,
			fmt.Sprintf("games cannot start in phase %s(%d)", kind, day),
			map[string]string{"Phase": fmt.Sprintf("%s(%d)", kind, day)},
		)
	}
	return Phase{Kind: kind, Day: day}, nil
}

// Next returns the phase that follows p in the cycle.
func (p Phase) Next() Phase {
	switch p.Kind {
	case KindDay:
		return Phase{Kind: KindNight, Day: p.Day}
	case KindNight:
		return Phase{Kind: KindDay, Day: p.Day + 1}
	default:
		return p
	}
}

// IsZero reports whether the phase is unset.
func (p Phase) IsZero() bool {
	return p.Kind == KindUnspecified && p.Day == 0
}

// String renders the phase as KIND(day), e.g. NIGHT(2).
func (p Phase) String() string {
	return fmt.Sprintf("%s(%d)", p.Kind, p.Day)
}

// Allows reports whether an ability restricted to required may be used
// during this phase.
func (p Phase) Allows(required Kind) bool {
	if required == KindAny || required == KindUnspecified {
		return true
	}
	return p.Kind == required
}

// KindFromLabel parses a phase kind label. It trims whitespace and matches
// case-insensitively.
func KindFromLabel(value string) (Kind, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return KindUnspecified, fmt.Errorf("phase kind is required")
	}
	switch strings.ToUpper(trimmed) {
	case "DAY":
		return KindDay, nil
	case "NIGHT":
		return KindNight, nil
	case "ANY":
		return KindAny, nil
	default:
		return KindUnspecified, fmt.Errorf("unknown phase kind: %s", trimmed)
	}
}

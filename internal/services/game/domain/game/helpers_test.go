package game

import (
	"encoding/json"
	"testing"
	"time"

	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
	"github.com/louisbranch/smalltown/internal/services/game/domain/ability"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/knowledge"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
	"github.com/louisbranch/smalltown/internal/services/game/domain/role"
)

func testClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

// testSet builds a small catalog covering every ability kind: a
// protective action with a queue check, a limited-use kill, an
// investigation, an immediate day reveal, and a shared faction kill.
func testSet(t *testing.T) *role.Set {
	t.Helper()
	set := role.NewSet()

	protect := ability.Descriptor{
		ID:          "doctor.protect",
		Name:        "Protect",
		Kind:        ability.KindAction,
		Phase:       phase.KindNight,
		TargetCount: 1,
		Priority:    20,
		Category:    ability.CategoryProtective,
		QueueCheck: func(_ ability.View, inv ability.Invocation) error {
			if inv.Targets[0] == inv.User {
				return apperrors.New(apperrors.CodeInvalidTarget, "you cannot protect yourself")
			}
			return nil
		},
		Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
			env.Protect(inv.Targets[0])
			return ability.Resolved()
		},
	}
	shoot := ability.Descriptor{
		ID:          "vigilante.shoot",
		Name:        "Shoot",
		Kind:        ability.KindAction,
		Phase:       phase.KindNight,
		TargetCount: 1,
		Priority:    40,
		Category:    ability.CategoryOffensive,
		InitialUses: ability.Uses(2),
		Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
			if env.Kill(inv.Targets[0], "shot") == ability.KillResultDied {
				return ability.Resolved()
			}
			return ability.Blocked("the target was protected")
		},
	}
	peek := ability.Descriptor{
		ID:          "cop.peek",
		Name:        "Peek",
		Kind:        ability.KindAction,
		Phase:       phase.KindNight,
		TargetCount: 1,
		Priority:    30,
		Category:    ability.CategoryInformational,
		Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
			env.Learn(inv.User, inv.Targets[0], knowledge.Fact{Alignment: env.PlayerAlignment(inv.Targets[0])})
			return ability.Resolved()
		},
	}
	reveal := ability.Descriptor{
		ID:          "child.reveal",
		Name:        "Reveal",
		Kind:        ability.KindAction,
		Phase:       phase.KindDay,
		Immediate:   true,
		Priority:    90,
		Category:    ability.CategoryCleanup,
		InitialUses: ability.Uses(1),
		Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
			for _, name := range env.Living() {
				if name == inv.User {
					continue
				}
				env.Learn(name, inv.User, knowledge.Fact{RoleName: env.PlayerRole(inv.User)})
			}
			return ability.Resolved()
		},
	}
	factionKill := ability.Descriptor{
		ID:          "mafia.kill",
		Name:        "Factional Kill",
		Kind:        ability.KindShared,
		Alignment:   "mafia",
		Phase:       phase.KindNight,
		TargetCount: 1,
		Priority:    40,
		Category:    ability.CategoryOffensive,
		Apply: func(env ability.Env, inv ability.Invocation) ability.Outcome {
			if env.Kill(inv.Targets[0], "killed by the mafia") == ability.KillResultDied {
				return ability.Resolved()
			}
			return ability.Blocked("the target was protected")
		},
	}

	for _, r := range []role.Role{
		{Name: "Villager"},
		{Name: "Doctor", Abilities: []ability.Descriptor{protect}},
		{Name: "Vigilante", Abilities: []ability.Descriptor{shoot}},
		{Name: "Cop", Abilities: []ability.Descriptor{peek}},
		{Name: "Child", Abilities: []ability.Descriptor{reveal}},
		{Name: "Mason", KnowsRolemates: true},
	} {
		if err := set.RegisterRole(r); err != nil {
			t.Fatalf("register role %s: %v", r.Name, err)
		}
	}

	town := role.Alignment{
		Name: "town",
		WinCheck: func(s role.Snapshot) bool {
			for _, m := range s.Living() {
				if m.Hostile {
					return false
				}
			}
			return true
		},
	}
	mafia := role.Alignment{
		Name:     "mafia",
		Hostile:  true,
		Informed: true,
		Shared:   []ability.Descriptor{factionKill},
		WinCheck: func(s role.Snapshot) bool {
			hostile, other := 0, 0
			for _, m := range s.Living() {
				if m.Hostile {
					hostile++
				} else {
					other++
				}
			}
			return hostile > 0 && hostile >= other
		},
	}
	for _, a := range []role.Alignment{town, mafia} {
		if err := set.RegisterAlignment(a); err != nil {
			t.Fatalf("register alignment %s: %v", a.Name, err)
		}
	}

	oneShot := role.Modifier{
		Name: "1-Shot",
		Transform: func(d ability.Descriptor) ability.Descriptor {
			d.InitialUses = ability.Uses(1)
			return d
		},
	}
	if err := set.RegisterModifier(oneShot); err != nil {
		t.Fatalf("register modifier: %v", err)
	}
	return set
}

// defaultSeats is the standard four-player table tests start from.
func defaultSeats() []PlayerSetup {
	return []PlayerSetup{
		{Name: "alice", Role: "Doctor", Alignment: "town"},
		{Name: "bob", Role: "Vigilante", Alignment: "town"},
		{Name: "carol", Role: "Villager", Alignment: "mafia"},
		{Name: "dave", Role: "Cop", Alignment: "town"},
	}
}

// newGame decides a create command and folds its event, returning the
// resulting state. The game starts on NIGHT(1).
func newGame(t *testing.T, set *role.Set, seats ...PlayerSetup) State {
	t.Helper()
	if len(seats) == 0 {
		seats = defaultSeats()
	}
	payloadJSON, err := json.Marshal(CreatePayload{
		Name:       "smalltown",
		Players:    seats,
		StartPhase: &PhaseSetup{Kind: "night", Day: 1},
	})
	if err != nil {
		t.Fatalf("marshal create payload: %v", err)
	}
	cmd := command.Command{
		GameID:      "game-1",
		Type:        CommandTypeCreate,
		ActorType:   command.ActorTypeModerator,
		PayloadJSON: payloadJSON,
	}
	decision := Decider{Set: set}.Decide(State{}, cmd, testClock)
	if len(decision.Rejections) != 0 {
		t.Fatalf("create rejected: %+v", decision.Rejections)
	}
	state := State{}
	for _, evt := range decision.Events {
		state = Fold(state, evt)
	}
	return state
}

// decide runs one command against state with the test clock.
func decide(set *role.Set, state State, cmd command.Command) command.Decision {
	return Decider{Set: set}.Decide(state, cmd, testClock)
}

// fold applies every event of a decision to state.
func fold(state State, decision command.Decision) State {
	for _, evt := range decision.Events {
		state = Fold(state, evt)
	}
	return state
}

// createdPayload extracts the game.created payload from a decision that
// must carry exactly one accepted event.
func createdPayload(t *testing.T, decision command.Decision) CreatedPayload {
	t.Helper()
	if len(decision.Rejections) != 0 {
		t.Fatalf("create rejected: %+v", decision.Rejections)
	}
	if len(decision.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(decision.Events))
	}
	var payload CreatedPayload
	if err := json.Unmarshal(decision.Events[0].PayloadJSON, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return payload
}

// rejectionCode extracts the single rejection's code, failing the test
// when the decision is not exactly one rejection.
func rejectionCode(t *testing.T, decision command.Decision) string {
	t.Helper()
	if len(decision.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(decision.Events))
	}
	if len(decision.Rejections) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(decision.Rejections))
	}
	return decision.Rejections[0].Code
}

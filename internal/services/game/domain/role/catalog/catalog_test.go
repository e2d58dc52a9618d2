package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/domain/ability"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
	"github.com/louisbranch/smalltown/internal/services/game/domain/resolve"
)

func testClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newDecider() resolve.Decider {
	return resolve.NewDecider(Standard())
}

func createGame(t *testing.T, d resolve.Decider, start *game.PhaseSetup, seats ...game.PlayerSetup) game.State {
	t.Helper()
	payloadJSON, err := json.Marshal(game.CreatePayload{
		Name:       "smalltown",
		Players:    seats,
		StartPhase: start,
	})
	if err != nil {
		t.Fatalf("marshal create payload: %v", err)
	}
	decision := d.Decide(game.State{}, command.Command{
		GameID:      "game-1",
		Type:        game.CommandTypeCreate,
		ActorType:   command.ActorTypeModerator,
		PayloadJSON: payloadJSON,
	}, testClock)
	if len(decision.Rejections) != 0 {
		t.Fatalf("create rejected: %+v", decision.Rejections)
	}
	return foldAll(game.State{}, decision)
}

func foldAll(state game.State, decision command.Decision) game.State {
	for _, evt := range decision.Events {
		state = game.Fold(state, evt)
	}
	return state
}

func apply(t *testing.T, d resolve.Decider, state game.State, cmd command.Command) game.State {
	t.Helper()
	decision := d.Decide(state, cmd, testClock)
	if len(decision.Rejections) != 0 {
		t.Fatalf("%s rejected: %+v", cmd.Type, decision.Rejections)
	}
	return foldAll(state, decision)
}

func playerCmd(actor string, cmdType command.Type, payload string) command.Command {
	return command.Command{
		GameID:      "game-1",
		Type:        cmdType,
		ActorType:   command.ActorTypePlayer,
		ActorID:     actor,
		PayloadJSON: []byte(payload),
	}
}

func resolveCmd() command.Command {
	return command.Command{GameID: "game-1", Type: game.CommandTypeResolve, ActorType: command.ActorTypeModerator}
}

// advanceTwice moves night N to night N+1 through the intervening day.
func advanceTwice(t *testing.T, d resolve.Decider, state game.State) game.State {
	t.Helper()
	advance := command.Command{GameID: "game-1", Type: game.CommandTypeAdvancePhase, ActorType: command.ActorTypeModerator}
	state = apply(t, d, state, advance)
	return apply(t, d, state, advance)
}

func assertEventTypes(t *testing.T, events []event.Event, want ...event.Type) {
	t.Helper()
	got := make([]event.Type, 0, len(events))
	for _, evt := range events {
		got = append(got, evt.Type)
	}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func expectRejection(t *testing.T, decision command.Decision, code string) {
	t.Helper()
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != code {
		t.Fatalf("decision = %+v, want %s", decision, code)
	}
}

func night1() *game.PhaseSetup {
	return &game.PhaseSetup{Kind: "night", Day: 1}
}

func seat(name, roleName, alignment string, modifiers ...string) game.PlayerSetup {
	return game.PlayerSetup{Name: name, Role: roleName, Alignment: alignment, Modifiers: modifiers}
}

func TestStandard_Roster(t *testing.T) {
	set := Standard()

	roles := []string{
		"Vanilla", "Cop", "Doctor", "Roleblocker", "Vigilante", "Tracker",
		"Watcher", "Bodyguard", "Bulletproof", "Jailkeeper", "Mason",
		"Neapolitan", "Innocent Child", "Serial Killer",
	}
	for _, name := range roles {
		if _, ok := set.Role(name); !ok {
			t.Errorf("role %q missing", name)
		}
	}
	for _, name := range []string{"town", "mafia", "serialkiller"} {
		if _, ok := set.Alignment(name); !ok {
			t.Errorf("alignment %q missing", name)
		}
	}
	modifiers := []string{
		"1-Shot", "2-Shot", "3-Shot", "Non-Consecutive", "Night-1", "Night-2",
		"Personal", "Weak", "Macho", "Loyal", "Disloyal",
	}
	for _, name := range modifiers {
		if _, ok := set.Modifier(name); !ok {
			t.Errorf("modifier %q missing", name)
		}
	}
}

func TestStandard_PriorityBands(t *testing.T) {
	set := Standard()
	tests := []struct {
		id       string
		phase    phase.Kind
		targets  int
		priority int
		category ability.Category
	}{
		{"roleblocker.block", phase.KindNight, 1, PriorityRoleblock, ability.CategoryProtective},
		{"jailkeeper.jail", phase.KindNight, 1, PriorityRoleblock, ability.CategoryProtective},
		{"doctor.protect", phase.KindNight, 1, PriorityProtect, ability.CategoryProtective},
		{"bodyguard.guard", phase.KindNight, 1, PriorityProtect, ability.CategoryProtective},
		{"cop.investigate", phase.KindNight, 1, PriorityInvestigate, ability.CategoryInformational},
		{"neapolitan.see", phase.KindNight, 1, PriorityInvestigate, ability.CategoryInformational},
		{"vigilante.shoot", phase.KindNight, 1, PriorityKill, ability.CategoryOffensive},
		{"serialkiller.stab", phase.KindNight, 1, PriorityKill, ability.CategoryOffensive},
		{"mafia.kill", phase.KindNight, 1, PriorityKill, ability.CategoryOffensive},
		{"tracker.track", phase.KindNight, 1, PriorityCleanup, ability.CategoryInformational},
		{"watcher.watch", phase.KindNight, 1, PriorityCleanup, ability.CategoryInformational},
		{"child.reveal", phase.KindDay, 0, PriorityCleanup, ability.CategoryCleanup},
	}
	for _, tc := range tests {
		desc, ok := set.Abilities().Get(tc.id)
		if !ok {
			t.Errorf("ability %q missing", tc.id)
			continue
		}
		if desc.Phase != tc.phase || desc.TargetCount != tc.targets ||
			desc.Priority != tc.priority || desc.Category != tc.category {
			t.Errorf("%s = %s/%d targets/priority %d/%s, want %s/%d/%d/%s",
				tc.id, desc.Phase, desc.TargetCount, desc.Priority, desc.Category,
				tc.phase, tc.targets, tc.priority, tc.category)
		}
	}
}

func TestCopLearnsAlignment(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Cop", "town"),
		seat("bob", "Vanilla", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"cop.investigate","targets":["carol"]}`))

	decision := d.Decide(state, resolveCmd(), testClock)
	assertEventTypes(t, decision.Events, event.TypeAbilityResolved, event.TypeKnowledgeLearned)
	state = foldAll(state, decision)

	fact, ok := state.Knowledge.Knows("alice", "carol")
	if !ok || fact.Alignment != "mafia" {
		t.Fatalf("alice learned %+v, want carol's alignment", fact)
	}
}

func TestDoctorStopsMafiaKill(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Doctor", "town"),
		seat("bob", "Vanilla", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"doctor.protect","targets":["bob"]}`))
	state = apply(t, d, state, playerCmd("carol", game.CommandTypeQueue, `{"ability_id":"mafia.kill","targets":["bob"]}`))

	decision := d.Decide(state, resolveCmd(), testClock)
	assertEventTypes(t, decision.Events,
		event.TypeAbilityResolved,
		event.TypePlayerProtected,
		event.TypeAbilityBlocked,
	)
	state = foldAll(state, decision)
	if !state.Players["bob"].Alive() {
		t.Fatalf("bob died through the doctor's protection")
	}
}

func TestRoleblockerStripsClaimedKill(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Roleblocker", "town"),
		seat("bob", "Vanilla", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"roleblocker.block","targets":["carol"]}`))
	state = apply(t, d, state, playerCmd("carol", game.CommandTypeQueue, `{"ability_id":"mafia.kill","targets":["dave"]}`))

	decision := d.Decide(state, resolveCmd(), testClock)
	assertEventTypes(t, decision.Events,
		event.TypeAbilityResolved,
		event.TypePlayerBlocked,
		event.TypeAbilityFizzled,
	)
	state = foldAll(state, decision)
	if !state.Players["dave"].Alive() {
		t.Fatalf("dave died despite the roleblock")
	}
}

func TestJailkeeperBlocksAndProtects(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Jailkeeper", "town"),
		seat("bob", "Vigilante", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"jailkeeper.jail","targets":["carol"]}`))
	state = apply(t, d, state, playerCmd("bob", game.CommandTypeQueue, `{"ability_id":"vigilante.shoot","targets":["carol"]}`))
	state = apply(t, d, state, playerCmd("carol", game.CommandTypeQueue, `{"ability_id":"mafia.kill","targets":["dave"]}`))

	decision := d.Decide(state, resolveCmd(), testClock)
	assertEventTypes(t, decision.Events,
		event.TypeAbilityResolved,
		event.TypePlayerBlocked,
		event.TypePlayerProtected,
		event.TypeAbilityBlocked,
		event.TypeAbilityFizzled,
	)
	state = foldAll(state, decision)
	if !state.Players["carol"].Alive() {
		t.Fatalf("the jailed player died in jail")
	}
	if !state.Players["dave"].Alive() {
		t.Fatalf("the jailed player's kill still landed")
	}
}

func TestBodyguardDiesInPlace(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Bodyguard", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
		seat("eve", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"bodyguard.guard","targets":["dave"]}`))
	state = apply(t, d, state, playerCmd("carol", game.CommandTypeQueue, `{"ability_id":"mafia.kill","targets":["dave"]}`))

	decision := d.Decide(state, resolveCmd(), testClock)
	assertEventTypes(t, decision.Events,
		event.TypeAbilityResolved,
		event.TypeAbilityResolved,
		event.TypePlayerDied,
	)
	var died game.DiedPayload
	if err := json.Unmarshal(decision.Events[2].PayloadJSON, &died); err != nil {
		t.Fatalf("unmarshal died: %v", err)
	}
	if died.Player != "alice" || died.Cause != "died protecting dave" {
		t.Fatalf("died = %+v, want the bodyguard in dave's place", died)
	}
	state = foldAll(state, decision)
	if !state.Players["dave"].Alive() {
		t.Fatalf("dave died despite the bodyguard")
	}
}

func TestBulletproofSurvivesShot(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Bulletproof", "town"),
		seat("bob", "Vigilante", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("bob", game.CommandTypeQueue, `{"ability_id":"vigilante.shoot","targets":["alice"]}`))

	decision := d.Decide(state, resolveCmd(), testClock)
	assertEventTypes(t, decision.Events, event.TypeAbilityBlocked)
	state = foldAll(state, decision)
	if !state.Players["alice"].Alive() {
		t.Fatalf("the bulletproof player died to a shot")
	}
}

func TestTrackerSeesVisit(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Tracker", "town"),
		seat("bob", "Doctor", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("bob", game.CommandTypeQueue, `{"ability_id":"doctor.protect","targets":["dave"]}`))
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"tracker.track","targets":["bob"]}`))

	state = apply(t, d, state, resolveCmd())
	fact, ok := state.Knowledge.Knows("alice", "bob")
	if !ok || fact.Flavor != "visited dave" {
		t.Fatalf("alice learned %+v, want bob's visit", fact)
	}
}

func TestWatcherIgnoresOwnVisit(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Watcher", "town"),
		seat("bob", "Doctor", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("bob", game.CommandTypeQueue, `{"ability_id":"doctor.protect","targets":["carol"]}`))
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"watcher.watch","targets":["carol"]}`))

	state = apply(t, d, state, resolveCmd())
	fact, ok := state.Knowledge.Knows("alice", "carol")
	if !ok || fact.Flavor != "visited by bob" {
		t.Fatalf("alice learned %+v, want bob alone", fact)
	}
}

func TestNeapolitanReadsVanillaTown(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Neapolitan", "town"),
		seat("bob", "Vanilla", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Cop", "town"),
	)

	// Night 1: a vanilla townie reads as vanilla town.
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"neapolitan.see","targets":["bob"]}`))
	state = apply(t, d, state, resolveCmd())
	if fact, _ := state.Knowledge.Knows("alice", "bob"); fact.Flavor != "vanilla town" {
		t.Fatalf("bob read as %+v, want vanilla town", fact)
	}

	// Night 2: a mafia vanilla does not.
	state = advanceTwice(t, d, state)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"neapolitan.see","targets":["carol"]}`))
	state = apply(t, d, state, resolveCmd())
	if fact, _ := state.Knowledge.Knows("alice", "carol"); fact.Flavor != "not vanilla town" {
		t.Fatalf("carol read as %+v, want not vanilla town", fact)
	}

	// Night 3: neither does a townie with a role.
	state = advanceTwice(t, d, state)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"neapolitan.see","targets":["dave"]}`))
	state = apply(t, d, state, resolveCmd())
	if fact, _ := state.Knowledge.Knows("alice", "dave"); fact.Flavor != "not vanilla town" {
		t.Fatalf("dave read as %+v, want not vanilla town", fact)
	}
}

func TestInnocentChildRevealsImmediately(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, &game.PhaseSetup{Kind: "day", Day: 1},
		seat("alice", "Innocent Child", "town"),
		seat("bob", "Vanilla", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)

	decision := d.Decide(state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"child.reveal"}`), testClock)
	assertEventTypes(t, decision.Events,
		event.TypeAbilityResolved,
		event.TypeKnowledgeLearned,
		event.TypeKnowledgeLearned,
		event.TypeKnowledgeLearned,
	)
	state = foldAll(state, decision)

	fact, ok := state.Knowledge.Knows("carol", "alice")
	if !ok || fact.RoleName != "Innocent Child" || fact.Alignment != "town" {
		t.Fatalf("carol learned %+v, want the revealed role", fact)
	}

	again := d.Decide(state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"child.reveal"}`), testClock)
	expectRejection(t, again, "INELIGIBLE_NOW")
}

func TestSerialKillerWinsAlone(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Serial Killer", "serialkiller"),
		seat("bob", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"serialkiller.stab","targets":["bob"]}`))

	decision := d.Decide(state, resolveCmd(), testClock)
	assertEventTypes(t, decision.Events,
		event.TypeAbilityResolved,
		event.TypePlayerDied,
		event.TypeGameResolved,
	)
	var resolved game.ResolvedPayload
	if err := json.Unmarshal(decision.Events[2].PayloadJSON, &resolved); err != nil {
		t.Fatalf("unmarshal resolved: %v", err)
	}
	if resolved.WinningAlignment != "serialkiller" {
		t.Fatalf("winner = %s, want serialkiller", resolved.WinningAlignment)
	}
}

func TestMafiaWinsAtParity(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Vanilla", "mafia"),
		seat("bob", "Vanilla", "mafia"),
		seat("carol", "Vanilla", "town"),
		seat("dave", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"mafia.kill","targets":["dave"]}`))

	decision := d.Decide(state, resolveCmd(), testClock)
	assertEventTypes(t, decision.Events,
		event.TypeAbilityResolved,
		event.TypePlayerDied,
		event.TypeGameResolved,
	)
	var resolved game.ResolvedPayload
	if err := json.Unmarshal(decision.Events[2].PayloadJSON, &resolved); err != nil {
		t.Fatalf("unmarshal resolved: %v", err)
	}
	if resolved.WinningAlignment != "mafia" {
		t.Fatalf("winner = %s, want mafia", resolved.WinningAlignment)
	}
}

func TestXShotExhausts(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Vanilla", "town"),
		seat("bob", "Vigilante", "town", "1-Shot"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
		seat("eve", "Vanilla", "mafia"),
	)
	state = apply(t, d, state, playerCmd("bob", game.CommandTypeQueue, `{"ability_id":"vigilante.shoot","targets":["carol"]}`))
	state = apply(t, d, state, resolveCmd())

	if state.Players["carol"].Alive() {
		t.Fatalf("carol survived the shot")
	}
	inst, _ := state.Players["bob"].Ability("vigilante.shoot")
	if inst.UsesLeft == nil || *inst.UsesLeft != 0 {
		t.Fatalf("uses left = %+v, want the single shot spent", inst.UsesLeft)
	}

	state = advanceTwice(t, d, state)
	decision := d.Decide(state, playerCmd("bob", game.CommandTypeQueue, `{"ability_id":"vigilante.shoot","targets":["eve"]}`), testClock)
	expectRejection(t, decision, "INELIGIBLE_NOW")
}

func TestNonConsecutiveForcesRest(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Doctor", "town", "Non-Consecutive"),
		seat("bob", "Vanilla", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"doctor.protect","targets":["bob"]}`))
	state = apply(t, d, state, resolveCmd())

	state = advanceTwice(t, d, state)
	decision := d.Decide(state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"doctor.protect","targets":["bob"]}`), testClock)
	expectRejection(t, decision, "INELIGIBLE_NOW")

	state = advanceTwice(t, d, state)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"doctor.protect","targets":["bob"]}`))
	if len(state.Queue) != 1 {
		t.Fatalf("queue = %d entries, want the rested protect accepted", len(state.Queue))
	}
}

func TestNightSpecificWaits(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Cop", "town", "Night-2"),
		seat("bob", "Vanilla", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)

	decision := d.Decide(state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"cop.investigate","targets":["carol"]}`), testClock)
	expectRejection(t, decision, "INELIGIBLE_NOW")

	state = advanceTwice(t, d, state)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"cop.investigate","targets":["carol"]}`))
	if len(state.Queue) != 1 {
		t.Fatalf("queue = %d entries, want the night-2 peek accepted", len(state.Queue))
	}
}

func TestPersonalTargetsSelfOnly(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Doctor", "town", "Personal"),
		seat("bob", "Vanilla", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)

	decision := d.Decide(state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"doctor.protect","targets":["bob"]}`), testClock)
	expectRejection(t, decision, "INVALID_TARGET")

	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"doctor.protect","targets":["alice"]}`))
	if len(state.Queue) != 1 {
		t.Fatalf("queue = %d entries, want the self-protect accepted", len(state.Queue))
	}
}

func TestWeakCopDiesVisitingHostile(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Cop", "town", "Weak"),
		seat("bob", "Vanilla", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"cop.investigate","targets":["carol"]}`))

	decision := d.Decide(state, resolveCmd(), testClock)
	assertEventTypes(t, decision.Events,
		event.TypeAbilityResolved,
		event.TypeKnowledgeLearned,
		event.TypePlayerDied,
	)
	var died game.DiedPayload
	if err := json.Unmarshal(decision.Events[2].PayloadJSON, &died); err != nil {
		t.Fatalf("unmarshal died: %v", err)
	}
	if died.Player != "alice" || died.Cause != "visited a hostile player" {
		t.Fatalf("died = %+v, want the weak cop", died)
	}

	state = foldAll(state, decision)
	if fact, _ := state.Knowledge.Knows("alice", "carol"); fact.Alignment != "mafia" {
		t.Fatalf("alice learned %+v before dying, want the result carried", fact)
	}
}

func TestMachoRefusesProtection(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Doctor", "town"),
		seat("bob", "Vanilla", "town", "Macho"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"doctor.protect","targets":["bob"]}`))
	state = apply(t, d, state, playerCmd("carol", game.CommandTypeQueue, `{"ability_id":"mafia.kill","targets":["bob"]}`))

	decision := d.Decide(state, resolveCmd(), testClock)
	assertEventTypes(t, decision.Events,
		event.TypeAbilityResolved,
		event.TypeAbilityResolved,
		event.TypePlayerDied,
	)
	state = foldAll(state, decision)
	if state.Players["bob"].Alive() {
		t.Fatalf("the macho player accepted protection")
	}
}

func TestLoyalFizzlesOnRival(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Doctor", "town", "Loyal"),
		seat("bob", "Vanilla", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"doctor.protect","targets":["carol"]}`))

	decision := d.Decide(state, resolveCmd(), testClock)
	assertEventTypes(t, decision.Events, event.TypeAbilityFizzled)
	var outcome game.OutcomePayload
	if err := json.Unmarshal(decision.Events[0].PayloadJSON, &outcome); err != nil {
		t.Fatalf("unmarshal outcome: %v", err)
	}
	if outcome.Reason != "the target is not an ally" {
		t.Fatalf("reason = %q, want the loyal refusal", outcome.Reason)
	}
}

func TestDisloyalFizzlesOnAlly(t *testing.T) {
	d := newDecider()
	state := createGame(t, d, night1(),
		seat("alice", "Doctor", "town", "Disloyal"),
		seat("bob", "Vanilla", "town"),
		seat("carol", "Vanilla", "mafia"),
		seat("dave", "Vanilla", "town"),
	)
	state = apply(t, d, state, playerCmd("alice", game.CommandTypeQueue, `{"ability_id":"doctor.protect","targets":["bob"]}`))

	decision := d.Decide(state, resolveCmd(), testClock)
	assertEventTypes(t, decision.Events, event.TypeAbilityFizzled)
	var outcome game.OutcomePayload
	if err := json.Unmarshal(decision.Events[0].PayloadJSON, &outcome); err != nil {
		t.Fatalf("unmarshal outcome: %v", err)
	}
	if outcome.Reason != "the target is an ally" {
		t.Fatalf("reason = %q, want the disloyal refusal", outcome.Reason)
	}
}

// Package resolve runs phase resolution: it orders the queued
// invocations together with the passives firing this phase, executes
// them in priority order against a working copy of state, applies the
// day vote, and evaluates win conditions.
package resolve

import (
	"encoding/json"
	"sort"
	"time"

	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
	"github.com/louisbranch/smalltown/internal/services/game/domain/ability"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
	"github.com/louisbranch/smalltown/internal/services/game/domain/role"
	"github.com/louisbranch/smalltown/internal/services/game/domain/vote"
)

// Decider evaluates every game command: resolution itself, plus the
// lifecycle commands it delegates to the game decider. The app layer
// holds one of these per catalog.
type Decider struct {
	set  *role.Set
	game game.Decider
}

// NewDecider builds a decider over the catalog.
func NewDecider(set *role.Set) Decider {
	return Decider{set: set, game: game.Decider{Set: set}}
}

// Decide routes game.resolve to the engine and everything else to the
// game decider.
func (d Decider) Decide(state game.State, cmd command.Command, now func() time.Time) command.Decision {
	if cmd.Type != game.CommandTypeResolve {
		return d.game.Decide(state, cmd, now)
	}
	if now == nil {
		now = time.Now
	}
	return d.decideResolve(state, cmd, now().UTC())
}

// entry is one invocation scheduled for the pass.
type entry struct {
	desc ability.Descriptor
	inv  ability.Invocation
	seq  uint64
}

func (d Decider) decideResolve(state game.State, cmd command.Command, now time.Time) command.Decision {
	if !state.Created {
		return reject(apperrors.CodeNotFound, "game does not exist")
	}
	if state.Resolved {
		return reject(apperrors.CodeGameAlreadyResolved, "this game is already resolved")
	}
	if cmd.ActorType == command.ActorTypePlayer {
		return reject(apperrors.CodeNotAuthorized, "only the moderator resolves a phase")
	}

	entries := d.collect(state)
	order := state.CategoryOrder
	if len(order) == 0 {
		order = ability.DefaultCategoryOrder()
	}
	sortEntries(entries, order)

	pass := game.NewPass(d.set, state, cmd, now)
	for _, e := range entries {
		pass.Execute(e.desc, e.inv, false)
	}
	if state.Phase.Kind == phase.KindDay {
		if target, ok := vote.Majority(state.Votes, pass.Living()); ok {
			pass.Eliminate(target, "eliminated")
		}
	}

	events := pass.Events()
	if winners := d.set.EvaluateWins(snapshot(d.set, pass.State())); len(winners) == 1 {
		payloadJSON, _ := json.Marshal(game.ResolvedPayload{WinningAlignment: winners[0]})
		events = append(events, command.NewEvent(cmd, event.TypeGameResolved, "game", cmd.GameID, state.Phase, payloadJSON, now))
	}
	return command.Accept(events...)
}

// collect gathers the queued invocations plus the passives firing this
// phase. Passives hold no queue slot, so on priority and category ties
// they order after every queued entry, by seat.
func (d Decider) collect(state game.State) []entry {
	var entries []entry
	var maxSeq uint64
	for _, queued := range state.Queue {
		desc, ok := d.set.Abilities().Get(queued.AbilityID)
		if !ok || desc.Apply == nil {
			continue
		}
		effective := desc
		if desc.Kind != ability.KindShared {
			if p, ok := state.Players[queued.User]; ok {
				if decorated, err := d.set.EffectiveDescriptor(desc, p.Modifiers); err == nil {
					effective = decorated
				}
			}
		}
		entries = append(entries, entry{
			desc: effective,
			inv: ability.Invocation{
				AbilityID: queued.AbilityID,
				User:      queued.User,
				Targets:   append([]string(nil), queued.Targets...),
				Phase:     queued.Phase,
				Day:       queued.Day,
			},
			seq: queued.Seq,
		})
		if queued.Seq > maxSeq {
			maxSeq = queued.Seq
		}
	}
	for i, name := range state.PlayerOrder {
		p := state.Players[name]
		if !p.Alive() {
			continue
		}
		r, ok := d.set.Role(p.RoleName)
		if !ok {
			continue
		}
		for _, desc := range r.Passives {
			if desc.Apply == nil || !state.Phase.Allows(desc.Phase) {
				continue
			}
			inst, ok := p.Ability(desc.ID)
			if !ok || !inst.Active || inst.Exhausted() {
				continue
			}
			effective, err := d.set.EffectiveDescriptor(desc, p.Modifiers)
			if err != nil {
				effective = desc
			}
			entries = append(entries, entry{
				desc: effective,
				inv: ability.Invocation{
					AbilityID: desc.ID,
					User:      name,
					Phase:     state.Phase.Kind,
					Day:       state.Phase.Day,
				},
				seq: maxSeq + 1 + uint64(i),
			})
		}
	}
	return entries
}

// sortEntries orders the pass: priority ascending, then the category
// order, then queue insertion. The order is total, so resolution is
// deterministic for a given snapshot.
func sortEntries(entries []entry, order []ability.Category) {
	rank := make(map[ability.Category]int, len(order))
	for i, c := range order {
		rank[c] = i
	}
	categoryRank := func(c ability.Category) int {
		if r, ok := rank[c]; ok {
			return r
		}
		return len(order)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.desc.Priority != b.desc.Priority {
			return a.desc.Priority < b.desc.Priority
		}
		if ra, rb := categoryRank(a.desc.Category), categoryRank(b.desc.Category); ra != rb {
			return ra < rb
		}
		return a.seq < b.seq
	})
}

// snapshot projects the working state onto the surface win predicates
// are judged against.
func snapshot(set *role.Set, state game.State) role.Snapshot {
	snap := role.Snapshot{Day: state.Phase.Day}
	for _, name := range state.PlayerOrder {
		p := state.Players[name]
		hostile := false
		if a, ok := set.Alignment(p.AlignmentName); ok {
			hostile = a.Hostile
		}
		snap.Members = append(snap.Members, role.Member{
			Name:      name,
			Role:      p.RoleName,
			Alignment: p.AlignmentName,
			Hostile:   hostile,
			Alive:     p.Alive(),
		})
	}
	return snap
}

func reject(code apperrors.Code, message string) command.Decision {
	return command.Reject(command.Rejection{Code: string(code), Message: message})
}

package game

import (
	"encoding/json"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/domain/ability"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/knowledge"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
	"github.com/louisbranch/smalltown/internal/services/game/domain/player"
	"github.com/louisbranch/smalltown/internal/services/game/domain/role"
)

// Pass executes invocations against a working copy of state. It
// implements ability.Env: effect methods mutate the working copy and
// emit matching events, so folding the emitted events over the original
// state reproduces every durable change the pass made.
//
// Protection, guards, and blocks live only inside the pass; they decay
// when it ends.
type Pass struct {
	set    *role.Set
	state  State
	cmd    command.Command
	now    time.Time
	events []event.Event

	// buffer holds effect events while an Apply runs so the entry
	// outcome event always precedes its effects in the journal.
	buffer    []event.Event
	buffering bool

	protected map[string]bool
	guards    map[string][]string
	blocked   map[string]bool
	visits    map[string][]string
	visitors  map[string][]string
}

// NewPass clones state into a working copy bound to the triggering
// command's envelope.
func NewPass(set *role.Set, state State, cmd command.Command, now time.Time) *Pass {
	return &Pass{
		set:       set,
		state:     state.Clone(),
		cmd:       cmd,
		now:       now,
		protected: make(map[string]bool),
		guards:    make(map[string][]string),
		blocked:   make(map[string]bool),
		visits:    make(map[string][]string),
		visitors:  make(map[string][]string),
	}
}

// Events returns the events the pass has emitted, in order.
func (p *Pass) Events() []event.Event {
	return p.events
}

// State returns the working copy with every executed effect applied.
func (p *Pass) State() State {
	return p.state
}

// Execute runs one invocation end to end: resolve-time eligibility,
// visits, the ability's effect, and the outcome entry event.
func (p *Pass) Execute(desc ability.Descriptor, inv ability.Invocation, immediate bool) ability.Outcome {
	payload := OutcomePayload{
		AbilityID: desc.ID,
		User:      inv.User,
		Targets:   inv.Targets,
		Shared:    desc.Kind == ability.KindShared,
		Immediate: immediate,
	}
	conclude := func(out ability.Outcome) ability.Outcome {
		payload.Reason = out.Reason
		eventType := event.TypeAbilityFizzled
		switch out.Status {
		case ability.StatusResolved:
			eventType = event.TypeAbilityResolved
		case ability.StatusBlocked:
			eventType = event.TypeAbilityBlocked
		}
		p.append(eventType, "ability", desc.ID, payload)
		// Mirror Fold's bookkeeping on the working copy so later
		// entries in the same pass read consistent counters.
		p.state.Queue = removeQueueEntry(p.state.Queue, payload.AbilityID, payload.User, payload.Shared)
		if out.Status != ability.StatusFizzled {
			p.state = consumeUse(p.state, payload, p.state.Phase.Day)
		}
		return out
	}

	user, ok := p.state.Players[inv.User]
	if !ok || !user.Alive() {
		return conclude(ability.Fizzled("user is dead"))
	}
	// A roleblocked entry never fires: it fizzles and keeps its use.
	if p.blocked[inv.User] {
		return conclude(ability.Fizzled("roleblocked"))
	}
	for _, target := range inv.Targets {
		tp, exists := p.state.Players[target]
		if !exists || !tp.Alive() {
			return conclude(ability.Fizzled("target is dead"))
		}
	}
	if desc.ResolveCheck != nil {
		if err := desc.ResolveCheck(p, inv); err != nil {
			return conclude(ability.Fizzled(err.Error()))
		}
	}
	for _, target := range inv.Targets {
		p.visits[inv.User] = append(p.visits[inv.User], target)
		p.visitors[target] = append(p.visitors[target], inv.User)
	}

	p.buffering = true
	out := desc.Apply(p, inv)
	p.buffering = false
	conclude(out)
	p.events = append(p.events, p.buffer...)
	p.buffer = nil
	return out
}

func (p *Pass) append(eventType event.Type, entityType, entityID string, payload any) {
	payloadJSON, _ := json.Marshal(payload)
	evt := command.NewEvent(p.cmd, eventType, entityType, entityID, p.state.Phase, payloadJSON, p.now)
	if p.buffering {
		p.buffer = append(p.buffer, evt)
		return
	}
	p.events = append(p.events, evt)
}

// Phase implements ability.View.
func (p *Pass) Phase() phase.Phase {
	return p.state.Phase
}

// Living implements ability.View.
func (p *Pass) Living() []string {
	return p.state.LivingPlayers()
}

// PlayerExists implements ability.View.
func (p *Pass) PlayerExists(name string) bool {
	_, ok := p.state.Players[name]
	return ok
}

// PlayerAlive implements ability.View.
func (p *Pass) PlayerAlive(name string) bool {
	pl, ok := p.state.Players[name]
	return ok && pl.Alive()
}

// PlayerHasTag implements ability.View.
func (p *Pass) PlayerHasTag(name, tag string) bool {
	pl, ok := p.state.Players[name]
	return ok && pl.HasTag(tag)
}

// UsesLeft implements ability.View.
func (p *Pass) UsesLeft(user, abilityID string) (int, bool) {
	inst, ok := p.instance(user, abilityID)
	if !ok || inst.UsesLeft == nil {
		return 0, false
	}
	return *inst.UsesLeft, true
}

// LastUsedDay implements ability.View.
func (p *Pass) LastUsedDay(user, abilityID string) int {
	inst, ok := p.instance(user, abilityID)
	if !ok {
		return 0
	}
	return inst.LastUsedDay
}

// PlayerAlignment implements ability.Env.
func (p *Pass) PlayerAlignment(name string) string {
	return p.state.Players[name].AlignmentName
}

// PlayerRole implements ability.Env.
func (p *Pass) PlayerRole(name string) string {
	return p.state.Players[name].RoleName
}

// PlayerHostile implements ability.Env.
func (p *Pass) PlayerHostile(name string) bool {
	a, ok := p.set.Alignment(p.state.Players[name].AlignmentName)
	return ok && a.Hostile
}

// Kill implements ability.Env. Guards die in the target's place;
// protection and innate immunity stop the kill outright.
func (p *Pass) Kill(target, cause string) ability.KillResult {
	victim, ok := p.state.Players[target]
	if !ok || !victim.Alive() {
		return ability.KillResultAbsent
	}
	if guardians := p.guards[target]; len(guardians) > 0 {
		guardian := guardians[0]
		p.guards[target] = guardians[1:]
		p.die(guardian, "died protecting "+target)
		return ability.KillResultGuarded
	}
	if p.protected[target] || p.PlayerHasTag(target, "bulletproof") {
		return ability.KillResultProtected
	}
	p.die(target, cause)
	return ability.KillResultDied
}

// Eliminate kills outright. Day votes use it: neither protection nor
// guards stand between a player and the town's verdict.
func (p *Pass) Eliminate(target, cause string) {
	p.die(target, cause)
}

func (p *Pass) die(name, cause string) {
	pl, ok := p.state.Players[name]
	if !ok || !pl.Alive() {
		return
	}
	pl.Die(cause)
	p.state.Players[name] = pl
	p.append(event.TypePlayerDied, "player", name, DiedPayload{Player: name, Cause: cause})
}

// Protect implements ability.Env. Players that refuse protection keep
// their exposure; repeated protection is idempotent.
func (p *Pass) Protect(target string) {
	pl, ok := p.state.Players[target]
	if !ok || !pl.Alive() {
		return
	}
	if pl.HasTag("macho") {
		return
	}
	if p.protected[target] {
		return
	}
	p.protected[target] = true
	p.append(event.TypePlayerProtected, "player", target, ProtectedPayload{Player: target})
}

// Guard implements ability.Env. Guards trigger in the order they were
// assigned.
func (p *Pass) Guard(target, guardian string) {
	p.guards[target] = append(p.guards[target], guardian)
}

// Block implements ability.Env. Blocking is idempotent and only voids
// entries that have not yet had their turn.
func (p *Pass) Block(target string) {
	if p.blocked[target] {
		return
	}
	p.blocked[target] = true
	p.append(event.TypePlayerBlocked, "player", target, BlockedPayload{Player: target})
}

// Learn implements ability.Env. Empty facts are dropped.
func (p *Pass) Learn(observer, subject string, fact knowledge.Fact) {
	if fact.IsZero() {
		return
	}
	p.state.Knowledge = p.state.Knowledge.Learn(observer, subject, fact)
	p.append(event.TypeKnowledgeLearned, "player", observer, LearnedPayload{
		Observer: observer,
		Subject:  subject,
		Fact:     fact,
	})
}

// VisitsBy implements ability.Env.
func (p *Pass) VisitsBy(user string) []string {
	return append([]string(nil), p.visits[user]...)
}

// VisitorsOf implements ability.Env.
func (p *Pass) VisitorsOf(target string) []string {
	return append([]string(nil), p.visitors[target]...)
}

func (p *Pass) instance(user, abilityID string) (player.AbilityInstance, bool) {
	desc, ok := p.set.Abilities().Get(abilityID)
	if ok && desc.Kind == ability.KindShared {
		inst, found := p.state.Shared[abilityID]
		return inst, found
	}
	pl, ok := p.state.Players[user]
	if !ok {
		return player.AbilityInstance{}, false
	}
	return pl.Ability(abilityID)
}

// Package game holds the aggregate state for one game, the deciders
// that evaluate commands against it, and the fold that rebuilds it from
// the event journal.
package game

import (
	"github.com/louisbranch/smalltown/internal/services/game/domain/ability"
	"github.com/louisbranch/smalltown/internal/services/game/domain/chat"
	"github.com/louisbranch/smalltown/internal/services/game/domain/knowledge"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
	"github.com/louisbranch/smalltown/internal/services/game/domain/player"
	"github.com/louisbranch/smalltown/internal/services/game/domain/vote"
)

// QueuedAbility is one pending invocation. Seq preserves insertion
// order; re-queueing the same ability updates targets in place and
// keeps the original position.
type QueuedAbility struct {
	AbilityID string     `json:"ability_id"`
	User      string     `json:"user"`
	Targets   []string   `json:"targets,omitempty"`
	Phase     phase.Kind `json:"phase"`
	Day       int        `json:"day"`
	Seq       uint64     `json:"seq"`
	// Shared marks faction abilities, which hold one queue slot per
	// ability instead of one per (ability, user) pair.
	Shared bool `json:"shared,omitempty"`
}

// State is the full aggregate for one game. It is rebuilt by folding
// the event journal and must round-trip through JSON for snapshots.
type State struct {
	Created      bool   `json:"created"`
	Name         string `json:"name,omitempty"`
	ModTokenHash string `json:"mod_token_hash,omitempty"`
	// RequireGrants forces players to present a seat grant before the
	// service accepts their identity. Set at creation.
	RequireGrants    bool        `json:"require_grants,omitempty"`
	Phase            phase.Phase `json:"phase"`
	Resolved         bool        `json:"resolved"`
	WinningAlignment string      `json:"winning_alignment,omitempty"`

	Players     map[string]player.Player `json:"players,omitempty"`
	PlayerOrder []string                 `json:"player_order,omitempty"`

	// Shared holds faction-level ability instances keyed by ability id.
	Shared map[string]player.AbilityInstance `json:"shared,omitempty"`

	Queue        []QueuedAbility `json:"queue,omitempty"`
	NextQueueSeq uint64          `json:"next_queue_seq,omitempty"`

	Chats     map[string]chat.Channel `json:"chats,omitempty"`
	ChatOrder []string                `json:"chat_order,omitempty"`

	Votes     vote.Tally      `json:"votes,omitempty"`
	Knowledge knowledge.Store `json:"knowledge,omitempty"`

	// CategoryOrder breaks priority ties during resolution. Set at
	// creation; empty means the default order.
	CategoryOrder []ability.Category `json:"category_order,omitempty"`
}

// Player returns the named player.
func (s State) Player(name string) (player.Player, bool) {
	p, ok := s.Players[name]
	return p, ok
}

// LivingPlayers returns the names of living players in join order.
func (s State) LivingPlayers() []string {
	out := make([]string, 0, len(s.PlayerOrder))
	for _, name := range s.PlayerOrder {
		if p, ok := s.Players[name]; ok && p.Alive() {
			out = append(out, name)
		}
	}
	return out
}

// QueueEntry finds the pending entry for an invocation. Shared
// abilities match on ability id alone; actions match on the pair.
func (s State) QueueEntry(abilityID, user string, shared bool) (QueuedAbility, bool) {
	for _, entry := range s.Queue {
		if entry.AbilityID != abilityID {
			continue
		}
		if shared || entry.User == user {
			return entry, true
		}
	}
	return QueuedAbility{}, false
}

// Clone returns a deep copy of the state. Resolution passes work on a
// clone so reads during the pass never see half-applied canon.
func (s State) Clone() State {
	out := s
	if s.Players != nil {
		out.Players = make(map[string]player.Player, len(s.Players))
		for name, p := range s.Players {
			out.Players[name] = p.Clone()
		}
	}
	if s.PlayerOrder != nil {
		out.PlayerOrder = append([]string(nil), s.PlayerOrder...)
	}
	if s.Shared != nil {
		out.Shared = make(map[string]player.AbilityInstance, len(s.Shared))
		for id, inst := range s.Shared {
			copied := inst
			if inst.UsesLeft != nil {
				left := *inst.UsesLeft
				copied.UsesLeft = &left
			}
			out.Shared[id] = copied
		}
	}
	if s.Queue != nil {
		out.Queue = make([]QueuedAbility, len(s.Queue))
		for i, entry := range s.Queue {
			copied := entry
			if entry.Targets != nil {
				copied.Targets = append([]string(nil), entry.Targets...)
			}
			out.Queue[i] = copied
		}
	}
	if s.Chats != nil {
		out.Chats = make(map[string]chat.Channel, len(s.Chats))
		for id, ch := range s.Chats {
			out.Chats[id] = ch.Clone()
		}
	}
	if s.ChatOrder != nil {
		out.ChatOrder = append([]string(nil), s.ChatOrder...)
	}
	out.Votes = s.Votes.Clone()
	out.Knowledge = s.Knowledge.Clone()
	if s.CategoryOrder != nil {
		out.CategoryOrder = append([]ability.Category(nil), s.CategoryOrder...)
	}
	return out
}

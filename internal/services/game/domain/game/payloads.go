package game

import (
	"github.com/louisbranch/smalltown/internal/services/game/domain/ability"
	"github.com/louisbranch/smalltown/internal/services/game/domain/chat"
	"github.com/louisbranch/smalltown/internal/services/game/domain/knowledge"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
	"github.com/louisbranch/smalltown/internal/services/game/domain/player"
)

// PlayerSetup assigns one seat in a create command.
type PlayerSetup struct {
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Alignment string   `json:"alignment"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// PhaseSetup selects the starting phase in a create command.
type PhaseSetup struct {
	Kind string `json:"kind"`
	Day  int    `json:"day"`
}

// CreatePayload is the game.create command payload. ShuffleRoles deals
// the listed role assignments randomly across the named players;
// ShuffleSeed pins the deal for reproducible setups and implies
// ShuffleRoles when set on its own.
type CreatePayload struct {
	Name          string        `json:"name"`
	ModTokenHash  string        `json:"mod_token_hash,omitempty"`
	RequireGrants bool          `json:"require_grants,omitempty"`
	Players       []PlayerSetup `json:"players"`
	ShuffleRoles  bool          `json:"shuffle_roles,omitempty"`
	ShuffleSeed   *int64        `json:"shuffle_seed,omitempty"`
	StartPhase    *PhaseSetup   `json:"start_phase,omitempty"`
	CategoryOrder []string      `json:"category_order,omitempty"`
}

// KnowledgeSeed is one fact granted at creation.
type KnowledgeSeed struct {
	Observer string         `json:"observer"`
	Subject  string         `json:"subject"`
	Fact     knowledge.Fact `json:"fact"`
}

// CreatedPayload is the game.created event payload. It carries the
// complete initial state so replay needs no catalog lookups. ShuffleSeed
// records the seed behind a shuffled deal so the assignment stays
// auditable.
type CreatedPayload struct {
	Name          string                            `json:"name"`
	ModTokenHash  string                            `json:"mod_token_hash,omitempty"`
	RequireGrants bool                              `json:"require_grants,omitempty"`
	Phase         phase.Phase                       `json:"phase"`
	CategoryOrder []ability.Category                `json:"category_order,omitempty"`
	ShuffleSeed   *int64                            `json:"shuffle_seed,omitempty"`
	Players       []player.Player                   `json:"players"`
	Shared        map[string]player.AbilityInstance `json:"shared,omitempty"`
	Chats         []chat.Channel                    `json:"chats,omitempty"`
	Knowledge     []KnowledgeSeed                   `json:"knowledge,omitempty"`
}

// QueuePayload is the ability.queue command payload. User is honored
// only for moderator commands; players always queue as themselves.
type QueuePayload struct {
	AbilityID string   `json:"ability_id"`
	Targets   []string `json:"targets,omitempty"`
	User      string   `json:"user,omitempty"`
}

// DequeuePayload is the ability.dequeue command payload.
type DequeuePayload struct {
	AbilityID string `json:"ability_id"`
	User      string `json:"user,omitempty"`
}

// QueuedPayload is the ability.queued event payload.
type QueuedPayload struct {
	AbilityID string   `json:"ability_id"`
	User      string   `json:"user"`
	Targets   []string `json:"targets,omitempty"`
	Shared    bool     `json:"shared,omitempty"`
}

// DequeuedPayload is the ability.dequeued event payload.
type DequeuedPayload struct {
	AbilityID string `json:"ability_id"`
	User      string `json:"user"`
	Shared    bool   `json:"shared,omitempty"`
}

// OutcomePayload is the payload for ability.resolved, ability.blocked,
// and ability.fizzled events.
type OutcomePayload struct {
	AbilityID string   `json:"ability_id"`
	User      string   `json:"user"`
	Targets   []string `json:"targets,omitempty"`
	Shared    bool     `json:"shared,omitempty"`
	Immediate bool     `json:"immediate,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}

// SetPhasePayload is the game.set_phase command payload.
type SetPhasePayload struct {
	Kind string `json:"kind"`
	Day  int    `json:"day"`
}

// PhaseSetPayload is the phase.set event payload.
type PhaseSetPayload struct {
	Phase phase.Phase `json:"phase"`
}

// PhaseAdvancedPayload is the phase.advanced event payload.
type PhaseAdvancedPayload struct {
	From phase.Phase `json:"from"`
	To   phase.Phase `json:"to"`
}

// ResolvedPayload is the game.resolved event payload.
type ResolvedPayload struct {
	WinningAlignment string `json:"winning_alignment"`
}

// DiedPayload is the player.died event payload.
type DiedPayload struct {
	Player string `json:"player"`
	Cause  string `json:"cause"`
}

// ProtectedPayload is the player.protected event payload.
type ProtectedPayload struct {
	Player string `json:"player"`
}

// BlockedPayload is the player.blocked event payload.
type BlockedPayload struct {
	Player string `json:"player"`
}

// LearnedPayload is the knowledge.learned event payload.
type LearnedPayload struct {
	Observer string         `json:"observer"`
	Subject  string         `json:"subject"`
	Fact     knowledge.Fact `json:"fact"`
}

// ChatCreatedPayload is the chat.created event payload.
type ChatCreatedPayload struct {
	Channel chat.Channel `json:"channel"`
}

// PostPayload is the chat.post command payload. Exactly one of ChatID
// and To is set: To addresses a pairwise private channel by recipient,
// created on first message.
type PostPayload struct {
	ChatID string `json:"chat_id,omitempty"`
	To     string `json:"to,omitempty"`
	Body   string `json:"body"`
}

// PostedPayload is the chat.posted event payload. Seq is the message's
// position within its channel, assigned by the decider from the channel's
// running count so read models can replay posts idempotently.
type PostedPayload struct {
	ChatID string `json:"chat_id"`
	Seq    uint64 `json:"seq"`
	Author string `json:"author"`
	Body   string `json:"body"`
}

// VotePayload is the vote.cast command payload.
type VotePayload struct {
	Target string `json:"target"`
	Voter  string `json:"voter,omitempty"`
}

// RetractVotePayload is the vote.retract command payload.
type RetractVotePayload struct {
	Voter string `json:"voter,omitempty"`
}

// VoteCastPayload is the vote.cast event payload.
type VoteCastPayload struct {
	Voter  string `json:"voter"`
	Target string `json:"target"`
}

// VoteRetractedPayload is the vote.retracted event payload.
type VoteRetractedPayload struct {
	Voter string `json:"voter"`
}

package event

import (
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
)

// Type identifies the type of a game event.
type Type string

// Game lifecycle events.
const (
	// TypeGameCreated records the creation of a game and its full setup.
	TypeGameCreated Type = "game.created"
	// TypeGameResolved records a game ending with a winning alignment.
	TypeGameResolved Type = "game.resolved"
)

// Phase events.
const (
	// TypePhaseAdvanced records the clock moving to the next phase.
	TypePhaseAdvanced Type = "phase.advanced"
	// TypePhaseSet records a moderator forcing the clock to a phase.
	TypePhaseSet Type = "phase.set"
)

// Ability queue and resolution events.
const (
	// TypeAbilityQueued records an invocation entering the queue.
	TypeAbilityQueued Type = "ability.queued"
	// TypeAbilityDequeued records an invocation leaving the queue by hand.
	TypeAbilityDequeued Type = "ability.dequeued"
	// TypeAbilityResolved records an invocation taking effect.
	TypeAbilityResolved Type = "ability.resolved"
	// TypeAbilityBlocked records an invocation stopped by another ability.
	TypeAbilityBlocked Type = "ability.blocked"
	// TypeAbilityFizzled records an invocation that never fired.
	TypeAbilityFizzled Type = "ability.fizzled"
)

// Effect events emitted while abilities resolve.
const (
	// TypePlayerDied records a death and its cause.
	TypePlayerDied Type = "player.died"
	// TypePlayerProtected records protection landing on a player.
	TypePlayerProtected Type = "player.protected"
	// TypePlayerBlocked records a player's pending invocations being voided.
	TypePlayerBlocked Type = "player.blocked"
	// TypeKnowledgeLearned records an observer learning a fact.
	TypeKnowledgeLearned Type = "knowledge.learned"
)

// Chat events.
const (
	// TypeChatCreated records a channel opening.
	TypeChatCreated Type = "chat.created"
	// TypeChatPosted records a message landing in a channel.
	TypeChatPosted Type = "chat.posted"
)

// Vote events.
const (
	// TypeVoteCast records a day-phase vote.
	TypeVoteCast Type = "vote.cast"
	// TypeVoteRetracted records a vote being withdrawn.
	TypeVoteRetracted Type = "vote.retracted"
)

// ActorType identifies who triggered an event.
type ActorType string

const (
	// ActorTypeSystem indicates a system-originated event.
	ActorTypeSystem ActorType = "system"
	// ActorTypePlayer indicates a player-originated event.
	ActorTypePlayer ActorType = "player"
	// ActorTypeModerator indicates a moderator-originated event.
	ActorTypeModerator ActorType = "moderator"
)

// Event is the canonical envelope for one immutable game fact.
type Event struct {
	// GameID is the game this event belongs to.
	GameID string
	// Seq is the event sequence number within the game (starts at 1).
	// Assigned by storage on append.
	Seq uint64
	// Hash is the content-addressed identity (SHA-256 truncated to 128-bit).
	// Assigned by storage on append.
	Hash string
	// PrevHash is the previous event's chain hash (empty for the first event).
	// Assigned by storage on append.
	PrevHash string
	// ChainHash links this event to the previous event hash (SHA-256).
	// Assigned by storage on append.
	ChainHash string
	// SignatureKeyID identifies the HMAC key used to sign the chain hash.
	// Assigned by storage on append.
	SignatureKeyID string
	// Signature is the HMAC signature of the chain hash.
	// Assigned by storage on append.
	Signature string
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Type identifies the kind of event.
	Type Type
	// RequestID correlates the event with the request that caused it.
	RequestID string
	// ActorType identifies who triggered the event.
	ActorType ActorType
	// ActorID is the player name when ActorType is player.
	ActorID string
	// EntityType is the type of entity affected (player, chat, etc.).
	EntityType string
	// EntityID is the ID of the entity affected.
	EntityID string
	// Phase is the phase kind the game was in when the event occurred.
	Phase phase.Kind
	// Day is the day number the game was in when the event occurred.
	Day int
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}

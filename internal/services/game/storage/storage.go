package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity"
// states and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// Game status labels used by the games projection.
const (
	// GameStatusActive marks a game still accepting commands.
	GameStatusActive = "active"
	// GameStatusResolved marks a game that ended with a winner.
	GameStatusResolved = "resolved"
)

// GameRecord captures the projection-oriented game metadata that APIs read.
// SnapshotJSON carries the folded domain state so restarts skip full
// journal replay.
type GameRecord struct {
	ID            string
	Name          string
	Status        string
	Phase         phase.Kind
	Day           int
	Winner        string
	ModTokenHash  string
	RequireGrants bool
	PlayerCount   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SnapshotJSON  []byte
}

// GamePage describes a page of game records for offset-based listings.
type GamePage struct {
	Games []GameRecord
	// TotalCount is the total number of games regardless of paging.
	TotalCount int
}

// GameStore owns the game-level projection used by list/detail endpoints
// and restart hydration.
type GameStore interface {
	PutGame(ctx context.Context, g GameRecord) error
	GetGame(ctx context.Context, id string) (GameRecord, error)
	// ListGames returns a page of game records ordered by creation time
	// descending, skipping start records.
	ListGames(ctx context.Context, start, limit int) (GamePage, error)
}

// MessageRecord is one chat message in the read model. Seq orders
// messages within a channel, starting at 1.
type MessageRecord struct {
	GameID    string
	ChannelID string
	Seq       uint64
	Author    string
	At        time.Time
	Content   string
}

// MessagePage describes a page of chat messages.
type MessagePage struct {
	Messages []MessageRecord
	// TotalCount is the total number of messages in the channel.
	TotalCount int
}

// MessageStore owns the chat read model that backs message pagination.
type MessageStore interface {
	AppendMessage(ctx context.Context, m MessageRecord) error
	// ListMessages returns a page of messages for a channel ordered by
	// seq ascending, skipping start records.
	ListMessages(ctx context.Context, gameID, channelID string, start, limit int) (MessagePage, error)
}

// EventStore owns the event stream boundary that drives replay and command
// rehydration; this is the source of truth for state reconstruction.
type EventStore interface {
	// AppendEvent atomically appends an event and returns it with sequence and hash set.
	AppendEvent(ctx context.Context, evt event.Event) (event.Event, error)
	// BatchAppendEvents appends events for a single game in one transaction,
	// in order, and returns them with sequence and hash set.
	BatchAppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error)
	// GetEventByHash retrieves an event by its content hash.
	GetEventByHash(ctx context.Context, hash string) (event.Event, error)
	// GetEventBySeq retrieves a specific event by sequence number.
	GetEventBySeq(ctx context.Context, gameID string, seq uint64) (event.Event, error)
	// ListEvents returns events ordered by sequence ascending.
	ListEvents(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]event.Event, error)
	// GetLatestEventSeq returns the latest event sequence number for a game.
	// Returns 0 if no events exist.
	GetLatestEventSeq(ctx context.Context, gameID string) (uint64, error)
	// ListEventsPage returns a paginated, filtered, and sorted list of events.
	ListEventsPage(ctx context.Context, req ListEventsPageRequest) (ListEventsPageResult, error)
}

// TelemetryEvent captures operational observations emitted during command execution.
type TelemetryEvent struct {
	Timestamp      time.Time
	EventName      string
	Severity       string
	GameID         string
	ActorType      string
	ActorID        string
	RequestID      string
	TraceID        string
	SpanID         string
	Attributes     map[string]any
	AttributesJSON []byte
}

// TelemetryStore persists operational telemetry records for audits and incident analysis.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}

// ListEventsPageRequest describes request filters for the moderator event
// history view.
type ListEventsPageRequest struct {
	// GameID scopes the query to a specific game (required).
	GameID string
	// AfterSeq returns only events with seq greater than this value.
	AfterSeq uint64
	// Start skips this many matching events before the page begins.
	Start int
	// PageSize is the maximum number of events to return (default: 50, max: 200).
	PageSize int
	// Descending orders results by seq desc (newest first) when true.
	Descending bool
	// FilterClause is an optional SQL WHERE clause fragment.
	FilterClause string
	// FilterParams are the positional parameters for the filter clause.
	FilterParams []any
}

// ListEventsPageResult contains paginated event history for introspection tooling.
type ListEventsPageResult struct {
	// Events are the events matching the request.
	Events []event.Event
	// HasNextPage indicates whether more results exist past this page.
	HasNextPage bool
	// TotalCount is the total number of events matching the filter.
	TotalCount int
}

// Store is a composite interface for all persistence concerns used across
// event sourcing, projection application, and queries.
type Store interface {
	GameStore
	MessageStore
	EventStore
	TelemetryStore
	Close() error
}

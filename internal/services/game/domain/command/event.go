package command

import (
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
)

// NewEvent builds an event.Event by copying the shared envelope fields from a
// command. Callers supply the event-specific type, entity addressing, the
// phase the game is in, the payload, and the timestamp. This eliminates
// per-decider boilerplate and ensures that new envelope fields are
// automatically forwarded.
func NewEvent(cmd Command, eventType event.Type, entityType, entityID string, ph phase.Phase, payloadJSON []byte, now time.Time) event.Event {
	return event.Event{
		GameID:      cmd.GameID,
		Type:        eventType,
		Timestamp:   now,
		ActorType:   event.ActorType(cmd.ActorType),
		ActorID:     cmd.ActorID,
		RequestID:   cmd.RequestID,
		EntityType:  entityType,
		EntityID:    entityID,
		Phase:       ph.Kind,
		Day:         ph.Day,
		PayloadJSON: payloadJSON,
	}
}

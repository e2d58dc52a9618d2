package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
	"github.com/louisbranch/smalltown/internal/services/game/storage"
)

// Applier applies journal events and folded state to projection stores.
type Applier struct {
	// Games writes game summary rows and state snapshots.
	Games storage.GameStore
	// Messages writes the chat message read model.
	Messages storage.MessageStore
}

// handlers maps journal event types to their read-model handlers. Types
// absent from the map have no per-event read model; their effect reaches the
// games table through the folded state instead.
var handlers = map[event.Type]func(Applier, context.Context, event.Event) error{
	event.TypeChatPosted: applyChatPosted,
}

// HandledTypes returns the event types with per-event read-model handlers.
func HandledTypes() []event.Type {
	types := make([]event.Type, 0, len(handlers))
	for t := range handlers {
		types = append(types, t)
	}
	return types
}

// Apply routes one journal event to its read-model handler. Events without a
// handler are skipped.
func (a Applier) Apply(ctx context.Context, evt event.Event) error {
	h, ok := handlers[evt.Type]
	if !ok {
		return nil
	}
	return h(a, ctx, evt)
}

// ApplyAll applies a batch of journal events in order.
func (a Applier) ApplyAll(ctx context.Context, events []event.Event) error {
	for _, evt := range events {
		if err := a.Apply(ctx, evt); err != nil {
			return fmt.Errorf("project %s: %w", evt.Type, err)
		}
	}
	return nil
}

// ApplyGame persists the game summary row for the given folded state.
func (a Applier) ApplyGame(ctx context.Context, gameID string, state game.State, createdAt, updatedAt time.Time) error {
	if a.Games == nil {
		return fmt.Errorf("game store is required")
	}
	record, err := GameRecord(gameID, state, createdAt, updatedAt)
	if err != nil {
		return err
	}
	return a.Games.PutGame(ctx, record)
}

// GameRecord maps folded state to its game summary row, including the state
// snapshot used for hydration.
func GameRecord(gameID string, state game.State, createdAt, updatedAt time.Time) (storage.GameRecord, error) {
	snapshot, err := json.Marshal(state)
	if err != nil {
		return storage.GameRecord{}, fmt.Errorf("marshal state snapshot: %w", err)
	}
	status := storage.GameStatusActive
	if state.Resolved {
		status = storage.GameStatusResolved
	}
	return storage.GameRecord{
		ID:            gameID,
		Name:          state.Name,
		Status:        status,
		Phase:         state.Phase.Kind,
		Day:           state.Phase.Day,
		Winner:        state.WinningAlignment,
		ModTokenHash:  state.ModTokenHash,
		RequireGrants: state.RequireGrants,
		PlayerCount:   len(state.PlayerOrder),
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
		SnapshotJSON:  snapshot,
	}, nil
}

// GameState rebuilds folded state from a stored snapshot.
func GameState(record storage.GameRecord) (game.State, error) {
	var state game.State
	if len(record.SnapshotJSON) == 0 {
		return game.State{}, fmt.Errorf("game %s has no snapshot", record.ID)
	}
	if err := json.Unmarshal(record.SnapshotJSON, &state); err != nil {
		return game.State{}, fmt.Errorf("unmarshal state snapshot: %w", err)
	}
	return state, nil
}

func applyChatPosted(a Applier, ctx context.Context, evt event.Event) error {
	if a.Messages == nil {
		return fmt.Errorf("message store is required")
	}
	var payload game.PostedPayload
	if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", evt.Type, err)
	}
	return a.Messages.AppendMessage(ctx, storage.MessageRecord{
		GameID:    evt.GameID,
		ChannelID: payload.ChatID,
		Seq:       payload.Seq,
		Author:    payload.Author,
		At:        evt.Timestamp,
		Content:   payload.Body,
	})
}

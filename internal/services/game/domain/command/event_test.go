package command

import (
	"reflect"
	"testing"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
)

func TestNewEventForwardsEnvelope(t *testing.T) {
	cmd := Command{
		GameID:    "game-1",
		ActorType: ActorTypePlayer,
		ActorID:   "alice",
		RequestID: "req-1",
	}
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	ph := phase.Phase{Kind: phase.KindNight, Day: 2}
	payload := []byte(`{"ability_id":"cop.investigate"}`)

	got := NewEvent(cmd, event.TypeAbilityQueued, "player", "alice", ph, payload, now)

	want := event.Event{
		GameID:      "game-1",
		Type:        event.TypeAbilityQueued,
		Timestamp:   now,
		ActorType:   event.ActorTypePlayer,
		ActorID:     "alice",
		RequestID:   "req-1",
		EntityType:  "player",
		EntityID:    "alice",
		Phase:       phase.KindNight,
		Day:         2,
		PayloadJSON: payload,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NewEvent = %+v, want %+v", got, want)
	}
}

func TestNewEventLeavesIntegrityFieldsEmpty(t *testing.T) {
	got := NewEvent(Command{GameID: "game-1", ActorType: ActorTypeSystem}, event.TypePhaseAdvanced, "game", "game-1", phase.Phase{Kind: phase.KindDay, Day: 1}, nil, time.Now())

	if got.Seq != 0 || got.Hash != "" || got.ChainHash != "" || got.Signature != "" {
		t.Errorf("integrity fields belong to storage, got %+v", got)
	}
}

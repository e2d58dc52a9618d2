package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/storage"
)

func TestAppendTelemetryEvent(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2026, 3, 3, 15, 0, 0, 0, time.UTC)

	// With Attributes map
	err := store.AppendTelemetryEvent(context.Background(), storage.TelemetryEvent{
		Timestamp:  now,
		EventName:  "game.resolve",
		Severity:   "info",
		GameID:     "game-tel",
		ActorType:  "moderator",
		RequestID:  "req-1",
		Attributes: map[string]any{"events": 4},
	})
	if err != nil {
		t.Fatalf("append telemetry event with attributes: %v", err)
	}

	// With AttributesJSON
	err = store.AppendTelemetryEvent(context.Background(), storage.TelemetryEvent{
		Timestamp:      now,
		EventName:      "game.phase_advance",
		Severity:       "warn",
		AttributesJSON: []byte(`{"phase":"DAY"}`),
	})
	if err != nil {
		t.Fatalf("append telemetry event with json: %v", err)
	}

	var count int
	if err := store.sqlDB.QueryRow("SELECT COUNT(*) FROM telemetry_events").Scan(&count); err != nil {
		t.Fatalf("count telemetry events: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 telemetry events, got %d", count)
	}

	var attributes string
	if err := store.sqlDB.QueryRow(
		"SELECT attributes_json FROM telemetry_events WHERE event_name = ?",
		"game.resolve").Scan(&attributes); err != nil {
		t.Fatalf("read telemetry attributes: %v", err)
	}
	if attributes != `{"events":4}` {
		t.Fatalf("expected marshaled attributes, got %s", attributes)
	}

	// Required field validation: missing event name
	err = store.AppendTelemetryEvent(context.Background(), storage.TelemetryEvent{
		Timestamp: now,
		Severity:  "info",
	})
	if err == nil {
		t.Fatal("expected error for missing event name")
	}

	// Required field validation: missing severity
	err = store.AppendTelemetryEvent(context.Background(), storage.TelemetryEvent{
		Timestamp: now,
		EventName: "game.create",
	})
	if err == nil {
		t.Fatal("expected error for missing severity")
	}
}

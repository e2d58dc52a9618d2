package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/storage"
)

// AppendTelemetryEvent records an operational telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := s.readReady(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(evt.EventName) == "" {
		return fmt.Errorf("event name is required")
	}
	if strings.TrimSpace(evt.Severity) == "" {
		return fmt.Errorf("severity is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if len(evt.AttributesJSON) == 0 && len(evt.Attributes) > 0 {
		payload, err := json.Marshal(evt.Attributes)
		if err != nil {
			return fmt.Errorf("marshal telemetry attributes: %w", err)
		}
		evt.AttributesJSON = payload
	}

	_, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO telemetry_events (timestamp, event_name, severity, game_id, actor_type, actor_id, request_id, trace_id, span_id, attributes_json) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		toMillis(evt.Timestamp),
		evt.EventName,
		evt.Severity,
		toNullString(evt.GameID),
		toNullString(evt.ActorType),
		toNullString(evt.ActorID),
		toNullString(evt.RequestID),
		toNullString(evt.TraceID),
		toNullString(evt.SpanID),
		evt.AttributesJSON,
	)
	if err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}

func toNullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

// Package telemetry records operational telemetry events.
//
// Telemetry events are distinct from the game event journal: the journal is
// the canonical gameplay record, telemetry captures product and health
// signals (games created, games resolved, commands rejected) for audits and
// incident analysis. The emitter is nil-safe so callers never need to guard
// the optional sink.
package telemetry

import (
	"context"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/storage"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Common event names emitted by the app layer.
const (
	EventGameCreated     = "game.created"
	EventGameResolved    = "game.resolved"
	EventCommandRejected = "command.rejected"
)

// Emitter writes telemetry events to a store. A nil emitter or a nil
// store discards events.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
}

// NewEmitter creates an emitter backed by store.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records one telemetry event, stamping the current time when the
// event carries none.
func (e *Emitter) Emit(ctx context.Context, evt storage.TelemetryEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now()
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}

func (e *Emitter) now() time.Time {
	if e.clock == nil {
		return time.Now().UTC()
	}
	return e.clock().UTC()
}

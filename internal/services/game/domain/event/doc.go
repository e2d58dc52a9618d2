// Package event defines the canonical event envelope and event-type registry
// used by the game domain write path.
//
// Events are immutable facts emitted by accepted decisions. The registry
// enforces addressing, actor metadata, and payload validity before persistence
// assigns sequence and integrity fields. The per-game event journal doubles as
// the resolution log: replaying it rebuilds state, and its hash chain makes
// tampering evident.
package event

// Package projection builds read models from the event journal and folded
// game state.
//
// Read models are intentionally separate from the aggregate so API layers can
// query ergonomic views without replaying events per request. The game row is
// mapped from folded state after each command (the aggregate already carries
// every summary field plus the snapshot used for hydration); append-only side
// tables such as chat messages project from individual journal events.
package projection

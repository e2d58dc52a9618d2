// Package app composes the game command and query services.
//
// It executes commands against the event journal under per-game locks,
// keeps folded state snapshots and read models current, and gates state
// disclosure behind viewer authentication.
package app

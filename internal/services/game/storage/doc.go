// Package storage defines the persistence contracts the game service
// depends on: the append-only event journal, game projections backing
// the list and detail endpoints, chat transcripts, and telemetry.
//
// The SQLite implementation lives in the sqlite subpackage. Callers
// match missing records with errors.Is against ErrNotFound.
package storage

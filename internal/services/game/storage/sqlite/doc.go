// Package sqlite implements game persistence contracts for the event journal
// and the projection read models.
//
// Why this package exists:
// - It is the concrete backend where the write model and projection model meet.
// - It owns migration and schema-compatibility behavior for game history durability.
// - It provides deterministic adapters so command execution and replay paths share the same persistence shape.
//
// The backend uses embedded migrations; only this package translates
// domain-shaped records into concrete SQL rows/transactions.
package sqlite

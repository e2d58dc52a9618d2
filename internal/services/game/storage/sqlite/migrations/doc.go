// Package migrations embeds the SQL schema history for the game store.
//
// Scripts apply in lexical order and are recorded in schema_migrations,
// so a store opened against an older database file upgrades in place.
// Journal tables never change shape destructively; replay depends on
// old rows staying readable.
package migrations

package migrations

import "embed"

// GameFS holds the game store's migration scripts.
//
//go:embed game/*.sql
var GameFS embed.FS

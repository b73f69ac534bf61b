// Package migrations embeds the goose SQL migrations of the encounter ledger.
package migrations

import "embed"

// FS holds every migration file.
//
//go:embed *.sql
var FS embed.FS

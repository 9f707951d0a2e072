package migrations

import "embed"

// FS contains the journal schema.
//
//go:embed *.sql
var FS embed.FS

// Package migrations embeds the sqlite schema files in golang-migrate's
// NNNNNN_name.up.sql / NNNNNN_name.down.sql layout.
package migrations

import "embed"

// FS holds the versioned *.sql files.
//
//go:embed *.sql
var FS embed.FS

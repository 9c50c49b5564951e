// Package migrations embeds the versioned SQL schema migrations.
package migrations

import "embed"

// FS holds one directory per storage engine; each file is NNN_name.sql.
//
//go:embed sqlite/*.sql
var FS embed.FS

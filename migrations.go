// Package root exposes files that live at the repository root to the rest of
// the module.
package root

import "embed"

// Migrations holds the goose SQL migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS

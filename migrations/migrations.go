// Package migrations embeds the schema of the users table, one directory per
// SQL dialect. Files use the goose annotation format.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationFS embed.FS

// ForDialect returns the migrations for the named dialect ("sqlite" or "postgres").
// The returned FS contains the migration files in its root.
func ForDialect(dialect string) (fs.FS, error) {
	switch dialect {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}

	return fs.Sub(migrationFS, dialect)
}

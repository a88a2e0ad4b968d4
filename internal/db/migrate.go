package db

import (
	"context"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/willemschots/signups/migrations"
)

// Migration is a migration that was applied.
type Migration struct {
	Version  int64
	Filename string
	Duration time.Duration
}

// Migrate applies all pending migrations for the dialect of conn. It returns
// the migrations that were applied, if none were applied it returns an empty slice.
func Migrate(ctx context.Context, conn *Conn) ([]Migration, error) {
	fsys, err := migrations.ForDialect(string(conn.Dialect))
	if err != nil {
		return nil, err
	}

	dialect := goose.DialectSQLite3
	if conn.Dialect == Postgres {
		dialect = goose.DialectPostgres
	}

	provider, err := goose.NewProvider(dialect, conn.DB, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	applied := make([]Migration, 0, len(results))
	for _, r := range results {
		applied = append(applied, Migration{
			Version:  r.Source.Version,
			Filename: r.Source.Path,
			Duration: r.Duration,
		})
	}

	return applied, nil
}

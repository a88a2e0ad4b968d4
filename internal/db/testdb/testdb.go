package testdb

import (
	"context"
	"testing"
	"time"

	"github.com/willemschots/signups/internal/db"
)

// RunWhile runs an in-memory SQLite database while the provided test is executing.
// It returns an empty database with all migrations applied.
func RunWhile(t *testing.T) *db.Conn {
	t.Helper()

	conn := RunUnmigratedWhile(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.Migrate(ctx, conn)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return conn
}

// RunUnmigratedWhile runs an in-memory SQLite database while the provided test is executing.
// It returns an empty database without any migrations applied.
func RunUnmigratedWhile(t *testing.T) *db.Conn {
	t.Helper()

	conn, err := db.Open(context.Background(), db.Config{
		URL:          ":memory:",
		SQLiteDriver: db.DriverCGO,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	t.Cleanup(func() {
		err := conn.Close()
		if err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})

	return conn
}

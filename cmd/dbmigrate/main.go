package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/willemschots/signups/internal/db"
)

const helpText = `Usage: dbmigrate [database_url]

database_url is a SQLite filename or a postgres:// URL.
Set DB_DRIVER=sqlite to use the pure Go SQLite driver.`

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, helpText)
		os.Exit(1)
	}

	os.Exit(run(os.Args[1], os.Getenv("DB_DRIVER")))
}

func run(url, driver string) int {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()

	conn, err := db.Open(ctx, db.Config{
		URL:          url,
		SQLiteDriver: driver,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		return 1
	}
	defer conn.Close()

	migrations, err := db.Migrate(ctx, conn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		return 1
	}

	for _, migration := range migrations {
		fmt.Printf("%d: %s\n", migration.Version, migration.Filename)
	}

	return 0
}

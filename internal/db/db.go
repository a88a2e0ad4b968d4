package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/willemschots/signups/internal/errorz"
	_ "modernc.org/sqlite"
)

// Dialect is the SQL dialect spoken by the store.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

const (
	// DriverCGO is the mattn/go-sqlite3 driver.
	DriverCGO = "sqlite3"
	// DriverPure is the modernc.org/sqlite driver, it doesn't need cgo.
	DriverPure = "sqlite"

	// We need to configure a few options to make sure SQLite works well with our app:
	// - WAL Mode so that reads and writes don't block eachother.
	// - A busy timeout, specifying the duration a connection will wait for a lock.
	// - Foreign keys are enforced.
	// - Immediate transactions to prevent locking issues.
	// The two drivers spell these options differently.
	cgoOptions  = "_foreign_keys=on&_journal_mode=wal&_busy_timeout=5000&_txlock=immediate"
	pureOptions = "_pragma=foreign_keys(1)&_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_txlock=immediate"
)

// Config configures the connection pool.
type Config struct {
	// URL is either a postgres:// (or postgresql://) URL or a SQLite filename.
	URL string
	// SQLiteDriver is DriverCGO or DriverPure. It's ignored for postgres URLs.
	SQLiteDriver    string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Conn is a pool of connections to the store together with its dialect.
// It is safe for concurrent use.
type Conn struct {
	*sql.DB
	Dialect Dialect
}

// Open opens a pool of connections and checks that the store can be reached.
// Failing to reach the store results in an error wrapping errorz.ErrUnavailable.
func Open(ctx context.Context, cfg Config) (*Conn, error) {
	var (
		conn *Conn
		err  error
	)

	if IsPostgresURL(cfg.URL) {
		conn, err = openPostgres(cfg)
	} else {
		conn, err = openSQLite(cfg)
	}
	if err != nil {
		return nil, err
	}

	err = conn.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", errorz.MapDBErr(joinClose(conn, err)))
	}

	return conn, nil
}

func openPostgres(cfg Config) (*Conn, error) {
	sqlDB, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Conn{DB: sqlDB, Dialect: Postgres}, nil
}

// openSQLite opens a SQLite database with a single connection. SQLite only
// allows one writer at a time, and an in-memory database only lives as long
// as its connection.
//
// See this comment for more information:
// https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995
func openSQLite(cfg Config) (*Conn, error) {
	var opts string
	switch cfg.SQLiteDriver {
	case DriverCGO, "":
		cfg.SQLiteDriver = DriverCGO
		opts = cgoOptions
	case DriverPure:
		opts = pureOptions
	default:
		return nil, fmt.Errorf("unknown sqlite driver %q", cfg.SQLiteDriver)
	}

	sep := "?"
	if strings.Contains(cfg.URL, "?") {
		sep = "&"
	}

	sqlDB, err := sql.Open(cfg.SQLiteDriver, cfg.URL+sep+opts)
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	// don't close this connection.
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	return &Conn{DB: sqlDB, Dialect: SQLite}, nil
}

// IsPostgresURL reports whether url is a postgres connection string.
func IsPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

func joinClose(conn *Conn, err error) error {
	if cErr := conn.Close(); cErr != nil {
		return fmt.Errorf("%w (close: %v)", err, cErr)
	}
	return err
}

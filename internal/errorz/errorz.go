package errorz

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	modernc "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

var (
	ErrConstraintViolated = errors.New("constraint violated")
	// ErrUnavailable indicates the store could not be reached or no connection
	// could be acquired from the pool.
	ErrUnavailable = errors.New("store unavailable")
	// ErrQuery indicates a statement against the store failed.
	ErrQuery = errors.New("query failed")
	// ErrRender indicates a view could not be found or executed.
	ErrRender = errors.New("render failed")
)

// MapDBErr maps database errors to appropriate errorz errors.
// If err is nil, MapDBErr returns nil.
//
// It understands errors of the mattn and modernc SQLite drivers and of pgx.
// Errors it can't classify are wrapped with ErrQuery.
func MapDBErr(err error) error {
	if err == nil {
		return nil
	}

	if isConstraintErr(err) {
		return fmt.Errorf("%w: %w", ErrConstraintViolated, err)
	}

	if isConnErr(err) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return fmt.Errorf("%w: %w", ErrQuery, err)
}

func isConstraintErr(err error) bool {
	sErr := sqlite3.Error{}
	if errors.As(err, &sErr) {
		return sErr.Code == sqlite3.ErrConstraint
	}

	var mErr *modernc.Error
	if errors.As(err, &mErr) {
		return mErr.Code()&0xff == sqlitelib.SQLITE_CONSTRAINT
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 23: integrity constraint violation.
		return strings.HasPrefix(pgErr.Code, "23")
	}

	return false
}

func isConnErr(err error) bool {
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return true
	}

	sErr := sqlite3.Error{}
	if errors.As(err, &sErr) {
		return sErr.Code == sqlite3.ErrCantOpen
	}

	var mErr *modernc.Error
	if errors.As(err, &mErr) {
		return mErr.Code()&0xff == sqlitelib.SQLITE_CANTOPEN
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var netErr *net.OpError
	return errors.As(err, &netErr)
}

package errorz_test

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/willemschots/signups/internal/errorz"
)

func Test_MapDBErr(t *testing.T) {
	t.Run("ok, nil stays nil", func(t *testing.T) {
		assert.NoError(t, errorz.MapDBErr(nil))
	})

	tests := map[string]struct {
		err  error
		want error
	}{
		"no rows":            {sql.ErrNoRows, errorz.ErrQuery},
		"sqlite3 constraint": {sqlite3.Error{Code: sqlite3.ErrConstraint}, errorz.ErrConstraintViolated},
		"sqlite3 cant open":  {sqlite3.Error{Code: sqlite3.ErrCantOpen}, errorz.ErrUnavailable},
		"sqlite3 other":      {sqlite3.Error{Code: sqlite3.ErrError}, errorz.ErrQuery},
		"postgres unique":    {&pgconn.PgError{Code: "23505"}, errorz.ErrConstraintViolated},
		"postgres syntax":    {&pgconn.PgError{Code: "42601"}, errorz.ErrQuery},
		"bad conn":           {driver.ErrBadConn, errorz.ErrUnavailable},
		"conn done":          {sql.ErrConnDone, errorz.ErrUnavailable},
		"network":            {&net.OpError{Op: "dial", Err: errors.New("refused")}, errorz.ErrUnavailable},
		"unknown":            {errors.New("boom"), errorz.ErrQuery},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := errorz.MapDBErr(tc.err)
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func Test_InvalidInput(t *testing.T) {
	errEmpty := errors.New("empty")
	in := errorz.InvalidInput{
		errorz.Keyed{Key: "email", Err: errEmpty},
		errorz.Keyed{Key: "password", Err: errEmpty},
	}

	assert.ErrorIs(t, in, errEmpty)
	assert.Equal(t, []string{"email", "password"}, in.Keys())
	assert.Contains(t, in.Error(), "email: empty")
	assert.Contains(t, in.Error(), "password: empty")

	var target errorz.InvalidInput
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", in), &target))
}

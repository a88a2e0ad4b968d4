package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/willemschots/signups/internal/db"
)

func Test_Query(t *testing.T) {
	tests := map[string]struct {
		dialect    db.Dialect
		build      func(q *db.Query)
		wantQuery  string
		wantParams []any
	}{
		"ok, sqlite unsafe only": {
			dialect: db.SQLite,
			build: func(q *db.Query) {
				q.Unsafe("SELECT id FROM users")
			},
			wantQuery: "SELECT id FROM users",
		},
		"ok, sqlite params": {
			dialect: db.SQLite,
			build: func(q *db.Query) {
				q.Unsafe("INSERT INTO users (email, password) VALUES (")
				q.Params("a@example.com", "hash")
				q.Unsafe(")")
			},
			wantQuery:  "INSERT INTO users (email, password) VALUES (?, ?)",
			wantParams: []any{"a@example.com", "hash"},
		},
		"ok, postgres params": {
			dialect: db.Postgres,
			build: func(q *db.Query) {
				q.Unsafe("SELECT id FROM users WHERE email = ")
				q.Param("a@example.com")
				q.Unsafe(" AND id IN (")
				q.Params(1, 2)
				q.Unsafe(")")
			},
			wantQuery:  "SELECT id FROM users WHERE email = $1 AND id IN ($2, $3)",
			wantParams: []any{"a@example.com", 1, 2},
		},
		"ok, zero value uses sqlite placeholders": {
			build: func(q *db.Query) {
				q.Unsafe("SELECT ")
				q.Param(1)
			},
			wantQuery:  "SELECT ?",
			wantParams: []any{1},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			q := db.NewQuery(tc.dialect)
			tc.build(q)

			got, params := q.Get()
			assert.Equal(t, tc.wantQuery, got)
			assert.Equal(t, tc.wantParams, params)
		})
	}
}

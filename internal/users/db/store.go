package db

import (
	"context"
	"time"

	"github.com/willemschots/signups/internal/db"
	"github.com/willemschots/signups/internal/users"
)

// NowFunc is a function that returns the current time.
type NowFunc func() time.Time

// Store is responsible for interacting with the users table.
// It is safe for concurrent use.
type Store struct {
	conn    *db.Conn
	nowFunc NowFunc
}

// New creates a new Store.
func New(conn *db.Conn, nowFunc NowFunc) *Store {
	return &Store{
		conn:    conn,
		nowFunc: nowFunc,
	}
}

// InsertUser inserts a user and returns it as stored. The store assigns
// the ID and the creation time.
func (s *Store) InsertUser(ctx context.Context, email, password string) (users.User, error) {
	u := users.User{
		Email:     email,
		Password:  password,
		CreatedAt: users.FormatCreatedAt(s.nowFunc()),
	}

	id, err := insertUser(ctx, s.query(), s.conn.QueryRowContext, u)
	if err != nil {
		return users.User{}, err
	}

	u.ID = id
	return u, nil
}

// ListUsers returns all users. The order is the order in which the
// store returns them.
func (s *Store) ListUsers(ctx context.Context) ([]users.User, error) {
	return selectUsers(ctx, s.query(), s.conn.QueryContext)
}

func (s *Store) query() *db.Query {
	return db.NewQuery(s.conn.Dialect)
}

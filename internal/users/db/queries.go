package db

import (
	"context"
	"database/sql"

	"github.com/willemschots/signups/internal/db"
	"github.com/willemschots/signups/internal/errorz"
	"github.com/willemschots/signups/internal/users"
)

type queryRowFunc func(ctx context.Context, query string, params ...any) *sql.Row
type queryFunc func(ctx context.Context, query string, params ...any) (*sql.Rows, error)

func insertUser(ctx context.Context, q *db.Query, qrf queryRowFunc, u users.User) (int64, error) {
	q.Unsafe(`INSERT INTO users (email, password, date_created) VALUES (`)
	q.Params(u.Email, u.Password, u.CreatedAt)
	q.Unsafe(`) RETURNING id`)

	s, params := q.Get()

	var id int64
	err := qrf(ctx, s, params...).Scan(&id)
	if err != nil {
		return 0, errorz.MapDBErr(err)
	}

	return id, nil
}

func selectUsers(ctx context.Context, q *db.Query, qf queryFunc) ([]users.User, error) {
	q.Unsafe(`SELECT id, email, password, date_created FROM users`)

	s, params := q.Get()

	rows, err := qf(ctx, s, params...)
	if err != nil {
		return nil, errorz.MapDBErr(err)
	}

	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		var u users.User
		err := rows.Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt)
		if err != nil {
			return nil, errorz.MapDBErr(err)
		}

		out = append(out, u)
	}

	if err := rows.Err(); err != nil {
		return nil, errorz.MapDBErr(err)
	}

	return out, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// getOne scans a single row into a new T. A missing row is not an error for
// Find* lookups, so sql.ErrNoRows comes back as (nil, nil).
func getOne[T any](ctx context.Context, db sqlx.QueryerContext, query string, args ...any) (*T, error) {
	var dest T
	err := sqlx.GetContext(ctx, db, &dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dest, nil
}

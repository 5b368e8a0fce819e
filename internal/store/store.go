// Package store contains row-level persistence helpers. Every function takes
// a DBTX so it can run against the bare connection or inside a transaction
// owned by a caller (the inventory package runs its multi-entity mutations
// that way).
package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql methods shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

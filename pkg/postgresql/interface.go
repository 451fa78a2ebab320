package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// RowsInterface wraps pgx.Rows for mocking
type RowsInterface interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

// RowsWrapper wraps pgx.Rows to implement RowsInterface
type RowsWrapper struct {
	rows pgx.Rows
}

// NewRowsWrapper creates a new RowsWrapper.
func NewRowsWrapper(rows pgx.Rows) RowsInterface {
	return &RowsWrapper{rows: rows}
}

// Next returns true if there are more rows to read.
func (r *RowsWrapper) Next() bool {
	return r.rows.Next()
}

// Scan scans the next row into the given destination.
func (r *RowsWrapper) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

// Close closes the RowsWrapper.
func (r *RowsWrapper) Close() {
	r.rows.Close()
}

// Err returns the error from the RowsWrapper.
func (r *RowsWrapper) Err() error {
	return r.rows.Err()
}

// PostgreSQLClient defines the interface for PostgreSQL operations.
// Exec, Query and QueryRow run inside the transaction carried by ctx, if any.
type PostgreSQLClient interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (RowsInterface, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row

	Begin(ctx context.Context) (pgx.Tx, error)

	Ping(ctx context.Context) error
	Close()
	Stats() *pgxpool.Stat
}

// SelectBuilder builds SELECT statements with PostgreSQL positional placeholders.
type SelectBuilder interface {
	Select(columns ...string) SelectBuilder
	From(table string) SelectBuilder
	Where(condition string, args ...any) SelectBuilder
	OrderBy(column string, desc ...bool) SelectBuilder
	Limit(limit int) SelectBuilder
	Offset(offset int) SelectBuilder
	Build() (string, []any)
}

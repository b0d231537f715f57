package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sittersafe/carelog/internal/common"
)

// PgxPool is a minimal abstraction over a Postgres connection pool,
// implemented by *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Close()
}

// DB wraps pgxpool.Pool to satisfy the client constructor and allow testing.
type DB struct{ Pool PgxPool }

// New creates a connection pool for the given DSN. The pool connects lazily,
// so this succeeds even while offline.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{Pool: pool}, nil
}

// Close shuts down the pool.
func (db *DB) Close() { db.Pool.Close() }

// undefined_table: the backend schema has not been provisioned yet.
const pgCodeUndefinedTable = "42P01"

// wrap converts a backend error into the soft taxonomy. A missing relation
// maps to ErrSchemaMissing, everything else to ErrUnavailable.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCodeUndefinedTable {
		return fmt.Errorf("%s: relation %q: %w", op, pgErr.TableName, common.ErrSchemaMissing)
	}
	return fmt.Errorf("%s: %v: %w", op, err, common.ErrUnavailable)
}

// IsSoft reports whether err belongs to the ignorable class: the operation
// no-ops and the local cache remains authoritative.
func IsSoft(err error) bool {
	return errors.Is(err, common.ErrUnavailable) || errors.Is(err, common.ErrSchemaMissing)
}

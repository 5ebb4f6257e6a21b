package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations shared by pools and transactions.
// Repositories resolve their querier per call so the same code runs inside
// or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txKey is the context key for an in-flight transaction.
type txKey struct{}

// Transactor runs a function inside a single storage transaction. If the
// function returns an error the transaction is rolled back.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PgxTransactor implements Transactor over a pgx connection pool.
type PgxTransactor struct {
	pool *pgxpool.Pool
}

// NewPgxTransactor creates a Transactor backed by the given pool.
func NewPgxTransactor(pool *pgxpool.Pool) *PgxTransactor {
	return &PgxTransactor{pool: pool}
}

// InTx begins a transaction, stashes it in the context, and commits or rolls
// back based on the function's return value.
func (t *PgxTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return pgx.BeginFunc(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// QuerierFrom returns the transaction bound to ctx if one is in flight,
// otherwise the fallback querier (normally the pool).
func QuerierFrom(ctx context.Context, fallback Querier) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return fallback
}

// NoopTransactor runs the function without any transaction. Used with
// in-memory repositories in tests.
type NoopTransactor struct{}

// InTx runs fn directly.
func (NoopTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Interface checks.
var (
	_ Transactor = (*PgxTransactor)(nil)
	_ Transactor = NoopTransactor{}
)

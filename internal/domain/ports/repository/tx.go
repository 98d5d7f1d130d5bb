package repository

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// Querier is the minimal executor surface repositories need. Both pgx.Tx and
// *pgxpool.Pool satisfy it, so callers never know whether they run inside a
// transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// TransactionManager governs the ambient transaction scope of a logical unit
// of work.
//
// RATIONALE
// - Keeps use-case and repository signatures clean: no tx handle threading.
// - The scope travels in the context, so concurrent requests observe
//   independent scopes even inside one process.
// - Nested Transaction calls join the in-flight transaction; commit and
//   rollback authority stays with the outermost call, so an inner failure
//   undoes the work of every caller sharing the scope.
//
// USAGE
//	tm.RunScoped(ctx, func(ctx context.Context) error {
//		return tm.Transaction(ctx, func(ctx context.Context) error {
//			// repositories resolve their handle via ActiveHandle(ctx)
//			a, err := activities.FindByID(ctx, id)
//			...
//			return err
//		})
//	})
//
// Outside RunScoped both Transaction and ActiveHandle fail fast with
// domain.ErrNoTxScope instead of silently using the default handle.
type TransactionManager interface {
	// RunScoped establishes a fresh ambient scope for fn and everything fn
	// transitively invokes, and tears it down when fn returns.
	RunScoped(ctx context.Context, fn func(ctx context.Context) error) error
	// Transaction runs fn inside the scope's transaction, beginning one if
	// none is in flight. A fresh transaction is committed when fn returns
	// nil and rolled back otherwise; a joined one is left to the outermost
	// caller.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	// ActiveHandle returns the in-flight transactional handle if one exists,
	// else the default non-transactional handle.
	ActiveHandle(ctx context.Context) (Querier, error)
}

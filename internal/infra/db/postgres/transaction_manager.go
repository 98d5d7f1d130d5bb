package postgres

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v4"

	"repolingo/internal/domain"
	"repolingo/internal/domain/ports/repository"
)

// Ensure compile-time conformance
var _ repository.TransactionManager = (*TxManager)(nil)

// TxManager implements repository.TransactionManager for Postgres (pgx).
//
// The ambient scope is a context value holding a mutable slot for the
// in-flight transaction. Because the slot travels with the context,
// concurrent call chains (two simultaneous API requests, parallel queue
// messages) each see their own scope; there is no module-level state to leak
// across them.
type TxManager struct {
	provider *ConnectionProvider
}

func NewTxManager(provider *ConnectionProvider) *TxManager {
	return &TxManager{provider: provider}
}

// txScope is the per-unit-of-work slot. The mutex covers chains that fork
// goroutines under one scope.
type txScope struct {
	mu sync.Mutex
	tx pgx.Tx
}

func (s *txScope) active() pgx.Tx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx
}

func (s *txScope) set(tx pgx.Tx) {
	s.mu.Lock()
	s.tx = tx
	s.mu.Unlock()
}

type scopeKeyType struct{}

var scopeKey scopeKeyType

func scopeFrom(ctx context.Context) *txScope {
	sc, _ := ctx.Value(scopeKey).(*txScope)
	return sc
}

// RunScoped establishes a fresh ambient scope for fn. A nested RunScoped
// deliberately gets an independent slot: one scope per top-level unit of
// work.
func (m *TxManager) RunScoped(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, scopeKey, &txScope{}))
}

// Transaction runs fn against the scope's transaction. If one is already in
// flight on this chain, fn joins it and the outermost call keeps commit and
// rollback authority. Otherwise a transaction is begun, published into the
// scope for the duration of fn, and cleared again whatever the outcome.
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sc := scopeFrom(ctx)
	if sc == nil {
		return domain.ErrNoTxScope
	}
	if sc.active() != nil {
		return fn(ctx)
	}

	pool, err := m.provider.Get(ctx)
	if err != nil {
		return err
	}
	// Default isolation level is ReadCommitted; adjust if you need stricter semantics.
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	sc.set(tx)
	defer func() {
		sc.set(nil)
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx); err != nil {
		return err // rollback in defer
	}
	return tx.Commit(ctx)
}

// ActiveHandle returns the in-flight transactional handle if one exists,
// else the default pool. Outside RunScoped it fails fast so repositories can
// never run unscoped by accident.
func (m *TxManager) ActiveHandle(ctx context.Context) (repository.Querier, error) {
	sc := scopeFrom(ctx)
	if sc == nil {
		return nil, domain.ErrNoTxScope
	}
	if tx := sc.active(); tx != nil {
		return tx, nil
	}
	return m.provider.Get(ctx)
}

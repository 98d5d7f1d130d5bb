package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ConnectionProvider lazily dials and memoizes the single process-wide pool.
// Both the API and the queue consumer share one instance; nobody touches the
// pool directly, they go through the TxManager's ambient scope.
type ConnectionProvider struct {
	dsn      string
	maxConns int32

	once sync.Once
	pool *pgxpool.Pool
	err  error
}

func NewConnectionProvider(dsn string, maxConns int32) *ConnectionProvider {
	return &ConnectionProvider{dsn: dsn, maxConns: maxConns}
}

// Get returns the memoized pool, dialing it on first use. A failed dial is
// memoized too; the process is expected to treat that as fatal.
func (p *ConnectionProvider) Get(ctx context.Context) (*pgxpool.Pool, error) {
	p.once.Do(func() {
		cfg, err := pgxpool.ParseConfig(p.dsn)
		if err != nil {
			p.err = fmt.Errorf("parse database url: %w", err)
			return
		}
		if p.maxConns > 0 {
			cfg.MaxConns = p.maxConns
		}
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		p.pool, p.err = pgxpool.ConnectConfig(dialCtx, cfg)
	})
	return p.pool, p.err
}

func (p *ConnectionProvider) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

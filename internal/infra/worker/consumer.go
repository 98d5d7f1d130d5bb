package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"repolingo/internal/domain/ports/adapter"
	"repolingo/internal/infra/metrics"
	"repolingo/internal/usecase"
)

// Consumer pulls translation job batches off the queue, fans them out on the
// pool, and acks everything that was not reported failed. Failed messages
// stay pending so the transport redelivers them; successfully processed
// messages, including no-op skips, are acked and gone.
type Consumer struct {
	source adapter.JobSource
	jobs   usecase.JobUseCase
	pool   *Pool
	batch  int
	block  time.Duration
	log    *zerolog.Logger
}

func NewConsumer(
	source adapter.JobSource,
	jobs usecase.JobUseCase,
	pool *Pool,
	batch int,
	block time.Duration,
	logger *zerolog.Logger,
) *Consumer {
	if batch <= 0 {
		batch = 16
	}
	if block <= 0 {
		block = 5 * time.Second
	}
	compLog := logger.With().Str("component", "Consumer").Logger()
	return &Consumer{
		source: source,
		jobs:   jobs,
		pool:   pool,
		batch:  batch,
		block:  block,
		log:    &compLog,
	}
}

// Run loops until ctx is cancelled. This should be run in a goroutine.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info().Msg("translation job consumer started")
	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("translation job consumer stopping")
			return ctx.Err()
		default:
		}

		msgs, err := c.source.Fetch(ctx, c.batch, c.block)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error().Err(err).Msg("queue fetch failed")
			time.Sleep(time.Second)
			continue
		}
		if len(msgs) == 0 {
			continue
		}

		failed := c.dispatch(ctx, msgs)

		ack := make([]string, 0, len(msgs))
		for _, m := range msgs {
			if !failed[m.ID] {
				ack = append(ack, m.ID)
			}
		}
		if err := c.source.Ack(ctx, ack...); err != nil {
			// Unacked messages come back; the worker's terminal-state guard
			// makes replay harmless.
			c.log.Error().Err(err).Int("count", len(ack)).Msg("ack failed")
		}
	}
}

// dispatch runs every message of a batch on the pool and reports the set of
// message ids that must be redelivered.
func (c *Consumer) dispatch(ctx context.Context, msgs []adapter.JobMessage) map[string]bool {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		failed = make(map[string]bool)
	)
	markFailed := func(id string) {
		mu.Lock()
		failed[id] = true
		mu.Unlock()
		metrics.IncBatchFailure()
	}

	for _, m := range msgs {
		m := m
		wg.Add(1)
		err := c.pool.Submit(func(taskCtx context.Context) error {
			defer wg.Done()
			if _, err := c.jobs.Process(taskCtx, m); err != nil {
				c.log.Error().Err(err).Str("message_id", m.ID).
					Msg("translation job errored, leaving for redelivery")
				markFailed(m.ID)
			}
			return nil
		})
		if err != nil {
			// Pool saturated; let the transport bring it back later.
			wg.Done()
			markFailed(m.ID)
		}
	}
	wg.Wait()
	return failed
}

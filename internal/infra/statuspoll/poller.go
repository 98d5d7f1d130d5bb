// Package statuspoll implements the consumer-side polling loop run after a
// translation request returns an in-flight status.
package statuspoll

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"repolingo/internal/domain/model"
)

// Source answers the read-only status query.
type Source interface {
	FetchStatus(ctx context.Context, activityID string) (*model.Activity, error)
}

// Poller asks a Source for current state on a fixed interval until it
// observes a terminal status. Cancellation goes through the caller's
// context; the ticker is always stopped on return, so there is no dangling
// timer after a caller walks away.
type Poller struct {
	source   Source
	interval time.Duration
	log      *zerolog.Logger
}

func New(source Source, interval time.Duration, logger *zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Poller{source: source, interval: interval, log: logger}
}

// Wait polls until the activity reaches COMPLETED or FAILED or ctx is
// cancelled. On FAILED the terminal state is returned together with an error
// carrying the status detail, so callers can surface it directly.
func (p *Poller) Wait(ctx context.Context, activityID string) (*model.Activity, error) {
	if a, done, err := p.check(ctx, activityID); done {
		return a, err
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if a, done, err := p.check(ctx, activityID); done {
				return a, err
			}
		}
	}
}

func (p *Poller) check(ctx context.Context, activityID string) (*model.Activity, bool, error) {
	a, err := p.source.FetchStatus(ctx, activityID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, true, ctx.Err()
		}
		// Transient fetch failures don't end the wait.
		p.log.Warn().Err(err).Str("activity_id", activityID).Msg("status fetch failed, retrying")
		return nil, false, nil
	}
	switch a.TranslationStatus {
	case model.TranslationCompleted:
		return a, true, nil
	case model.TranslationFailed:
		return a, true, fmt.Errorf("translation failed: %s", a.StatusDetail)
	default:
		return nil, false, nil
	}
}

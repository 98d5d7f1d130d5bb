// File: internal/usecase/translation_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"repolingo/internal/domain/model"
	"repolingo/internal/domain/ports/adapter"
	"repolingo/internal/domain/ports/repository"
	"repolingo/internal/infra/metrics"
)

// Compile-time check
var _ TranslationUseCase = (*translationUC)(nil)

// TranslationResult is what a request returns. Enqueued is true only when
// this particular request put a new job on the queue; otherwise Activity is
// the existing state, returned unchanged.
type TranslationResult struct {
	Activity *model.Activity
	Enqueued bool
}

type TranslationUseCase interface {
	// Request decides whether to reuse existing translation state or enqueue
	// a new job. Business outcomes are typed: absent/unwatched activities
	// surface as domain.ErrNotFound, in-flight state as Enqueued=false.
	Request(ctx context.Context, userID, activityID string, force bool, targetLanguage string) (*TranslationResult, error)
	// Status is the read-only query the poller hits; no transaction scope.
	Status(ctx context.Context, userID, activityID string) (*model.Activity, error)
}

type translationUC struct {
	activities  repository.ActivityRepository
	queue       adapter.JobQueue
	tm          repository.TransactionManager
	defaultLang string
	log         *zerolog.Logger
}

func NewTranslationUseCase(
	activities repository.ActivityRepository,
	queue adapter.JobQueue,
	tm repository.TransactionManager,
	defaultLang string,
	logger *zerolog.Logger,
) *translationUC {
	if defaultLang == "" {
		defaultLang = "en"
	}
	return &translationUC{
		activities:  activities,
		queue:       queue,
		tm:          tm,
		defaultLang: defaultLang,
		log:         logger,
	}
}

func (u *translationUC) Request(ctx context.Context, userID, activityID string, force bool, targetLanguage string) (*TranslationResult, error) {
	if targetLanguage == "" {
		targetLanguage = u.defaultLang
	}

	var res *TranslationResult
	err := u.tm.RunScoped(ctx, func(ctx context.Context) error {
		return u.tm.Transaction(ctx, func(ctx context.Context) error {
			a, err := u.activities.FindForUser(ctx, userID, activityID)
			if err != nil {
				return err // ErrNotFound covers both missing and unwatched
			}

			if !force {
				// Primary defense against duplicate client requests. The
				// read and the markQueued below are not a single
				// check-and-set; two concurrent first requests can both
				// enqueue, and the worker's terminal guard absorbs the
				// duplicate.
				if a.TranslationStatus.Terminal() && a.TranslatedBody != nil {
					res = &TranslationResult{Activity: a}
					return nil
				}
				if a.TranslationStatus.InFlight() {
					res = &TranslationResult{Activity: a}
					return nil
				}
			}

			msgID, err := u.queue.Enqueue(ctx, adapter.TranslationJob{
				ActivityID:     activityID,
				TargetLanguage: targetLanguage,
			})
			if err != nil {
				return fmt.Errorf("enqueue translation job: %w", err)
			}
			updated, err := u.activities.MarkQueued(ctx, activityID, time.Now(), msgID)
			if err != nil {
				return err
			}
			u.log.Info().
				Str("activity_id", activityID).
				Str("message_id", msgID).
				Bool("force", force).
				Msg("translation job enqueued")
			res = &TranslationResult{Activity: updated, Enqueued: true}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if res.Enqueued {
		metrics.IncTranslationRequest("enqueued")
	} else {
		metrics.IncTranslationRequest("reused")
	}
	return res, nil
}

func (u *translationUC) Status(ctx context.Context, userID, activityID string) (*model.Activity, error) {
	var a *model.Activity
	err := u.tm.RunScoped(ctx, func(ctx context.Context) error {
		var err error
		a, err = u.activities.FindForUser(ctx, userID, activityID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

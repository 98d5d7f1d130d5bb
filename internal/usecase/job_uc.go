// File: internal/usecase/job_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"repolingo/internal/domain"
	"repolingo/internal/domain/model"
	"repolingo/internal/domain/ports/adapter"
	"repolingo/internal/domain/ports/repository"
	"repolingo/internal/infra/logging"
	"repolingo/internal/infra/metrics"
)

var _ JobUseCase = (*jobUC)(nil)

// JobUseCase drives the translation state machine for one delivered queue
// message. A nil error means the message is done and may be acked, including
// no-op skips; errors mean the transport should redeliver.
type JobUseCase interface {
	Process(ctx context.Context, msg adapter.JobMessage) (*model.Activity, error)
}

type jobUC struct {
	activities  repository.ActivityRepository
	watches     repository.WatchRepository
	provider    adapter.TranslationProvider
	notifier    adapter.WatcherNotifier
	tm          repository.TransactionManager
	defaultLang string
	log         *zerolog.Logger
}

func NewJobUseCase(
	activities repository.ActivityRepository,
	watches repository.WatchRepository,
	provider adapter.TranslationProvider,
	notifier adapter.WatcherNotifier,
	tm repository.TransactionManager,
	defaultLang string,
	logger *zerolog.Logger,
) *jobUC {
	if defaultLang == "" {
		defaultLang = "en"
	}
	return &jobUC{
		activities:  activities,
		watches:     watches,
		provider:    provider,
		notifier:    notifier,
		tm:          tm,
		defaultLang: defaultLang,
		log:         logger,
	}
}

func (u *jobUC) Process(ctx context.Context, msg adapter.JobMessage) (*model.Activity, error) {
	ctx = logging.WithActivityID(ctx, msg.Job.ActivityID)
	log := logging.With(ctx, u.log)

	var out *model.Activity
	err := u.tm.RunScoped(ctx, func(ctx context.Context) error {
		a, err := u.activities.FindByID(ctx, msg.Job.ActivityID)
		if errors.Is(err, domain.ErrNotFound) {
			// Activity deleted or never existed; drop the message.
			log.Warn().Str("message_id", msg.ID).
				Msg("translation job for unknown activity, skipping")
			metrics.IncTranslationJob("skipped")
			return nil
		}
		if err != nil {
			return err
		}

		// Idempotency guard: at-least-once delivery means the same message
		// can arrive again after we already finished.
		if a.TranslationStatus.Terminal() {
			metrics.IncTranslationJob("skipped")
			out = a
			return nil
		}

		started, err := u.activities.MarkProcessing(ctx, a.ID, time.Now(), msg.ID)
		if err != nil {
			return err
		}

		lang := msg.Job.TargetLanguage
		if lang == "" {
			lang = u.defaultLang
		}

		callStart := time.Now()
		translated, perr := u.provider.Translate(ctx, started.Body, lang)
		latency := int(time.Since(callStart) / time.Millisecond)
		metrics.ObserveProviderLatency("translator", latency, perr == nil)

		if perr != nil {
			failedAt := time.Now()
			if _, err := u.activities.MarkFailed(ctx, a.ID, failedAt, perr.Error()); err != nil {
				return err
			}
			log.Error().Err(perr).Msg("translation job failed")
			metrics.IncTranslationJob("failed")
			// Synthesize the failed state from what we had in hand so the
			// caller sees the failure without another read.
			out = syntheticFailed(started, failedAt, perr.Error())
			return nil
		}

		completed, err := u.activities.MarkCompleted(ctx, a.ID, translated, time.Now())
		if err != nil {
			return err
		}
		metrics.IncTranslationJob("completed")
		log.Info().Int("latency_ms", latency).
			Msg("translation job completed")

		u.notifyWatchers(ctx, completed)
		out = completed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// notifyWatchers is best-effort: a notification failure never fails the job.
func (u *jobUC) notifyWatchers(ctx context.Context, a *model.Activity) {
	chats, err := u.watches.WatcherChats(ctx, a.SourceID)
	if err != nil {
		u.log.Error().Err(err).Str("source_id", a.SourceID).Msg("could not list watcher chats")
		return
	}
	for _, chat := range chats {
		if err := u.notifier.NotifyTranslated(ctx, chat, a); err != nil {
			u.log.Error().Err(err).Int64("chat_id", chat).Msg("watcher notification failed")
		}
	}
}

func syntheticFailed(processing *model.Activity, completedAt time.Time, detail string) *model.Activity {
	failed := *processing
	failed.TranslationStatus = model.TranslationFailed
	failed.StatusDetail = detail
	failed.TranslationCompletedAt = &completedAt
	failed.TranslatedBody = nil
	return &failed
}

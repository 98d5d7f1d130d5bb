package repository

import (
	"context"
	"time"

	"repolingo/internal/domain/model"
)

// ActivityRepository persists per-activity translation state. Every method
// resolves its database handle through the TransactionManager's ambient
// scope, so calls participate in whatever transaction the caller established.
//
// The four Mark operations are the only way translation state advances. Each
// one is an atomic update that returns the full row as persisted.
type ActivityRepository interface {
	Save(ctx context.Context, a *model.Activity) error
	FindByID(ctx context.Context, activityID string) (*model.Activity, error)
	// FindForUser fetches an activity only when userID watches its source;
	// otherwise domain.ErrNotFound.
	FindForUser(ctx context.Context, userID, activityID string) (*model.Activity, error)

	// MarkQueued resets a (re)requested activity to queued: stores the
	// request time and queue message id, clears the started/completed
	// timestamps and diagnostic. A previously translated body is left in
	// place until the new attempt completes.
	MarkQueued(ctx context.Context, activityID string, requestedAt time.Time, messageID string) (*model.Activity, error)
	MarkProcessing(ctx context.Context, activityID string, startedAt time.Time, messageID string) (*model.Activity, error)
	MarkCompleted(ctx context.Context, activityID, translatedBody string, completedAt time.Time) (*model.Activity, error)
	MarkFailed(ctx context.Context, activityID string, completedAt time.Time, statusDetail string) (*model.Activity, error)
}

// WatchRepository persists the user→source watch relation.
type WatchRepository interface {
	Save(ctx context.Context, w *model.Watch) error
	// WatcherChats lists the notification chat ids of everyone watching a
	// source, skipping watchers without one.
	WatcherChats(ctx context.Context, sourceID string) ([]int64, error)
}

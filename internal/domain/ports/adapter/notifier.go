package adapter

import (
	"context"

	"repolingo/internal/domain/model"
)

// WatcherNotifier tells a watcher that an activity's translation finished.
// Delivery is best-effort; a failed notification never fails the job.
type WatcherNotifier interface {
	NotifyTranslated(ctx context.Context, chatID int64, activity *model.Activity) error
}

package notify

import (
	"context"

	"github.com/rs/zerolog"

	"repolingo/internal/domain/model"
	"repolingo/internal/domain/ports/adapter"
)

var _ adapter.WatcherNotifier = (*NoopNotifier)(nil)

// NoopNotifier logs instead of sending; used in dev mode or when no
// messenger is configured.
type NoopNotifier struct {
	log *zerolog.Logger
}

func NewNoopNotifier(logger *zerolog.Logger) *NoopNotifier {
	return &NoopNotifier{log: logger}
}

func (n *NoopNotifier) NotifyTranslated(ctx context.Context, chatID int64, a *model.Activity) error {
	n.log.Info().Int64("chat_id", chatID).Str("activity_id", a.ID).Msg("[noop-notify] translation ready")
	return nil
}

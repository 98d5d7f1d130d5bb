package adapter

import (
	"context"
	"time"
)

// TranslationJob is the queue message payload.
type TranslationJob struct {
	ActivityID     string `json:"activityId"`
	TargetLanguage string `json:"targetLanguage,omitempty"`
}

// JobQueue is the producer side of the external at-least-once message
// transport. Enqueue returns the transport's opaque message identifier.
type JobQueue interface {
	Enqueue(ctx context.Context, job TranslationJob) (messageID string, err error)
}

// JobMessage is one delivered queue entry.
type JobMessage struct {
	ID  string
	Job TranslationJob
}

// JobSource is the consumer side. Fetch blocks up to block for new or
// redelivered entries; entries stay pending until acked, so anything not
// acked comes back.
type JobSource interface {
	Fetch(ctx context.Context, max int, block time.Duration) ([]JobMessage, error)
	Ack(ctx context.Context, messageIDs ...string) error
}

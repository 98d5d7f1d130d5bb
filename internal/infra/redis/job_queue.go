package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"repolingo/internal/domain/ports/adapter"
)

var (
	_ adapter.JobQueue  = (*JobQueue)(nil)
	_ adapter.JobSource = (*JobQueue)(nil)
)

// JobQueue is the translation job transport on a Redis stream with a
// consumer group. The stream entry ID doubles as the opaque message
// identifier callers store in translation state. Entries stay in the group's
// pending list until acked, and stale pending entries (a crashed consumer,
// an unacked failure) are reclaimed on Fetch, which is what gives the
// at-least-once behavior the worker's idempotency guard assumes.
type JobQueue struct {
	client   RedisClient
	stream   string
	group    string
	consumer string
	minIdle  time.Duration
}

func NewJobQueue(ctx context.Context, client RedisClient, stream, group, consumer string, reclaimIdle time.Duration) (*JobQueue, error) {
	if stream == "" {
		stream = "translation:jobs"
	}
	if group == "" {
		group = "translators"
	}
	if reclaimIdle <= 0 {
		reclaimIdle = time.Minute
	}
	if err := client.XGroupCreate(ctx, stream, group); err != nil {
		return nil, err
	}
	return &JobQueue{
		client:   client,
		stream:   stream,
		group:    group,
		consumer: consumer,
		minIdle:  reclaimIdle,
	}, nil
}

func (q *JobQueue) Enqueue(ctx context.Context, job adapter.TranslationJob) (string, error) {
	values := map[string]interface{}{"activityId": job.ActivityID}
	if job.TargetLanguage != "" {
		values["targetLanguage"] = job.TargetLanguage
	}
	return q.client.XAdd(ctx, q.stream, values)
}

func (q *JobQueue) Fetch(ctx context.Context, max int, block time.Duration) ([]adapter.JobMessage, error) {
	// Reclaim stale pending entries first so work lost by a crashed consumer
	// gets redelivered before fresh entries.
	claimed, err := q.client.XAutoClaim(ctx, q.stream, q.group, q.consumer, q.minIdle, int64(max))
	if err != nil {
		return nil, err
	}
	if len(claimed) > 0 {
		return toJobMessages(claimed), nil
	}

	msgs, err := q.client.XReadGroup(ctx, q.stream, q.group, q.consumer, int64(max), block)
	if err != nil {
		return nil, err
	}
	return toJobMessages(msgs), nil
}

func (q *JobQueue) Ack(ctx context.Context, messageIDs ...string) error {
	if len(messageIDs) == 0 {
		return nil
	}
	return q.client.XAck(ctx, q.stream, q.group, messageIDs...)
}

func toJobMessages(msgs []redis.XMessage) []adapter.JobMessage {
	out := make([]adapter.JobMessage, 0, len(msgs))
	for _, m := range msgs {
		job := adapter.TranslationJob{}
		if v, ok := m.Values["activityId"].(string); ok {
			job.ActivityID = v
		}
		if v, ok := m.Values["targetLanguage"].(string); ok {
			job.TargetLanguage = v
		}
		out = append(out, adapter.JobMessage{ID: m.ID, Job: job})
	}
	return out
}

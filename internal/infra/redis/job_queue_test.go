//go:build !integration

package redis_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"repolingo/internal/domain/ports/adapter"
	redisinfra "repolingo/internal/infra/redis"
)

type fakeRedis struct {
	mu        sync.Mutex
	groups    map[string]bool // "stream/group"
	added     []goredis.XMessage
	pending   []goredis.XMessage // returned by XAutoClaim
	fresh     []goredis.XMessage // returned by XReadGroup
	acked     []string
	nextSeq   int
	addErr    error
	createErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{groups: map[string]bool{}}
}

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }

func (f *fakeRedis) XAdd(ctx context.Context, stream string, values map[string]interface{}) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return "", f.addErr
	}
	f.nextSeq++
	id := fmt.Sprintf("1700000000000-%d", f.nextSeq)
	f.added = append(f.added, goredis.XMessage{ID: id, Values: values})
	return id, nil
}

func (f *fakeRedis) XGroupCreate(ctx context.Context, stream, group string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.groups[stream+"/"+group] = true
	return nil
}

func (f *fakeRedis) XReadGroup(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]goredis.XMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.fresh
	f.fresh = nil
	return out, nil
}

func (f *fakeRedis) XAutoClaim(ctx context.Context, stream, group, consumer string, minIdle time.Duration, count int64) ([]goredis.XMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.pending
	f.pending = nil
	return out, nil
}

func (f *fakeRedis) XAck(ctx context.Context, stream, group string, ids ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, ids...)
	return nil
}

func (f *fakeRedis) Close() error { return nil }

func newQueue(t *testing.T, client *fakeRedis) *redisinfra.JobQueue {
	t.Helper()
	q, err := redisinfra.NewJobQueue(context.Background(), client, "translation:jobs", "translators", "worker-1", time.Minute)
	if err != nil {
		t.Fatalf("NewJobQueue: %v", err)
	}
	return q
}

func TestJobQueue_CreatesConsumerGroup(t *testing.T) {
	client := newFakeRedis()
	newQueue(t, client)
	if !client.groups["translation:jobs/translators"] {
		t.Fatal("queue construction must ensure the consumer group exists")
	}
}

func TestJobQueue_EnqueueReturnsEntryID(t *testing.T) {
	client := newFakeRedis()
	q := newQueue(t, client)

	id, err := q.Enqueue(context.Background(), adapter.TranslationJob{ActivityID: "act-1", TargetLanguage: "fa"})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if id != "1700000000000-1" {
		t.Fatalf("message id = %q, want the stream entry id", id)
	}
	if len(client.added) != 1 {
		t.Fatalf("entries = %d, want 1", len(client.added))
	}
	v := client.added[0].Values
	if v["activityId"] != "act-1" || v["targetLanguage"] != "fa" {
		t.Fatalf("entry values = %v", v)
	}
}

func TestJobQueue_EnqueueOmitsEmptyLanguage(t *testing.T) {
	client := newFakeRedis()
	q := newQueue(t, client)

	if _, err := q.Enqueue(context.Background(), adapter.TranslationJob{ActivityID: "act-1"}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, found := client.added[0].Values["targetLanguage"]; found {
		t.Fatal("empty target language must not be written to the entry")
	}
}

func TestJobQueue_FetchPrefersReclaimedEntries(t *testing.T) {
	client := newFakeRedis()
	client.pending = []goredis.XMessage{
		{ID: "100-0", Values: map[string]interface{}{"activityId": "stale-1", "targetLanguage": "de"}},
	}
	client.fresh = []goredis.XMessage{
		{ID: "200-0", Values: map[string]interface{}{"activityId": "new-1"}},
	}
	q := newQueue(t, client)

	msgs, err := q.Fetch(context.Background(), 10, time.Second)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != "100-0" {
		t.Fatalf("msgs = %v, want the reclaimed pending entry first", msgs)
	}
	if msgs[0].Job.ActivityID != "stale-1" || msgs[0].Job.TargetLanguage != "de" {
		t.Fatalf("parsed job = %+v", msgs[0].Job)
	}

	// Pending drained; the next fetch reads fresh entries.
	msgs, err = q.Fetch(context.Background(), 10, time.Second)
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != "200-0" || msgs[0].Job.ActivityID != "new-1" {
		t.Fatalf("msgs = %v, want the fresh entry", msgs)
	}
	if msgs[0].Job.TargetLanguage != "" {
		t.Fatal("absent targetLanguage field must parse as empty")
	}
}

func TestJobQueue_Ack(t *testing.T) {
	client := newFakeRedis()
	q := newQueue(t, client)

	if err := q.Ack(context.Background()); err != nil {
		t.Fatalf("empty ack: %v", err)
	}
	if len(client.acked) != 0 {
		t.Fatal("empty ack must not hit the transport")
	}

	if err := q.Ack(context.Background(), "1-0", "2-0"); err != nil {
		t.Fatalf("Ack: %v", err)
	}
	if len(client.acked) != 2 || client.acked[0] != "1-0" || client.acked[1] != "2-0" {
		t.Fatalf("acked = %v", client.acked)
	}
}

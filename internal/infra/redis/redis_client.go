package redis

import (
	"context"
	"strings"
	"time"

	"repolingo/internal/config"

	"github.com/go-redis/redis/v8"
)

// RedisClient is the stream surface the queue needs; an interface so the
// queue can be exercised against a fake in tests.
type RedisClient interface {
	Ping(ctx context.Context) error
	XAdd(ctx context.Context, stream string, values map[string]interface{}) (string, error)
	XGroupCreate(ctx context.Context, stream, group string) error
	XReadGroup(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]redis.XMessage, error)
	XAutoClaim(ctx context.Context, stream, group, consumer string, minIdle time.Duration, count int64) ([]redis.XMessage, error)
	XAck(ctx context.Context, stream, group string, ids ...string) error
	Close() error
}

var _ RedisClient = (*redClient)(nil)

type redClient struct {
	cli *redis.Client
}

func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redClient, error) {
	opts := &redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &redClient{cli: c}, nil
}

func (c *redClient) Ping(ctx context.Context) error { return c.cli.Ping(ctx).Err() }

func (c *redClient) XAdd(ctx context.Context, stream string, values map[string]interface{}) (string, error) {
	return c.cli.XAdd(ctx, &redis.XAddArgs{Stream: stream, Values: values}).Result()
}

func (c *redClient) XGroupCreate(ctx context.Context, stream, group string) error {
	// Start at "0" so entries enqueued before the group existed are seen.
	err := c.cli.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && strings.Contains(err.Error(), "BUSYGROUP") {
		return nil // group already exists
	}
	return err
}

func (c *redClient) XReadGroup(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]redis.XMessage, error) {
	streams, err := c.cli.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    count,
		Block:    block,
	}).Result()
	if err == redis.Nil {
		return nil, nil // block timeout, nothing new
	}
	if err != nil {
		return nil, err
	}
	var msgs []redis.XMessage
	for _, s := range streams {
		msgs = append(msgs, s.Messages...)
	}
	return msgs, nil
}

func (c *redClient) XAutoClaim(ctx context.Context, stream, group, consumer string, minIdle time.Duration, count int64) ([]redis.XMessage, error) {
	msgs, _, err := c.cli.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   stream,
		Group:    group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Start:    "0-0",
		Count:    count,
	}).Result()
	if err == redis.Nil {
		return nil, nil
	}
	return msgs, err
}

func (c *redClient) XAck(ctx context.Context, stream, group string, ids ...string) error {
	return c.cli.XAck(ctx, stream, group, ids...).Err()
}

func (c *redClient) Close() error { return c.cli.Close() }

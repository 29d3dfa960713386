package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AdrianDanlos/rythm/internal"
)

// Slot is a data key resolved against the user's version when it was read.
// Writing back to the slot returned by Get means a value computed before an
// Invalidate can never become visible after it. The zero Slot is never
// stored.
type Slot string

// Cache memoises derived per-user results. Invalidate makes every value
// stored for the user before the call unreachable.
type Cache interface {
	Get(ctx context.Context, userID, key string, dst interface{}) (Slot, bool, error)
	Set(ctx context.Context, slot Slot, value interface{}) error
	Invalidate(ctx context.Context, userID string) error
	Close() error
}

const keyPrefix = "rythm"

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger internal.Logger
}

func NewRedisCache(ctx context.Context, opts *redis.Options, ttl time.Duration, logger internal.Logger) (*RedisCache, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}, nil
}

func versionKey(userID string) string {
	return fmt.Sprintf("%s:ver:%s", keyPrefix, userID)
}

// dataKey embeds the user's current version, so bumping the version
// orphans older values until their TTL expires.
func (c *RedisCache) dataKey(ctx context.Context, userID, key string) (Slot, error) {
	ver, err := c.client.Get(ctx, versionKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return Slot(fmt.Sprintf("%s:data:%s:%d:%s", keyPrefix, userID, ver, key)), nil
}

func (c *RedisCache) Get(ctx context.Context, userID, key string, dst interface{}) (Slot, bool, error) {
	slot, err := c.dataKey(ctx, userID, key)
	if err != nil {
		return "", false, err
	}
	raw, err := c.client.Get(ctx, string(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return slot, false, nil
	}
	if err != nil {
		return "", false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warnf("cache: dropping undecodable value %s: %v", slot, err)
		return slot, false, nil
	}
	return slot, true, nil
}

func (c *RedisCache) Set(ctx context.Context, slot Slot, value interface{}) error {
	if slot == "" {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, string(slot), raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Incr(ctx, versionKey(userID)).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string, string, interface{}) (Slot, bool, error) {
	return "", false, nil
}
func (NopCache) Set(context.Context, Slot, interface{}) error { return nil }
func (NopCache) Invalidate(context.Context, string) error     { return nil }
func (NopCache) Close() error                                 { return nil }

// New returns a Redis cache when addr is set and a NopCache otherwise.
func New(ctx context.Context, addr, password string, db int, ttl time.Duration, logger internal.Logger) (Cache, error) {
	if addr == "" || ttl == 0 {
		logger.Info("stats cache disabled")
		return NopCache{}, nil
	}
	c, err := NewRedisCache(ctx, &redis.Options{Addr: addr, Password: password, DB: db}, ttl, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}

var (
	_ Cache = (*RedisCache)(nil)
	_ Cache = NopCache{}
)

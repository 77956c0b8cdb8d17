package corpus

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "newsgraph:corpus:"

// Cache stores built corpora between runs
type Cache interface {
	Get(ctx context.Context, topic string) (string, bool, error)
	Set(ctx context.Context, topic, corpus string) error
}

// RedisCache keeps corpora in Redis with a TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing client
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached corpus; ok is false on a miss
func (c *RedisCache) Get(ctx context.Context, topic string) (string, bool, error) {
	val, err := c.client.Get(ctx, cacheKeyPrefix+topic).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores corpus under the topic key
func (c *RedisCache) Set(ctx context.Context, topic, corpus string) error {
	return c.client.Set(ctx, cacheKeyPrefix+topic, corpus, c.ttl).Err()
}

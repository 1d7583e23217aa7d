package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache backs the Cache contract with Redis, used when the server is
// configured with a redis_url. Keys are namespaced under "fitness:" by
// Key.String(); TTLs are expressed natively as Redis expirations so expired
// entries are reclaimed by Redis itself rather than by a sweep loop.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache constructs a RedisCache from a redis:// URL.
func NewRedisCache(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key Key, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key.String(), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	// Track membership for invalidate-by-user without a full KEYS scan: add the
	// key to a per-(tenant,user) set with the same expiry.
	userSet := userSetKey(key.TenantID, key.UserID)
	pipe := c.client.TxPipeline()
	pipe.SAdd(ctx, userSet, key.String())
	pipe.Expire(ctx, userSet, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis track user set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, key Key) error {
	if err := c.client.Del(ctx, key.String()).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisCache) InvalidateUser(ctx context.Context, tenantID, userID string) error {
	userSet := userSetKey(tenantID, userID)
	members, err := c.client.SMembers(ctx, userSet).Result()
	if err != nil {
		return fmt.Errorf("redis smembers: %w", err)
	}
	if len(members) == 0 {
		return nil
	}
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, members...)
	pipe.Del(ctx, userSet)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis invalidate user: %w", err)
	}
	return nil
}

func userSetKey(tenantID, userID string) string {
	return fmt.Sprintf("fitness:users:%s:%s", tenantID, userID)
}

// Close releases the underlying Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/conversion"
)

// RedisCache implements LookupCache using Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisCacheWithOptions creates a new RedisCache from redis.Options.
func NewRedisCacheWithOptions(
	opt *redis.Options,
	prefix string,
	logger *slog.Logger,
) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	client := redis.NewClient(opt)
	return &RedisCache{client: client, prefix: prefix, logger: logger}
}

// NewRedisCacheFromURL parses a redis:// URL and creates a RedisCache.
func NewRedisCacheFromURL(url, prefix string, logger *slog.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisCacheWithOptions(opt, prefix, logger), nil
}

func (r *RedisCache) key(key string) string {
	return r.prefix + key
}

// Ping verifies the connection.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Get returns nil, nil on a miss. Entries that no longer decode are dropped
// and reported as misses.
func (r *RedisCache) Get(ctx context.Context, key string) (*conversion.LookupResult, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, r.fail("get", key, err)
	}

	var lookup conversion.LookupResult
	if err := json.Unmarshal(raw, &lookup); err != nil {
		r.logger.Warn("Dropping undecodable lookup cache entry", "key", key, "error", err)
		_ = r.client.Del(ctx, r.key(key)).Err()
		return nil, nil
	}
	return &lookup, nil
}

func (r *RedisCache) Set(
	ctx context.Context,
	key string,
	lookup *conversion.LookupResult,
	ttl time.Duration,
) error {
	if lookup == nil {
		return r.Delete(ctx, key)
	}
	data, err := json.Marshal(lookup)
	if err != nil {
		return r.fail("encode", key, err)
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		return r.fail("set", key, err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return r.fail("delete", key, err)
	}
	return nil
}

func (r *RedisCache) fail(op, key string, err error) error {
	r.logger.Error("Redis lookup cache error", "op", op, "key", key, "error", err)
	return fmt.Errorf("redis cache %s %q: %w", op, key, err)
}

var _ cache.LookupCache = (*RedisCache)(nil)

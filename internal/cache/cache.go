package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrCacheNotFound     = errors.New("cache entry not found")
)

// Keys used by the catalog and certificate services.
const (
	KeySymposiumList = "symposium:list"
)

func KeySymposium(id string) string       { return "symposium:id:" + id }
func KeySymposiumEvents(id string) string { return "symposium:events:" + id }
func KeyCertificateCode(code string) string {
	return "certificate:code:" + code
}

// CacheHelper stores JSON values under a common prefix. A helper built with a
// nil client reports every read as a miss and ignores writes.
type CacheHelper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCacheHelper creates a new cache helper instance.
func NewCacheHelper(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *CacheHelper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheHelper{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

// Enabled reports whether a Redis client backs the helper.
func (c *CacheHelper) Enabled() bool {
	return c != nil && c.client != nil
}

// GetCacheKey generates a cache key with prefix.
func (c *CacheHelper) GetCacheKey(key string) string {
	return fmt.Sprintf("%s%s", c.prefix, key)
}

// Get retrieves and unmarshals data from cache.
func (c *CacheHelper) Get(ctx context.Context, key string, dest any) error {
	if !c.Enabled() {
		return ErrCacheNotAvailable
	}

	data, err := c.client.Get(ctx, c.GetCacheKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheNotFound
		}
		return fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache unmarshal: %w", err)
	}
	return nil
}

// Set marshals and stores data using the helper's TTL.
func (c *CacheHelper) Set(ctx context.Context, key string, value any) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	return c.client.Set(ctx, c.GetCacheKey(key), data, c.ttl).Err()
}

// Delete removes the given keys.
func (c *CacheHelper) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}

	cacheKeys := make([]string, len(keys))
	for i, key := range keys {
		cacheKeys[i] = c.GetCacheKey(key)
	}
	return c.client.Del(ctx, cacheKeys...).Err()
}

// SafeDelete deletes keys and logs failures instead of returning them.
func (c *CacheHelper) SafeDelete(ctx context.Context, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		c.logger.Warn("failed to delete cache keys", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Remember returns the cached value for key, or calls load, caches its
// result and returns it. Cache failures fall through to load.
func Remember[T any](ctx context.Context, c *CacheHelper, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	err := c.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheNotAvailable) && !errors.Is(err, ErrCacheNotFound) {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, key, value); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

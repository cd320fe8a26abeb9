package service

import (
	"context"
	"encoding/json"
	"fmt"
	"go-finance-api/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

const summaryCacheTTL = 10 * time.Minute

// ICacheClient defines the contract for a cache client.
// *redis.Client satisfies it; a nil ICacheClient disables caching.
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd
}

func summaryCacheKey(accountID int64, year, month int) string {
	return fmt.Sprintf("summary:%d:%04d-%02d", accountID, year, month)
}

func summaryCachePattern(accountID int64) string {
	return fmt.Sprintf("summary:%d:*", accountID)
}

// cacheGet decodes a cached JSON value into dest. Misses and cache errors
// both report false so callers fall back to the database.
func cacheGet(ctx context.Context, c ICacheClient, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).WithField("key", key).Warn("Cache read failed")
		}
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

func cacheSet(ctx context.Context, c ICacheClient, key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

// cacheInvalidate deletes every key matching pattern.
func cacheInvalidate(ctx context.Context, c ICacheClient, pattern string) {
	if c == nil {
		return
	}
	keys, err := c.Keys(ctx, pattern).Result()
	if err != nil {
		logger.Log.WithError(err).WithField("pattern", pattern).Warn("Cache invalidation failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.Del(ctx, keys...).Err(); err != nil {
		logger.Log.WithError(err).WithField("pattern", pattern).Warn("Cache invalidation failed")
	}
}

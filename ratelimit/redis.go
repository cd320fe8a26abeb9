package ratelimit

import (
	"context"
	"fmt"
	"go-finance-api/logger"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultRedisPrefix = "finance:auth:rl:"

// hitScript counts one hit and reports {hits, remaining window in ms}.
// The expiry is set by the first hit only, so the window is fixed.
var hitScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {hits, redis.call("PTTL", KEYS[1])}
`)

// RedisLimiter keeps its counters in Redis so every API instance shares them.
type RedisLimiter struct {
	client redis.Scripter
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter uses the default key prefix when prefix is empty.
func NewRedisLimiter(client redis.Scripter, limit int, window time.Duration, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisLimiter{client: client, limit: limit, window: window, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, _ time.Time) (bool, time.Duration, error) {
	if l.window < time.Millisecond {
		return false, 0, fmt.Errorf("invalid rate limit window %s", l.window)
	}

	redisKey := l.prefix + key
	log := logger.Log.WithFields(logrus.Fields{
		"key":    redisKey,
		"limit":  l.limit,
		"window": l.window.String(),
	})

	hits, remaining, err := l.hit(ctx, redisKey)
	if err != nil {
		log.WithError(err).Error("Failed to record rate limit hit")
		return false, 0, err
	}

	if hits <= int64(l.limit) {
		return true, 0, nil
	}

	log.WithField("hits", hits).Info("Rate limit exceeded")
	return false, remaining, nil
}

// hit runs the counting script and decodes its reply.
func (l *RedisLimiter) hit(ctx context.Context, key string) (int64, time.Duration, error) {
	reply, err := hitScript.Run(ctx, l.client, []string{key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("run rate limit script: %w", err)
	}
	if len(reply) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit reply %v", reply)
	}

	hits, ttlMS := reply[0], reply[1]
	remaining := time.Duration(ttlMS) * time.Millisecond
	if ttlMS < 0 {
		// The key has no expiry (or vanished between calls); assume a full window.
		remaining = l.window
	}
	return hits, remaining, nil
}

// Package ratelimit throttles requests per key (the client IP for logins).
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether one more request for key is allowed at now.
// When it is not, the returned duration tells the caller how long to wait.
type Limiter interface {
	Allow(ctx context.Context, key string, now time.Time) (bool, time.Duration, error)
}

package utils

import (
	"context" // Context for Redis operations
	"fmt"     // Error wrapping
	"time"    // Window durations

	"github.com/redis/go-redis/v9" // Redis client
)

// ResetThrottle caps how many reset emails one address can trigger per window.
// A nil *ResetThrottle allows everything.
type ResetThrottle struct {
	rdb    *redis.Client // Redis client
	limit  int64         // Requests allowed per window
	window time.Duration // Counting window
}

// NewResetThrottle creates a throttle backed by rdb
func NewResetThrottle(rdb *redis.Client, limit int, window time.Duration) *ResetThrottle {
	return &ResetThrottle{rdb: rdb, limit: int64(limit), window: window}
}

// Allow counts one request for email and reports whether it is within the limit
func (t *ResetThrottle) Allow(ctx context.Context, email string) (bool, error) {
	if t == nil || t.rdb == nil || t.limit <= 0 {
		return true, nil
	}
	key := "reset:email:" + email              // Counter key for this address
	count, err := t.rdb.Incr(ctx, key).Result() // Count this request
	if err != nil {
		return false, fmt.Errorf("reset throttle incr: %w", err)
	}
	// NX on every hit: the first hit opens the window, later hits repair a key
	// whose expiry was never set
	if err := t.rdb.ExpireNX(ctx, key, t.window).Err(); err != nil {
		return false, fmt.Errorf("reset throttle expire: %w", err)
	}
	return count <= t.limit, nil
}

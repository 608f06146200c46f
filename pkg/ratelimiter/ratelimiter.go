package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitError carries how long the caller should wait before retrying.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// Limiter is a fixed-window counter backed by redis. With a nil client it
// allows everything, so the API keeps working without redis.
type Limiter struct {
	rdb    *redis.Client
	window time.Duration
	max    int64
}

func New(rdb *redis.Client, window time.Duration, max int64) *Limiter {
	return &Limiter{rdb: rdb, window: window, max: max}
}

// Allow counts a hit for key within the current window. It returns a
// *RateLimitError once the window's budget is spent.
func (l *Limiter) Allow(ctx context.Context, key string) error {
	if l == nil || l.rdb == nil {
		return nil
	}

	redisKey := fmt.Sprintf("rate_limit:%s", key)

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	if count == 1 {
		// First hit opens the window.
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	if count > l.max {
		ttl, err := l.rdb.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return &RateLimitError{
			Message:    "too many attempts, please try again later",
			RetryAfter: ttl,
		}
	}

	return nil
}

// Clear removes the window for key, e.g. after a successful login.
func (l *Limiter) Clear(ctx context.Context, key string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, fmt.Sprintf("rate_limit:%s", key)).Err()
}

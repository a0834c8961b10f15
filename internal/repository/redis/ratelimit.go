package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shoplane/support-chat/internal/domain"
)

// rateLimitPrefix scopes limiter keys away from the FAQ cache keys
const rateLimitPrefix = "chat:ratelimit:"

// rateLimitWindow is the length of one counting window
const rateLimitWindow = time.Minute

// RateLimiter throttles the public chat surface with a sliding window
// approximated from two adjacent fixed counters: the previous window's count
// is weighted by how much of it still overlaps the sliding window. Two
// integers per client, no per-request timestamps.
type RateLimiter struct {
	client            *Client
	requestsPerMinute int
	burst             int
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client:            client,
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
	}
}

// Allow checks whether a request from the keyed client should be allowed.
// Returns (allowed, remaining, resetTime, error). Storage failures surface as
// ErrUnavailable so the middleware can decide to fail open.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	now := time.Now()
	currStart := now.Truncate(rateLimitWindow)
	prevStart := currStart.Add(-rateLimitWindow)

	pipe := r.client.rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, windowKey(key, currStart))
	// Keep the counter around long enough to weigh it as the previous window
	pipe.ExpireNX(ctx, windowKey(key, currStart), 2*rateLimitWindow)
	prevCmd := pipe.Get(ctx, windowKey(key, prevStart))

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return false, 0, time.Time{}, fmt.Errorf("rate limit check: %v: %w", err, domain.ErrUnavailable)
	}

	prev, _ := prevCmd.Int64() // redis.Nil means no previous window
	count := weightedCount(prev, incrCmd.Val(), now.Sub(currStart), rateLimitWindow)

	limit := int64(r.requestsPerMinute + r.burst)
	remaining := int(limit - count)
	if remaining < 0 {
		remaining = 0
	}

	return count <= limit, remaining, currStart.Add(rateLimitWindow), nil
}

// Reset clears both counting windows for a key
func (r *RateLimiter) Reset(ctx context.Context, key string) error {
	currStart := time.Now().Truncate(rateLimitWindow)
	return r.client.rdb.Del(ctx,
		windowKey(key, currStart),
		windowKey(key, currStart.Add(-rateLimitWindow)),
	).Err()
}

func windowKey(key string, windowStart time.Time) string {
	return fmt.Sprintf("%s%s:%d", rateLimitPrefix, key, windowStart.Unix())
}

// weightedCount slides the window: the previous counter contributes the
// fraction of its window that the sliding window still covers.
func weightedCount(prev, curr int64, elapsed, window time.Duration) int64 {
	if window <= 0 {
		return curr
	}
	overlap := float64(window-elapsed) / float64(window)
	if overlap < 0 {
		overlap = 0
	}
	return curr + int64(float64(prev)*overlap)
}

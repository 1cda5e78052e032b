package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitConfig is a request budget per fixed window
type RateLimitConfig struct {
	Key    string
	Limit  int
	Window time.Duration
}

// NFLVerseRateLimit is the budget shared by every nflepa process
// downloading GitHub release assets
var NFLVerseRateLimit = RateLimitConfig{
	Key:    "nflverse",
	Limit:  30,
	Window: time.Minute,
}

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter counts requests in fixed windows keyed in Redis so that the
// export job, the API server and ad hoc CLI runs share one budget
// ⭐ SSOT: shared rate limiting lives here
type RateLimiter struct {
	client *Client
	prefix string
}

// NewRateLimiter creates a limiter whose keys live under prefix
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix}
}

func (r *RateLimiter) windowKey(cfg RateLimitConfig, now time.Time) string {
	slot := now.UnixMilli() / cfg.Window.Milliseconds()
	return fmt.Sprintf("%s:ratelimit:%s:%d", r.prefix, cfg.Key, slot)
}

// Allow takes one request from the current window.
// A disabled client always allows.
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (Decision, error) {
	if !r.client.Enabled() {
		return Decision{Allowed: true, Remaining: cfg.Limit}, nil
	}

	key := r.windowKey(cfg, time.Now())

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := r.client.Redis().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit %s: %w", cfg.Key, err)
	}

	// first hit in this window sets the expiry
	remainingTTL := ttl.Val()
	if remainingTTL < 0 {
		if err := r.client.Redis().PExpire(ctx, key, cfg.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("rate limit %s: %w", cfg.Key, err)
		}
		remainingTTL = cfg.Window
	}

	count := int(incr.Val())
	if count > cfg.Limit {
		return Decision{RetryAfter: remainingTTL}, nil
	}
	return Decision{Allowed: true, Remaining: cfg.Limit - count}, nil
}

// Wait blocks until the window admits a request or ctx ends
func (r *RateLimiter) Wait(ctx context.Context, cfg RateLimitConfig) error {
	for {
		d, err := r.Allow(ctx, cfg)
		if err != nil {
			return err
		}
		if d.Allowed {
			return nil
		}

		timer := time.NewTimer(d.RetryAfter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

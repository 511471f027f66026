package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"
)

// Limiter gates message sends per sender. The messaging core only requires a
// distinct rejection kind; the policy lives here, outside the core.
type Limiter interface {
	// Allow returns nil when the key may proceed, or a RateLimited error.
	Allow(ctx context.Context, key string) error
}

// RedisLimiter is a fixed-window counter in Redis keyed by sender.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisLimiter reads RATE_LIMIT_MAX (default 30) and RATE_LIMIT_WINDOW_SEC
// (default 60) from the environment.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	limit := int64(30)
	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	window := 60 * time.Second
	if v := os.Getenv("RATE_LIMIT_WINDOW_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			window = time.Duration(n) * time.Second
		}
	}
	return &RedisLimiter{client: client, limit: limit, window: window}
}

var _ Limiter = (*RedisLimiter)(nil)

func (l *RedisLimiter) Allow(ctx context.Context, key string) error {
	redisKey := fmt.Sprintf("ratelimit:%s", key)
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		// A broken limiter must not take messaging down with it.
		slog.Warn("rate limiter unavailable, allowing request", "key", key, "err", err)
		return nil
	}
	if count == 1 {
		l.client.Expire(ctx, redisKey, l.window)
	}
	if count > l.limit {
		return apperrors.RateLimited("too many messages, slow down")
	}
	return nil
}

// NopLimiter allows everything; used when Redis is not configured.
type NopLimiter struct{}

func (NopLimiter) Allow(ctx context.Context, key string) error { return nil }

package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter per client key. The window is
// wall-clock based, so a burst straddling a window boundary can admit up to
// twice the ceiling; that is a known property of fixed windows, accepted
// here. The read-then-increment pair can also race across workers, which is
// tolerated as best-effort limiting.
type RedisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

func (r *RedisLimiter) Allow(ctx context.Context, clientKey string, ceiling int, window time.Duration) (bool, error) {
	key := "ratelimit:" + clientKey

	val, err := r.client.Get(ctx, key).Int()
	if err != nil && err != redis.Nil {
		return false, err
	}
	if err == nil && val >= ceiling {
		// Denied requests leave the counter untouched.
		return false, nil
	}

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		r.client.Expire(ctx, key, window)
	}
	return true, nil
}

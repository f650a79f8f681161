package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript keeps one sorted-set member per accepted attempt,
// scored by its millisecond timestamp. It returns {allowed, resetAtMillis}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local nowMs = tonumber(ARGV[1])
local windowMs = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', nowMs - windowMs)

if redis.call('ZCARD', key) >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local resetMs = nowMs + windowMs
    if #oldest >= 2 then
        resetMs = tonumber(oldest[2]) + windowMs
    end
    return {0, resetMs}
end

redis.call('ZADD', key, nowMs, member)
redis.call('PEXPIRE', key, windowMs + 1000)
return {1, nowMs + windowMs}
`)

// RateLimiter is a sliding window limiter shared across instances via Redis.
type RateLimiter struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

func NewRateLimiter(client redis.Scripter, prefix string) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix, now: time.Now}
}

// Key returns the Redis key used for an identifier.
func (rl *RateLimiter) Key(key string) string {
	return fmt.Sprintf("ratelimit:%s:%s", rl.prefix, key)
}

// CheckLimit reports whether another attempt is allowed. Redis failures
// fail open so an outage does not lock every admin out.
func (rl *RateLimiter) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Time) {
	now := rl.now()

	result, err := slidingWindowScript.Run(
		ctx,
		rl.client,
		[]string{rl.Key(key)},
		now.UnixMilli(),
		window.Milliseconds(),
		limit,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		ctxLogger(ctx).Warn().Err(err).Str("key", key).Msg("rate limit check failed, allowing request")
		return true, now.Add(window)
	}
	if len(result) != 2 {
		ctxLogger(ctx).Warn().Str("key", key).Msg("unexpected rate limit result, allowing request")
		return true, now.Add(window)
	}

	return result[0] == 1, time.UnixMilli(result[1])
}

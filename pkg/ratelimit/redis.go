package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ Limiter = (*RedisLimiter)(nil)

// Sliding window over a sorted set scored by unix milliseconds.
// KEYS[1] = window key
// ARGV[1] = limit, ARGV[2] = window ms, ARGV[3] = now ms, ARGV[4] = unique member
// Returns: {allowed (0|1), count, oldest score}
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
    redis.call('ZADD', key, now, ARGV[4])
    count = count + 1
    allowed = 1
end
redis.call('PEXPIRE', key, window)

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local oldestScore = now
if oldest[2] then
    oldestScore = tonumber(oldest[2])
end
return {allowed, count, oldestScore}
`)

// RedisLimiter shares the sliding window between instances through Redis.
type RedisLimiter struct {
	client *redis.Client
	config Config
	now    func() time.Time
}

// NewRedisLimiter creates a Redis-backed sliding window limiter.
func NewRedisLimiter(client *redis.Client, cfg Config, now func() time.Time) *RedisLimiter {
	if now == nil {
		now = time.Now
	}
	return &RedisLimiter{
		client: client,
		config: cfg,
		now:    now,
	}
}

// Allow runs the check-and-record atomically on the server.
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := rl.now()
	fullKey := rl.config.KeyPrefix + key

	raw, err := slidingWindowScript.Run(ctx, rl.client, []string{fullKey},
		rl.config.Limit,
		rl.config.Window.Milliseconds(),
		now.UnixMilli(),
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("sliding window script failed for key %v: %w", fullKey, err)
	}
	if len(raw) < 3 {
		return Result{}, fmt.Errorf("unexpected redis result for key %v: %v", fullKey, raw)
	}

	return Result{
		Allowed: raw[0] == 1,
		Count:   int(raw[1]),
		Limit:   rl.config.Limit,
		ResetAt: time.UnixMilli(raw[2]).Add(rl.config.Window),
	}, nil
}

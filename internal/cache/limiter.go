package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-console/internal/config"
)

// tokenBucket refills and spends one token atomically. It returns
// {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])
if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals * refill_tokens)
		last_refill = last_refill + intervals * interval_ms
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)
return {allowed, tokens, retry_after_ms}
`)

// Limiter throttles login attempts per username. A nil *Limiter allows
// everything.
type Limiter struct {
	rdb *redis.Client
	cfg config.RateLimitConfig
	now func() time.Time
}

// NewLoginLimiter returns nil unless cfg is enabled and rdb is available.
func NewLoginLimiter(rdb *redis.Client, cfg config.RateLimitConfig) *Limiter {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 5
	}
	if cfg.RefillTokens <= 0 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Minute
	}
	if cfg.TTL < time.Second {
		cfg.TTL = 15 * time.Minute
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "login"
	}
	return &Limiter{rdb: rdb, cfg: cfg, now: time.Now}
}

// Allow spends one attempt for username. When the bucket is empty it
// returns false and the time until the next token. Redis failures let the
// attempt through and are returned for logging.
func (l *Limiter) Allow(ctx context.Context, username string) (bool, time.Duration, error) {
	if l == nil {
		return true, 0, nil
	}
	key := l.cfg.Prefix + ":user:" + username
	vals, err := tokenBucket.Run(ctx, l.rdb, []string{key},
		l.now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillTokens,
		l.cfg.RefillInterval.Milliseconds(),
		int64(l.cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return true, 0, fmt.Errorf("login limiter %s: %w", key, err)
	}
	if len(vals) != 3 {
		return true, 0, fmt.Errorf("login limiter %s: unexpected result of length %d", key, len(vals))
	}
	if vals[0] == 1 {
		return true, 0, nil
	}
	return false, time.Duration(vals[2]) * time.Millisecond, nil
}

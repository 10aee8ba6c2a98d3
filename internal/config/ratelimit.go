package config

import "time"

// RateLimitConfig throttles login attempts per username with a token
// bucket kept in Redis. The bucket starts with Capacity tokens; one
// attempt costs one token and RefillTokens come back every RefillInterval.
// Buckets idle for TTL are dropped. The limiter is inactive unless Enabled
// is set and a Redis client is available.
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Capacity       int           `mapstructure:"capacity"`
	RefillTokens   int           `mapstructure:"refill_tokens"`
	RefillInterval time.Duration `mapstructure:"refill_interval"`
	TTL            time.Duration `mapstructure:"ttl"`
	Prefix         string        `mapstructure:"prefix"`
}

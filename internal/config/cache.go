package config

import "time"

// CacheConfig defines settings for the lookup cache. Caching is disabled
// when no Redis client is available.  TTL defines the lifetime of cache
// entries and Prefix namespaces the keys.
type CacheConfig struct {
	TTL    time.Duration `mapstructure:"ttl"`
	Prefix string        `mapstructure:"prefix"`
}

package config

// This file defines a Redis client constructor for the application.  Redis
// backs the repertoire and price lookup cache.  If the connection fails
// during startup, the function returns nil and callers degrade gracefully by
// querying the database directly.

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection settings of the optional cache server.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NewRedisClient instantiates a Redis client from cfg.  The returned client
// is nil when caching is disabled or the server cannot be reached.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	// Ping the server with a short timeout.  Return nil on failure.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}

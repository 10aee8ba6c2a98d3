// Package config loads the database configuration document and the optional
// cache, event and access settings that accompany it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/iliyamo/cinema-console/internal/model"
)

// EnvPrefix namespaces environment overrides, e.g. CINEMA_HOST or
// CINEMA_LOG_LEVEL.
const EnvPrefix = "CINEMA"

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid configuration")
	// ErrMissingCredential is returned when a role has no configured password.
	ErrMissingCredential = errors.New("no stored credential for role")
)

// Config holds everything read from db_config.yaml.
type Config struct {
	Host        string            `mapstructure:"host"`
	Port        int               `mapstructure:"port"`
	Database    string            `mapstructure:"database"`
	Credentials map[string]string `mapstructure:"credentials"` // role name -> database password
	Log         LogConfig         `mapstructure:"log"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Events      EventsConfig      `mapstructure:"events"`
	Access      AccessConfig      `mapstructure:"access"`
	LoginLimit  RateLimitConfig   `mapstructure:"login_limit"`
}

// LogConfig selects the zap level and where log lines go. Output is a file
// path or "stderr"/"stdout".
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// EventsConfig points at the RabbitMQ broker receiving ticket events. An
// empty AMQPURL disables publishing.
type EventsConfig struct {
	AMQPURL string `mapstructure:"amqp_url"`
	Queue   string `mapstructure:"queue"`
}

// AccessConfig is the optional per-verb capability table. When Enforce is
// false every verb is available to every role and the database grants are
// the only enforcement.
type AccessConfig struct {
	Enforce bool                `mapstructure:"enforce"`
	Verbs   map[string][]string `mapstructure:"verbs"`
}

// LoadEnv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// Load reads the YAML document at path, applies CINEMA_* environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 3306)
	v.SetDefault("database", "cinema")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "cinema.log")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("cache.prefix", "cache")

	v.SetDefault("events.amqp_url", "")
	v.SetDefault("events.queue", "tickets.events")

	v.SetDefault("access.enforce", false)

	v.SetDefault("login_limit.enabled", false)
	v.SetDefault("login_limit.capacity", 5)
	v.SetDefault("login_limit.refill_tokens", 1)
	v.SetDefault("login_limit.refill_interval", time.Minute)
	v.SetDefault("login_limit.ttl", 15*time.Minute)
	v.SetDefault("login_limit.prefix", "login")
}

// Validate checks the fields the bootstrap session cannot do without.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Host) == "":
		return fmt.Errorf("%w: host is required", ErrInvalid)
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, c.Port)
	case strings.TrimSpace(c.Database) == "":
		return fmt.Errorf("%w: database is required", ErrInvalid)
	}
	if _, ok := c.Credentials[string(model.RoleInit)]; !ok {
		return fmt.Errorf("%w: credentials.%s is required", ErrInvalid, model.RoleInit)
	}
	return nil
}

// Endpoint returns the database target shared by every session.
func (c Config) Endpoint() (model.Endpoint, error) {
	return model.NewEndpoint(c.Host, c.Port, c.Database)
}

// RoleCredentials returns the stored database login of role. Role accounts
// are named after the role itself.
func (c Config) RoleCredentials(role model.Role) (model.Credentials, error) {
	pass, ok := c.Credentials[strings.ToLower(string(role))]
	if !ok {
		return model.Credentials{}, fmt.Errorf("%w %q", ErrMissingCredential, role)
	}
	cred, err := model.NewCredentials(string(role), pass)
	if err != nil {
		return model.Credentials{}, fmt.Errorf("credential for role %q: %w", role, err)
	}
	return cred, nil
}

// Package config provides Viper-based configuration management for adminctl
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid marks a configuration that loaded but failed validation.
var ErrInvalid = errors.New("invalid configuration")

// Session storage backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config represents the complete adminctl configuration
type Config struct {
	API           APIConfig           `mapstructure:"api"`
	Session       SessionConfig       `mapstructure:"session"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Output        OutputConfig        `mapstructure:"output"`
}

// APIConfig points at the admin backend
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig selects where the session record is persisted
type SessionConfig struct {
	Backend  string        `mapstructure:"backend"`
	Path     string        `mapstructure:"path"`
	RedisURL string        `mapstructure:"redis_url"`
	Name     string        `mapstructure:"name"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// CacheConfig tunes the resource engine
type CacheConfig struct {
	MaxEntries int                      `mapstructure:"max_entries"`
	Stale      map[string]time.Duration `mapstructure:"stale"`
}

// NotificationsConfig tunes the notification queue
type NotificationsConfig struct {
	Capacity int           `mapstructure:"capacity"`
	Duration time.Duration `mapstructure:"duration"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// Load reads configuration from file and environment variables
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".adminctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/adminctl")
	}

	// ADMINCTL_API_BASE_URL overrides api.base_url
	v.SetEnvPrefix("ADMINCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout", 15*time.Second)

	v.SetDefault("session.backend", BackendFile)
	v.SetDefault("session.path", "")
	v.SetDefault("session.redis_url", "redis://localhost:6379/0")
	v.SetDefault("session.name", "default")
	v.SetDefault("session.ttl", 12*time.Hour)

	v.SetDefault("cache.max_entries", 256)
	v.SetDefault("cache.stale", map[string]any{"dashboard": "5m"})

	v.SetDefault("notifications.capacity", 3)
	v.SetDefault("notifications.duration", 4*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("output.colors", true)
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url must be an http(s) URL, got %q", ErrInvalid, cfg.API.BaseURL)
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", ErrInvalid)
	}

	switch cfg.Session.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if cfg.Session.RedisURL == "" {
			return fmt.Errorf("%w: session.redis_url is required for the redis backend", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: session.backend %q (must be file, redis, or memory)", ErrInvalid, cfg.Session.Backend)
	}
	if cfg.Session.TTL < 0 {
		return fmt.Errorf("%w: session.ttl must not be negative", ErrInvalid)
	}

	if cfg.Cache.MaxEntries <= 0 {
		return fmt.Errorf("%w: cache.max_entries must be positive", ErrInvalid)
	}
	for t, d := range cfg.Cache.Stale {
		if d < 0 {
			return fmt.Errorf("%w: cache.stale.%s must not be negative", ErrInvalid, t)
		}
	}

	if cfg.Notifications.Capacity <= 0 {
		return fmt.Errorf("%w: notifications.capacity must be positive", ErrInvalid)
	}
	if cfg.Notifications.Duration <= 0 {
		return fmt.Errorf("%w: notifications.duration must be positive", ErrInvalid)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("%w: logging level %s (must be debug, info, warn, or error)", ErrInvalid, cfg.Logging.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("%w: logging format %s (must be text or json)", ErrInvalid, cfg.Logging.Format)
	}

	return nil
}

// Package config handles monbillet-proxy configuration from the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/Sternrassler/monbillet-client/pkg/client"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// Config holds all proxy configuration.
type Config struct {
	APIKey       string `env:"MB_API_KEY"`
	BaseURL      string `env:"MB_API_BASE_URL" envDefault:"https://monbillet.ch/api/v1/"`
	CacheDir     string `env:"MB_CACHE_DIR"`
	CacheMinutes int    `env:"MB_CACHE_EXPIRE_MINUTES" envDefault:"10"`
	RedisURL     string `env:"MB_REDIS_URL"`

	Timeout  time.Duration `env:"MB_TIMEOUT" envDefault:"30s"`
	Timezone string        `env:"MB_TIMEZONE"`

	// WarmCron is a standard 5-field cron schedule for cache warm-up.
	// Empty disables warm-up.
	WarmCron string `env:"MB_WARM_CRON"`

	Port      int    `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY"`
}

// Load reads dotenvPath (when it exists) into the process environment
// without overriding variables already set, then parses the environment.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
func (c *Config) Validate() error {
	if c.CacheMinutes < 0 {
		return fmt.Errorf("MB_CACHE_EXPIRE_MINUTES must be >= 0, got %d", c.CacheMinutes)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("MB_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1-65535, got %d", c.Port)
	}
	if c.RedisURL != "" {
		if _, err := redis.ParseURL(c.RedisURL); err != nil {
			return fmt.Errorf("invalid MB_REDIS_URL: %w", err)
		}
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid MB_TIMEZONE: %w", err)
		}
	}
	if c.WarmCron != "" {
		if _, err := cron.ParseStandard(c.WarmCron); err != nil {
			return fmt.Errorf("invalid MB_WARM_CRON: %w", err)
		}
	}
	return nil
}

// HasAPIKey returns true if a token is configured. Without one the proxy
// only serves what is already cached.
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// ClientConfig builds the library configuration. The Redis client is
// attached by the caller when RedisURL is set.
func (c *Config) ClientConfig() client.Config {
	cfg := client.DefaultConfig(c.APIKey, c.CacheDir)
	cfg.BaseURL = c.BaseURL
	cfg.CacheExpire = time.Duration(c.CacheMinutes) * time.Minute
	cfg.Timeout = c.Timeout
	cfg.UserAgent = "monbillet-proxy/1.0"
	if c.Timezone != "" {
		// Validated by Validate.
		if loc, err := time.LoadLocation(c.Timezone); err == nil {
			cfg.Location = loc
		}
	}
	return cfg
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

package client

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Sternrassler/monbillet-client/pkg/cache"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public monbillet API root.
	DefaultBaseURL = "https://monbillet.ch/api/v1/"

	// HeaderName carries the API token on every authenticated request.
	HeaderName = "X-Monbillet-Api-Token"

	// DefaultCacheExpire is how long a cached response counts as fresh.
	DefaultCacheExpire = 10 * time.Minute

	// DefaultTimeout bounds every remote request.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "monbillet-client/1.0"
)

// Config holds the client configuration. It is copied by New and never
// changes afterwards.
type Config struct {
	// APIToken is sent in the X-Monbillet-Api-Token header. Empty means no
	// credential: the client then only serves what is already cached.
	APIToken string

	// BaseURL is the API root, e.g. "https://monbillet.ch/api/v1/".
	BaseURL string

	// Caching. The first non-empty option wins: Store, Redis, CacheRoot.
	// With none of them set caching is disabled.
	Store       cache.Store
	Redis       *redis.Client
	CacheRoot   string        // entries go below <CacheRoot>/monbillet-api-client
	CacheExpire time.Duration // 0 means every entry is stale

	// Timeout applies uniformly to every remote request.
	Timeout time.Duration

	UserAgent string

	// Location is used for dates that carry no offset (default time.Local).
	Location *time.Location
}

// DefaultConfig returns a configuration for the public API with a file
// cache below cacheRoot ("" disables caching).
func DefaultConfig(apiToken, cacheRoot string) Config {
	return Config{
		APIToken:    apiToken,
		BaseURL:     DefaultBaseURL,
		CacheRoot:   cacheRoot,
		CacheExpire: DefaultCacheExpire,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		Location:    time.Local,
	}
}

// normalize validates cfg and fills in defaults.
func (cfg Config) normalize() (Config, error) {
	if cfg.BaseURL == "" {
		return cfg, fmt.Errorf("base url is required")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return cfg, fmt.Errorf("invalid base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return cfg, fmt.Errorf("base url must be an absolute http(s) url (got %q)", cfg.BaseURL)
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}

	if cfg.CacheExpire < 0 {
		return cfg, fmt.Errorf("cache expiry must be >= 0 (got %s)", cfg.CacheExpire)
	}

	if cfg.Timeout < 0 {
		return cfg, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return cfg, nil
}

// newStore builds the cache store selected by cfg, or nil when caching is
// disabled.
func (cfg Config) newStore(logger zerolog.Logger) (cache.Store, error) {
	switch {
	case cfg.Store != nil:
		return cfg.Store, nil
	case cfg.Redis != nil:
		return cache.NewRedisStore(cfg.Redis, cfg.CacheExpire, logger), nil
	case cfg.CacheRoot != "":
		store, err := cache.NewFileStore(cfg.CacheRoot, cfg.CacheExpire, logger)
		if err != nil {
			return nil, fmt.Errorf("create file cache: %w", err)
		}
		return store, nil
	default:
		return nil, nil
	}
}

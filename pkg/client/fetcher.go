package client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Sternrassler/monbillet-client/pkg/cache"
	"github.com/Sternrassler/monbillet-client/pkg/jsonvalue"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// FetchResults counts GetResource outcomes by where the data came from:
// "cache", "remote", "stale" (cached data kept after a 204) or "none".
var FetchResults = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "monbillet_fetch_results_total",
	Help: "Total resource fetches by data source",
}, []string{"source"})

// Fetcher returns the raw JSON body of a resource, reading through the
// cache. It does not decode or reshape the payload.
type Fetcher struct {
	store     cache.Store // nil when caching is disabled
	transport *transport
	token     string
	baseURL   string
	logger    zerolog.Logger
}

// NewFetcher creates a Fetcher for cfg. A nil store disables caching.
func NewFetcher(cfg Config, store cache.Store, logger zerolog.Logger) (*Fetcher, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		store:     store,
		transport: newTransport(cfg, logger),
		token:     cfg.APIToken,
		baseURL:   cfg.BaseURL,
		logger:    logger,
	}, nil
}

// GetResource returns the body for url.
//
// Cached data is used when it is fresh. The remote is called only when a
// token is configured and the cache has nothing, or only expired data. A
// 204 keeps whatever was cached. A fresh body must be valid JSON and
// replaces the cache entry. When no data is available at all a NotFound
// error wrapping ErrNothingToShow is returned.
func (f *Fetcher) GetResource(ctx context.Context, url string) ([]byte, error) {
	path := strings.TrimPrefix(url, f.baseURL)
	endpoint := endpointLabel(path)
	key := cache.KeyFor(path, f.token)
	logger := f.logger.With().Str("endpoint", endpoint).Logger()

	data := f.readCache(ctx, key, logger)

	source := "cache"
	if f.token != "" && (data == nil || f.store.IsExpired(ctx, key)) {
		body, status, err := f.transport.fetch(ctx, url, endpoint)
		if err != nil {
			return nil, err
		}

		if status == http.StatusNoContent {
			logger.Debug().Bool("cached", data != nil).Msg("204 No Content - keeping cached data")
			source = "stale"
		} else {
			data = body
			source = "remote"
		}
	}

	if len(data) == 0 {
		FetchResults.WithLabelValues("none").Inc()
		return nil, &APIError{
			Kind:    KindNotFound,
			URL:     url,
			Message: "nothing to show for resource " + url,
			Err:     ErrNothingToShow,
		}
	}

	if source == "remote" {
		if !jsonvalue.Valid(data) {
			monbilletErrorsTotal.WithLabelValues(string(KindDecode)).Inc()
			return nil, &APIError{
				Kind:    KindDecode,
				URL:     url,
				Message: "error decoding JSON from " + url,
				Err:     jsonvalue.ErrInvalidJSON,
			}
		}

		if f.store != nil {
			if err := f.store.Write(ctx, key, data); err != nil {
				logger.Warn().Err(err).Msg("Failed to cache response")
			}
		}
	}

	FetchResults.WithLabelValues(source).Inc()
	logger.Debug().Str("source", source).Int("bytes", len(data)).Msg("Resource resolved")

	return data, nil
}

// readCache returns the cached body for key, or nil on a miss. Entries that
// are not valid JSON count as a miss.
func (f *Fetcher) readCache(ctx context.Context, key cache.CacheKey, logger zerolog.Logger) []byte {
	if f.store == nil {
		return nil
	}

	data, err := f.store.Read(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("Cache read error")
		}
		return nil
	}

	if !jsonvalue.Valid(data) {
		cache.CacheCorrupt.Inc()
		logger.Warn().Str("cache_key", key.String()).Msg("Ignoring corrupt cache entry")
		return nil
	}

	return data
}

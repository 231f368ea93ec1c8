// Package client provides the monbillet API client with read-through
// caching, date normalization, and a typed error taxonomy.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Sternrassler/monbillet-client/pkg/cache"
	"github.com/Sternrassler/monbillet-client/pkg/jsonvalue"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client is the main monbillet client. It holds no mutable state after New
// and is safe for concurrent use.
type Client struct {
	fetcher *Fetcher
	store   cache.Store
	config  Config
	logger  zerolog.Logger
}

// New creates a new monbillet client.
func New(cfg Config) (*Client, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	// Initialize logger
	logger := log.With().Str("component", "monbillet-client").Logger()

	store, err := cfg.newStore(logger)
	if err != nil {
		return nil, err
	}
	if store == nil {
		logger.Debug().Msg("Caching disabled")
	}

	fetcher, err := NewFetcher(cfg, store, logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		fetcher: fetcher,
		store:   store,
		config:  cfg,
		logger:  logger,
	}, nil
}

// Events returns the "events" array of the event list.
func (c *Client) Events(ctx context.Context, opts ListOptions) (jsonvalue.Value, error) {
	return c.list(ctx, "events", "events", opts)
}

// EventGroups returns the "event-groups" array of the event group list.
func (c *Client) EventGroups(ctx context.Context, opts ListOptions) (jsonvalue.Value, error) {
	return c.list(ctx, "event-groups", "event-groups", opts)
}

// Event returns the "event" object for one event.
func (c *Client) Event(ctx context.Context, id string) (jsonvalue.Value, error) {
	return c.one(ctx, "events", "event", id)
}

// EventGroup returns the "event-groups" object for one event group.
func (c *Client) EventGroup(ctx context.Context, id string) (jsonvalue.Value, error) {
	return c.one(ctx, "event-groups", "event-groups", id)
}

func (c *Client) list(ctx context.Context, resource, field string, opts ListOptions) (jsonvalue.Value, error) {
	query, err := opts.Query()
	if err != nil {
		return jsonvalue.Null(), err
	}
	return c.get(ctx, resource+query, field)
}

func (c *Client) one(ctx context.Context, resource, field, id string) (jsonvalue.Value, error) {
	if err := ValidateIdentifier(id); err != nil {
		return jsonvalue.Null(), err
	}
	return c.get(ctx, resource+"/"+id, field)
}

// get fetches path, extracts field from the top-level object and
// normalizes its dates.
func (c *Client) get(ctx context.Context, path, field string) (jsonvalue.Value, error) {
	url := c.config.BaseURL + path

	data, err := c.fetcher.GetResource(ctx, url)
	if err != nil {
		return jsonvalue.Null(), err
	}

	payload, err := jsonvalue.Parse(data)
	if err != nil {
		return jsonvalue.Null(), &APIError{
			Kind:    KindDecode,
			URL:     url,
			Message: "error decoding JSON from " + url,
			Err:     err,
		}
	}

	value, ok := payload.Get(field)
	if !ok {
		return jsonvalue.Null(), &APIError{
			Kind:    KindDecode,
			URL:     url,
			Message: fmt.Sprintf("response from %s has no %q member", url, field),
		}
	}

	normalized, err := NormalizeDates(value, c.config.Location)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			apiErr.URL = url
		}
		return jsonvalue.Null(), err
	}

	return normalized, nil
}

// ClearCache removes every cache entry. It is a no-op when caching is
// disabled or the cache is already empty.
func (c *Client) ClearCache(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	startTime := time.Now()
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Failed to clear cache")
		return err
	}

	c.logger.Info().Dur("duration", time.Since(startTime)).Msg("Cache cleared")
	return nil
}

// Close releases client resources. A Redis client passed in Config stays
// owned by the caller.
func (c *Client) Close() error {
	c.fetcher.transport.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.fetcher.transport.httpClient = client
}

// Store returns the cache store in use, or nil when caching is disabled.
func (c *Client) Store() cache.Store {
	return c.store
}

// Config returns the normalized configuration.
func (c *Client) Config() Config {
	return c.config
}

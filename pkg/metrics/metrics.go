// Package metrics exposes the Prometheus registry used by the monbillet
// client. Metrics are defined next to the code that records them (client,
// cache) and registered via promauto; this package serves them and
// documents the catalogue.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the monbillet client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer paired with Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the HTTP handler serving every registered metric.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - monbillet_requests_total{endpoint, status} (Counter): Remote requests by endpoint template and HTTP status
//   - monbillet_request_duration_seconds{endpoint} (Histogram): Remote request duration
//   - monbillet_errors_total{kind} (Counter): Errors by kind (forbidden, not_found, http, internal_server, decode, network)
//   - monbillet_fetch_results_total{source} (Counter): Resolved fetches by source (cache, remote, stale, none)
//
// Cache Metrics (pkg/cache):
//   - monbillet_cache_hits_total{backend} (Counter): Cache hits by backend (file, redis)
//   - monbillet_cache_misses_total{backend} (Counter): Cache misses by backend
//   - monbillet_cache_writes_total{backend} (Counter): Entries written by backend
//   - monbillet_cache_corrupt_total (Counter): Cached bodies ignored because they were not valid JSON
//   - monbillet_cache_clears_total{backend} (Counter): Full cache clears
//   - monbillet_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(monbillet_cache_hits_total[5m])) /
//   (sum(rate(monbillet_cache_hits_total[5m])) + sum(rate(monbillet_cache_misses_total[5m])))
//
//   # Stale answers served after 204
//   rate(monbillet_fetch_results_total{source="stale"}[5m])
//
//   # Request Error Rate
//   sum by (kind) (rate(monbillet_errors_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(monbillet_request_duration_seconds_bucket[5m]))

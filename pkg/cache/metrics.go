package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by backend
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monbillet_cache_hits_total",
			Help: "Total number of monbillet cache hits",
		},
		[]string{"backend"}, // "file", "redis"
	)

	// CacheMisses tracks cache misses by backend
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monbillet_cache_misses_total",
			Help: "Total number of monbillet cache misses",
		},
		[]string{"backend"},
	)

	// CacheWrites tracks entries written by backend
	CacheWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monbillet_cache_writes_total",
			Help: "Total number of monbillet cache entries written",
		},
		[]string{"backend"},
	)

	// CacheCorrupt tracks cached bodies discarded because they were not valid JSON
	CacheCorrupt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "monbillet_cache_corrupt_total",
			Help: "Total number of cached bodies ignored because they were not valid JSON",
		},
	)

	// CacheClears tracks full cache clears by backend
	CacheClears = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monbillet_cache_clears_total",
			Help: "Total number of full cache clears",
		},
		[]string{"backend"},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monbillet_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "read", "write", "clear"
	)
)

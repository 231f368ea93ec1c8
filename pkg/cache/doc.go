// Package cache provides the response cache used by the monbillet client.
//
// The cache is a flat key to JSON-blob store. Entries are addressed by a
// CacheKey digest derived from the API token and the request path, and their
// age is the time since they were last written. Reads never filter on age:
// the client decides, per request, whether a stale entry should be refreshed.
//
// Two backends implement Store:
//
//   - FileStore: one file per entry at
//     <root>/monbillet-api-client/<digest>/cache.json, written atomically.
//   - RedisStore: one hash per entry at monbillet-api-client:<digest>, for
//     deployments where several processes share a cache.
//
// # Basic Usage
//
//	store, err := cache.NewFileStore("/var/cache/app", 10*time.Minute, logger)
//	if err != nil {
//		return err
//	}
//
//	key := cache.KeyFor("events?withDetails=true", token)
//
//	data, err := store.Read(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// Cache miss - fetch from the API
//	}
//
//	if store.IsExpired(ctx, key) {
//		// Entry is older than the expiry window
//	}
//
// # Redis Backend
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	store := cache.NewRedisStore(redisClient, 10*time.Minute, logger)
//
// # Metrics
//
// Both backends export Prometheus metrics:
//
//   - monbillet_cache_hits_total{backend} - Cache hits
//   - monbillet_cache_misses_total{backend} - Cache misses
//   - monbillet_cache_writes_total{backend} - Entries written
//   - monbillet_cache_corrupt_total - Cached bodies ignored as invalid JSON
//   - monbillet_cache_clears_total{backend} - Full clears
//   - monbillet_cache_errors_total{operation} - Cache operation errors
package cache

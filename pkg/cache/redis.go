package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Hash fields of a Redis entry.
const (
	redisFieldBody     = "body"
	redisFieldModified = "modified"
)

// RedisStore keeps entries in Redis so several processes can share one
// cache. Each entry is a hash holding the raw body and its last write time
// in unix nanoseconds; keys never expire on their own.
type RedisStore struct {
	redis  *redis.Client
	prefix string
	expire time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(redisClient *redis.Client, expire time.Duration, logger zerolog.Logger) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis:  redisClient,
		prefix: Namespace + ":",
		expire: expire,
		now:    time.Now,
		logger: logger.With().Str("cache_backend", "redis").Logger(),
	}
}

func (s *RedisStore) redisKey(key CacheKey) string {
	return s.prefix + key.String()
}

// Read implements Store.
func (s *RedisStore) Read(ctx context.Context, key CacheKey) ([]byte, error) {
	data, err := s.redis.HGet(ctx, s.redisKey(key), redisFieldBody).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.WithLabelValues("redis").Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("read").Inc()
		return nil, fmt.Errorf("redis hget: %w", err)
	}

	CacheHits.WithLabelValues("redis").Inc()
	s.logger.Debug().Str("cache_key", key.String()).Int("bytes", len(data)).Msg("Cache hit")
	return data, nil
}

// Write implements Store. Body and timestamp are set in one HSET so they
// always change together.
func (s *RedisStore) Write(ctx context.Context, key CacheKey, data []byte) error {
	err := s.redis.HSet(ctx, s.redisKey(key),
		redisFieldBody, data,
		redisFieldModified, s.now().UnixNano(),
	).Err()
	if err != nil {
		CacheErrors.WithLabelValues("write").Inc()
		return fmt.Errorf("redis hset: %w", err)
	}

	CacheWrites.WithLabelValues("redis").Inc()
	s.logger.Debug().Str("cache_key", key.String()).Int("bytes", len(data)).Msg("Cached response")
	return nil
}

// IsExpired implements Store.
func (s *RedisStore) IsExpired(ctx context.Context, key CacheKey) bool {
	modified, err := s.redis.HGet(ctx, s.redisKey(key), redisFieldModified).Int64()
	if err != nil {
		return true
	}
	return s.now().After(time.Unix(0, modified).Add(s.expire))
}

// Clear implements Store by deleting every key under the namespace prefix.
func (s *RedisStore) Clear(ctx context.Context) error {
	var batch []string
	deleted := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.redis.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		deleted += len(batch)
		batch = batch[:0]
		return nil
	}

	iter := s.redis.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			if err := flush(); err != nil {
				CacheErrors.WithLabelValues("clear").Inc()
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		CacheErrors.WithLabelValues("clear").Inc()
		return fmt.Errorf("redis scan: %w", err)
	}
	if err := flush(); err != nil {
		CacheErrors.WithLabelValues("clear").Inc()
		return err
	}

	CacheClears.WithLabelValues("redis").Inc()
	s.logger.Info().Int("deleted", deleted).Msg("Cache cleared")
	return nil
}

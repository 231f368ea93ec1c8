package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const entryFileName = "cache.json"

// FileStore keeps one file per entry at <root>/monbillet-api-client/<digest>/cache.json.
// The file's modification time is the only staleness signal.
type FileStore struct {
	root   string
	expire time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewFileStore creates a file store below cacheRoot. The store always
// works inside the Namespace subdirectory so it never touches unrelated
// files at cacheRoot.
func NewFileStore(cacheRoot string, expire time.Duration, logger zerolog.Logger) (*FileStore, error) {
	if cacheRoot == "" {
		return nil, fmt.Errorf("cache root is required")
	}
	if expire < 0 {
		return nil, fmt.Errorf("cache expiry must be >= 0 (got %s)", expire)
	}

	return &FileStore{
		root:   filepath.Join(cacheRoot, Namespace),
		expire: expire,
		now:    time.Now,
		logger: logger.With().Str("cache_backend", "file").Logger(),
	}, nil
}

// Root returns the namespaced directory holding all entries.
func (s *FileStore) Root() string {
	return s.root
}

func (s *FileStore) entryPath(key CacheKey) string {
	return filepath.Join(s.root, key.String(), entryFileName)
}

// Read implements Store.
func (s *FileStore) Read(ctx context.Context, key CacheKey) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			CacheMisses.WithLabelValues("file").Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("read").Inc()
		return nil, fmt.Errorf("read cache entry: %w", err)
	}

	CacheHits.WithLabelValues("file").Inc()
	s.logger.Debug().Str("cache_key", key.String()).Int("bytes", len(data)).Msg("Cache hit")
	return data, nil
}

// Write implements Store. The entry is written to a temporary file in the
// same directory and renamed into place, so concurrent readers see either
// the old or the new content.
func (s *FileStore) Write(ctx context.Context, key CacheKey, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		CacheErrors.WithLabelValues("write").Inc()
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := path + ".tmp." + uuid.NewString()
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		CacheErrors.WithLabelValues("write").Inc()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		CacheErrors.WithLabelValues("write").Inc()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename cache entry: %w", err)
	}

	CacheWrites.WithLabelValues("file").Inc()
	s.logger.Debug().Str("cache_key", key.String()).Int("bytes", len(data)).Msg("Cached response")
	return nil
}

// IsExpired implements Store.
func (s *FileStore) IsExpired(_ context.Context, key CacheKey) bool {
	info, err := os.Stat(s.entryPath(key))
	if err != nil {
		return true
	}
	return s.now().After(info.ModTime().Add(s.expire))
}

// Clear implements Store by deleting the namespaced root recursively.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := removeTree(s.root); err != nil {
		CacheErrors.WithLabelValues("clear").Inc()
		return fmt.Errorf("clear cache: %w", err)
	}

	CacheClears.WithLabelValues("file").Inc()
	s.logger.Info().Str("root", s.root).Msg("Cache cleared")
	return nil
}

// removeTree deletes path and everything below it. Symlinks are removed as
// leaves and never followed. A missing path is not an error.
func removeTree(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := removeTree(filepath.Join(path, entry.Name())); err != nil {
				return err
			}
		}
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

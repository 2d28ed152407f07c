// Package cache implements a persistent memoizing key/value cache backed by
// a directory tree.
//
// A Cache is generic over its key and value types; the mapping from keys to
// files and the (de)serialization of values are supplied by a Strategy. The
// presence of the derived file is the sole source of truth for membership:
// there is no manifest, no TTL and no content hash. A cached entry stays
// valid until its file is deleted.
//
// The check-then-act sequence in Get is not atomic. The cache assumes a
// single writer and a single process per root directory (see Builder).
package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrNotFound indicates a direct read of a key whose derived file is absent.
var ErrNotFound = errors.New("cache entry not found")

// Strategy supplies the key-specific behavior a Cache needs: a deterministic
// mapping from keys to relative file paths, value (de)serialization, and the
// expensive fallback computation run on a miss.
type Strategy[K, V any] interface {
	// KeyPath derives the file path for key, relative to the cache root.
	KeyPath(key K) string
	// Save writes value to the file at path.
	Save(path string, value V) error
	// Load reads the value stored at path.
	Load(path string) (V, error)
	// Compute produces the value for key when it is not cached.
	Compute(key K) (V, error)
}

// Cache is a disk-backed memoizing key/value store.
type Cache[K, V any] struct {
	root     string
	strategy Strategy[K, V]
	logger   *slog.Logger
}

// New constructs a cache rooted at dir, creating the directory if absent.
func New[K, V any](dir string, strategy Strategy[K, V]) (*Cache[K, V], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache root: %w", err)
	}
	return &Cache[K, V]{
		root:     dir,
		strategy: strategy,
		logger:   slog.Default(),
	}, nil
}

// WithLogger sets a custom logger.
func (c *Cache[K, V]) WithLogger(logger *slog.Logger) *Cache[K, V] {
	c.logger = logger
	return c
}

// Root returns the cache root directory.
func (c *Cache[K, V]) Root() string { return c.root }

func (c *Cache[K, V]) path(key K) string {
	return filepath.Join(c.root, filepath.FromSlash(c.strategy.KeyPath(key)))
}

// Get returns the cached value for key, computing and storing it first if
// the key is not cached. On a hit Compute is never called; on a miss it is
// called exactly once. A present but unreadable file is an error, not a miss.
func (c *Cache[K, V]) Get(key K) (V, error) {
	value, err := c.Lookup(key)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return value, err
	}
	value, err = c.Compute(key)
	if err != nil {
		return value, err
	}
	if err := c.Put(key, value); err != nil {
		return value, err
	}
	return value, nil
}

// Lookup reads the stored value for key without ever computing. It returns
// ErrNotFound when the derived file does not exist; a load failure on a
// present file is surfaced as-is, never treated as a miss.
func (c *Cache[K, V]) Lookup(key K) (V, error) {
	path := c.path(key)
	if _, err := os.Stat(path); err != nil {
		var zero V
		if os.IsNotExist(err) {
			return zero, fmt.Errorf("%w: %s", ErrNotFound, c.strategy.KeyPath(key))
		}
		return zero, fmt.Errorf("failed to stat cache entry: %w", err)
	}
	return c.strategy.Load(path)
}

// Put stores value for key unconditionally, creating parent directories as
// needed and overwriting any existing entry.
func (c *Cache[K, V]) Put(key K, value V) error {
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache entry directory: %w", err)
	}
	return c.strategy.Save(path, value)
}

// Delete removes the entry for key. Deleting an absent key is a no-op.
func (c *Cache[K, V]) Delete(key K) error {
	path := c.path(key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Contains reports whether key is cached. Membership is decided by file
// existence alone, independent of whether the value was ever loaded.
func (c *Cache[K, V]) Contains(key K) bool {
	_, err := os.Stat(c.path(key))
	return err == nil
}

// Compute runs the strategy's fallback for key without touching the store.
// Exposed so callers can pair an explicit Contains pre-check with Put and
// report progress before any write happens.
func (c *Cache[K, V]) Compute(key K) (V, error) {
	c.logger.Debug("Computing cache entry", "key", c.strategy.KeyPath(key))
	return c.strategy.Compute(key)
}

package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when a cached entry exists but has
// exceeded its time-to-live (TTL). The stale entry stays on disk until the
// next [Cache.Set] for the same key overwrites it.
var ErrExpired = errors.New("cache entry expired")

// Cache provides file-based caching of arbitrary JSON-marshalable data.
//
// Each entry is one JSON file in the cache directory, named after the
// SHA-256 of its key. Entry age is taken from the file modification time;
// a TTL of 0 means entries never expire.
//
// Cache operations are not goroutine-safe. Multiple Cache instances (even in
// different processes) can share the same directory.
//
// Use [Cache.Namespace] to create scoped views that prefix keys:
//
//	meta := cache.Namespace("maven-metadata:")
//	meta.Set("org.slf4j:slf4j-api", versions)
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates a Cache that stores entries in dir with the given TTL.
//
// If dir is empty, [DefaultDir] is used. The directory is created with mode
// 0755 if it doesn't exist; creation failure is the only error source.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// DefaultDir returns the default HTTP cache directory,
// $XDG_CACHE_HOME/jarwalk/http or ~/.cache/jarwalk/http.
func DefaultDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "jarwalk", "http"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "jarwalk", "http"), nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the time-to-live duration for cache entries.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves a cached value by key and unmarshals it into v.
//
// Return values:
//   - (true, nil): hit, v is populated.
//   - (false, nil): miss, v is unchanged.
//   - (false, ErrExpired): entry exists but exceeded its TTL.
//   - (false, other error): I/O or JSON error.
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(c.prefix + key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores v under key, overwriting any existing entry and resetting its age.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(c.prefix+key), data, 0o644)
}

// Delete removes the entry for key. Deleting a missing key is not an error.
func (c *Cache) Delete(key string) error {
	err := os.Remove(c.keyPath(c.prefix + key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes every entry file in the cache directory and returns the
// number of entries removed. Namespaces share one directory, so Clear on
// any view empties all of them.
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err == nil {
			count++
		}
	}
	return count, nil
}

// Namespace returns a view of the cache that prefixes all keys with prefix.
// Views share the directory and TTL of their parent and can be chained.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{
		dir:    c.dir,
		ttl:    c.ttl,
		prefix: c.prefix + prefix,
	}
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}

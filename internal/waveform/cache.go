package waveform

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/maauso/recut/internal/storage"
)

// ErrCache is returned when a cache entry cannot be read or written.
var ErrCache = errors.New("waveform cache error")

// Cache stores Data as JSON files named <key>_<resolution>.json under a
// single directory. It holds no state besides the directory, so callers
// own its lifetime.
type Cache struct {
	dir   string
	store storage.Storage
}

// NewCache creates a Cache rooted at dir.
func NewCache(dir string, store storage.Storage) *Cache {
	if store == nil {
		store = storage.NewLocalStorage()
	}
	return &Cache{dir: dir, store: store}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Key returns the hex SHA-256 of the file at path.
func (c *Cache) Key(ctx context.Context, path string) (string, error) {
	r, err := c.store.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (c *Cache) path(key string, res Resolution) string {
	return filepath.Join(c.dir, key+"_"+string(res)+".json")
}

// Get returns the cached entry for key and res. A missing entry yields
// (nil, false, nil).
func (c *Cache) Get(ctx context.Context, key string, res Resolution) (*Data, bool, error) {
	r, err := c.store.Open(ctx, c.path(key, res))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %w", ErrCache, err)
	}
	defer func() { _ = r.Close() }()

	var data Data
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, false, fmt.Errorf("%w: decode %s: %w", ErrCache, c.path(key, res), err)
	}
	return &data, true, nil
}

// Put stores data under key.
func (c *Cache) Put(ctx context.Context, key string, data *Data) error {
	err := c.store.WriteAtomic(ctx, c.path(key, data.Resolution), func(w io.WriteSeeker) error {
		return json.NewEncoder(w).Encode(data)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCache, err)
	}
	return nil
}

// Invalidate removes every resolution cached for key.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	paths := make([]string, 0, len(Resolutions))
	for _, res := range Resolutions {
		paths = append(paths, c.path(key, res))
	}
	if err := c.store.Remove(ctx, paths); err != nil {
		return fmt.Errorf("%w: %w", ErrCache, err)
	}
	return nil
}

// Clear removes the cache directory and everything in it.
func (c *Cache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("%w: %w", ErrCache, err)
	}
	return nil
}

package statsbomb

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/zstd"
)

// Cache keeps raw event bodies zstd-compressed on disk, one file per match
// under dir/events/{id}.json.zst.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir. The directory is created lazily.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) path(matchID int64) string {
	return filepath.Join(c.dir, "events", strconv.FormatInt(matchID, 10)+".json.zst")
}

// Has reports whether a body is cached for the match.
func (c *Cache) Has(matchID int64) bool {
	_, err := os.Stat(c.path(matchID))
	return err == nil
}

// Get returns the cached body. ok is false when nothing is cached.
func (c *Cache) Get(matchID int64) (body []byte, ok bool, err error) {
	f, err := os.Open(c.path(matchID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, false, fmt.Errorf("zstd: %w", err)
	}
	defer dec.Close()

	body, err = io.ReadAll(dec)
	if err != nil {
		return nil, false, fmt.Errorf("read cache: %w", err)
	}
	return body, true, nil
}

// Put compresses and stores body, replacing any previous entry atomically.
func (c *Cache) Put(matchID int64, body []byte) error {
	dst := c.path(matchID)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".events-*.zst")
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc, err := zstd.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("zstd: %w", err)
	}
	if _, err := enc.Write(body); err != nil {
		enc.Close()
		tmp.Close()
		return fmt.Errorf("write cache: %w", err)
	}
	if err := enc.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("install cache file: %w", err)
	}
	return nil
}

// Remove deletes the cached body for the match, if any.
func (c *Cache) Remove(matchID int64) error {
	err := os.Remove(c.path(matchID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache: %w", err)
	}
	return nil
}

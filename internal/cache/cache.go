// Package cache stores per-file analysis results on disk, keyed by path
// and validated against a hash of the file content.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/panbanda/handover/pkg/models"
	"github.com/zeebo/blake3"
)

// schemaVersion is mixed into every file name. Bump it when
// models.FileAnalysis changes shape.
const schemaVersion = 1

const entryExt = ".json"

// Cache keeps one JSON entry per analyzed file. A nil or disabled Cache
// misses every lookup and stores nothing.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// entry is the on-disk form of a cached analysis.
type entry struct {
	Key      string          `json:"key"`
	Hash     string          `json:"hash"`
	Stored   time.Time       `json:"stored"`
	Analysis json.RawMessage `json:"analysis"`
}

// New opens the cache in dir, creating it when enabled. Entries older than
// ttlHours are treated as misses.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// Enabled reports whether the cache reads and writes entries.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// Dir is the directory entries are stored in.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// HashBytes is the hex BLAKE3 digest entries are validated with.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// LoadAnalysis returns the analysis stored for key when it was produced
// from identical content and has not expired. Expired and unreadable
// entries are removed.
func (c *Cache) LoadAnalysis(key string, content []byte) (*models.FileAnalysis, bool) {
	if !c.Enabled() {
		return nil, false
	}

	path := c.entryPath(key)
	e, err := readEntry(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			os.Remove(path)
		}
		return nil, false
	}
	if c.expired(e) {
		os.Remove(path)
		return nil, false
	}
	if e.Key != key || e.Hash != HashBytes(content) {
		return nil, false
	}

	var fa models.FileAnalysis
	models.EmptyStructure().Apply(&fa)
	if err := json.Unmarshal(e.Analysis, &fa); err != nil {
		os.Remove(path)
		return nil, false
	}
	fa.Content = string(content)
	return &fa, true
}

// StoreAnalysis records fa as the analysis of content at key.
func (c *Cache) StoreAnalysis(key string, content []byte, fa *models.FileAnalysis) error {
	if !c.Enabled() {
		return nil
	}
	analysis, err := json.Marshal(fa)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry{
		Key:      key,
		Hash:     HashBytes(content),
		Stored:   time.Now(),
		Analysis: analysis,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(c.entryPath(key), data, 0o600)
}

// Invalidate drops the entry for key, if any.
func (c *Cache) Invalidate(key string) error {
	if !c.Enabled() {
		return nil
	}
	err := os.Remove(c.entryPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes every entry and leaves the directory in place.
func (c *Cache) Clear() error {
	if !c.Enabled() {
		return nil
	}
	_, err := c.removeWhere(func(string) bool { return true })
	return err
}

// Prune removes expired and unreadable entries and returns how many
// were removed.
func (c *Cache) Prune() (int, error) {
	if !c.Enabled() {
		return 0, nil
	}
	return c.removeWhere(func(path string) bool {
		e, err := readEntry(path)
		return err != nil || c.expired(e)
	})
}

func (c *Cache) removeWhere(match func(path string) bool) (int, error) {
	paths, err := c.entries()
	if err != nil {
		return 0, err
	}
	var errs []error
	removed := 0
	for _, p := range paths {
		if !match(p) {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// entries lists the entry files in the cache directory.
func (c *Cache) entries() ([]string, error) {
	dirents, err := os.ReadDir(c.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, d := range dirents {
		if d.Type().IsRegular() && filepath.Ext(d.Name()) == entryExt {
			paths = append(paths, filepath.Join(c.dir, d.Name()))
		}
	}
	return paths, nil
}

func (c *Cache) expired(e *entry) bool {
	return c.ttl > 0 && time.Since(e.Stored) > c.ttl
}

// entryPath names the entry file for key.
func (c *Cache) entryPath(key string) string {
	sum := xxhash.Sum64String(strconv.Itoa(schemaVersion) + ":" + key)
	return filepath.Join(c.dir, strconv.FormatUint(sum, 16)+entryExt)
}

func readEntry(path string) (*entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Stats summarizes the cache directory.
type Stats struct {
	Dir       string        `json:"dir"`
	Entries   int           `json:"entries"`
	Expired   int           `json:"expired"`
	TotalSize int64         `json:"total_size"`
	OldestAge time.Duration `json:"oldest_age"`
	NewestAge time.Duration `json:"newest_age"`
}

// GetStats counts entries and their size. Ages come from the time each
// entry was stored.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.Enabled() {
		return &Stats{}, nil
	}

	paths, err := c.entries()
	if err != nil {
		return nil, err
	}

	stats := &Stats{Dir: c.dir}
	var oldest, newest time.Time
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalSize += info.Size()

		stored := info.ModTime()
		if e, err := readEntry(p); err == nil {
			stored = e.Stored
			if c.expired(e) {
				stats.Expired++
			}
		}
		if oldest.IsZero() || stored.Before(oldest) {
			oldest = stored
		}
		if newest.IsZero() || stored.After(newest) {
			newest = stored
		}
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
		stats.NewestAge = time.Since(newest)
	}
	return stats, nil
}

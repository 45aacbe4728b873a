// Package iconcache memoizes icon-name lookups for the process lifetime
// and persists them between runs.
package iconcache

import (
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-yaml"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/koompi/file-manager/internal/errors"
	"github.com/koompi/file-manager/internal/fsutil"
	"github.com/koompi/file-manager/internal/logging"
)

const fileVersion = 1

// cacheFile is the on-disk layout. An empty path records a failed lookup.
type cacheFile struct {
	Version int               `yaml:"version"`
	Icons   map[string]string `yaml:"icons"`
}

// Cache maps icon names to resolved paths. Negative results are kept
// too, so a missing icon is searched for at most once per run.
type Cache struct {
	path     string
	searcher Searcher
	entries  sync.Map // name -> path ("" when not found)
	inflight singleflight.Group
	dirty    atomic.Bool
	searches atomic.Int64
}

// Open loads the cache file at path. A missing or unreadable file yields
// an empty cache. An empty path gives a purely in-memory cache.
func Open(path string, searcher Searcher) *Cache {
	c := &Cache{path: path, searcher: searcher}
	if path == "" {
		return c
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("icon cache unreadable, starting empty",
				logging.Err(apperrors.NewCacheIOError("load_cache", path, err)))
		}
		return c
	}

	var file cacheFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		logging.Warn("icon cache corrupt, starting empty",
			logging.Err(apperrors.NewCacheIOError("load_cache", path, err)))
		return c
	}
	for name, resolved := range file.Icons {
		c.entries.Store(name, resolved)
	}
	logging.Debug("icon cache loaded", logging.String("path", path), logging.Int("entries", len(file.Icons)))
	return c
}

// Resolve returns the path for name, searching on first use only.
// Concurrent first lookups of one name share a single search.
func (c *Cache) Resolve(name string) (string, bool) {
	if v, ok := c.entries.Load(name); ok {
		p := v.(string)
		return p, p != ""
	}

	v, _, _ := c.inflight.Do(name, func() (interface{}, error) {
		if v, ok := c.entries.Load(name); ok {
			return v, nil
		}
		c.searches.Add(1)
		resolved := ""
		if c.searcher != nil {
			if p, ok := c.searcher.Search(name); ok {
				resolved = p
			}
		}
		actual, loaded := c.entries.LoadOrStore(name, resolved)
		if !loaded {
			c.dirty.Store(true)
		}
		return actual, nil
	})
	p := v.(string)
	return p, p != ""
}

// Len returns the number of memoized names, negatives included.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Searches returns how many uncached lookups were performed.
func (c *Cache) Searches() int64 {
	return c.searches.Load()
}

func (c *Cache) snapshot() cacheFile {
	file := cacheFile{Version: fileVersion, Icons: map[string]string{}}
	c.entries.Range(func(k, v interface{}) bool {
		file.Icons[k.(string)] = v.(string)
		return true
	})
	return file
}

// Flush writes the cache file if anything changed since the last write.
func (c *Cache) Flush() error {
	if c.path == "" || !c.dirty.Swap(false) {
		return nil
	}
	file := c.snapshot()
	data, err := yaml.MarshalWithOptions(file, yaml.Indent(2))
	if err == nil {
		err = fsutil.WriteFileAtomic(c.path, data, 0o644)
	}
	if err != nil {
		c.dirty.Store(true)
		return apperrors.NewCacheIOError("save_cache", c.path, err)
	}
	logging.Debug("icon cache saved", logging.String("path", c.path), logging.Int("entries", len(file.Icons)))
	return nil
}

// Close flushes the cache. Callers log the error; it is never fatal.
func (c *Cache) Close() error {
	return c.Flush()
}

// Names returns the memoized names in order.
func (c *Cache) Names() []string {
	var names []string
	c.entries.Range(func(k, _ interface{}) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names
}

package pipeline

import (
	"sync"

	"github.com/theirongolddev/pvmdash/internal/source"
)

// Cache owns the process-wide dataset. The table is loaded on first use and
// only replaced by an explicit Reload.
type Cache struct {
	mu         sync.Mutex
	path       string
	opts       source.Options
	last       *LoadResult
	generation uint64
}

// NewCache returns a cache for the input table at path.
func NewCache(path string, opts source.Options) *Cache {
	return &Cache{path: path, opts: opts}
}

// Get returns the cached load result, loading it once if needed.
func (c *Cache) Get() (*LoadResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last != nil {
		return c.last, nil
	}
	return c.loadLocked()
}

// Reload reads the input again and swaps the table in. On failure the
// previous table stays cached and the error is returned.
func (c *Cache) Reload() (*LoadResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

// Generation increments every time a new table is swapped in.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Path is the input path the cache reads.
func (c *Cache) Path() string { return c.path }

func (c *Cache) loadLocked() (*LoadResult, error) {
	lr, err := Load(c.path, c.opts)
	if err != nil {
		return nil, err
	}
	c.last = lr
	c.generation++
	return lr, nil
}

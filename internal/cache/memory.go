package cache

import (
	"iter"
	"maps"
	"slices"

	"github.com/Norgate-AV/openit/internal/desktop"
)

// MemoryCache is a plain map that is never persisted and never goes stale.
type MemoryCache struct {
	entries map[string]*desktop.File
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*desktop.File)}
}

func (c *MemoryCache) Load() error { return nil }

func (c *MemoryCache) Save() error { return nil }

func (c *MemoryCache) Get(path string) (*desktop.File, bool) {
	f, ok := c.entries[path]
	return f, ok
}

func (c *MemoryCache) Insert(path string, file *desktop.File) {
	c.entries[path] = file
}

func (c *MemoryCache) Remove(path string) (*desktop.File, bool) {
	f, ok := c.entries[path]
	delete(c.entries, path)
	return f, ok
}

func (c *MemoryCache) Clear() { clear(c.entries) }

func (c *MemoryCache) IsEmpty() bool { return len(c.entries) == 0 }

func (c *MemoryCache) Len() int { return len(c.entries) }

func (c *MemoryCache) All() iter.Seq2[string, *desktop.File] {
	return func(yield func(string, *desktop.File) bool) {
		for _, path := range slices.Sorted(maps.Keys(c.entries)) {
			if !yield(path, c.entries[path]) {
				return
			}
		}
	}
}

func (c *MemoryCache) NeedsInvalidation() bool { return false }

func (c *MemoryCache) InvalidateExpired() {}

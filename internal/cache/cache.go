// Package cache keeps parsed desktop files keyed by their absolute path.
//
// Three strategies implement the same Cache interface:
//
//  1. MemoryCache keeps entries for the lifetime of the process only
//  2. FileCache persists entries to a single JSON document
//  3. BoltCache persists entries to a BoltDB bucket
//
// The persisted strategies remember the source file's mtime and the time an
// entry was cached, so stale entries can be detected and dropped.
package cache

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/Norgate-AV/openit/internal/desktop"
)

// DefaultMaxAge is how long a persisted entry stays valid without its file changing.
const DefaultMaxAge = 24 * time.Hour

// Backend names accepted by New.
const (
	BackendJSON   = "json"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Cache is a keyed store of path -> desktop file.
type Cache interface {
	// Load reads the cache from its backing storage
	Load() error
	// Save writes the whole cache to its backing storage
	Save() error

	Get(path string) (*desktop.File, bool)
	Insert(path string, file *desktop.File)
	Remove(path string) (*desktop.File, bool)
	Clear()
	IsEmpty() bool
	Len() int

	// All yields every cached (path, file) pair, sorted by path
	All() iter.Seq2[string, *desktop.File]

	// NeedsInvalidation reports whether at least one entry is stale
	NeedsInvalidation() bool
	// InvalidateExpired drops every stale entry
	InvalidateExpired()
}

// Option configures a persisted cache.
type Option func(*store)

// WithMaxAge overrides DefaultMaxAge.
func WithMaxAge(d time.Duration) Option {
	return func(s *store) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *store) {
		s.now = now
	}
}

// New creates a cache for the given backend. path is ignored by the memory backend.
func New(backend, path string, opts ...Option) (Cache, error) {
	switch backend {
	case BackendJSON, "":
		return NewFileCache(path, opts...), nil
	case BackendBolt:
		return NewBoltCache(path, opts...), nil
	case BackendMemory:
		return NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// store holds the entries shared by the persisted strategies.
type store struct {
	entries map[string]*Entry
	maxAge  time.Duration
	now     func() time.Time
}

func newStore(opts ...Option) store {
	s := store{
		entries: make(map[string]*Entry),
		maxAge:  DefaultMaxAge,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s
}

func (s *store) Get(path string) (*desktop.File, bool) {
	entry, ok := s.entries[path]
	if !ok {
		return nil, false
	}

	return entry.DesktopFile, true
}

func (s *store) Insert(path string, file *desktop.File) {
	now := s.now()
	s.entries[path] = &Entry{
		DesktopFile:  file,
		LastModified: modTime(path, now),
		CachedAt:     now,
	}
}

func (s *store) Remove(path string) (*desktop.File, bool) {
	entry, ok := s.entries[path]
	if !ok {
		return nil, false
	}

	delete(s.entries, path)
	return entry.DesktopFile, true
}

func (s *store) Clear() {
	clear(s.entries)
}

func (s *store) IsEmpty() bool {
	return len(s.entries) == 0
}

func (s *store) Len() int {
	return len(s.entries)
}

func (s *store) All() iter.Seq2[string, *desktop.File] {
	return func(yield func(string, *desktop.File) bool) {
		for _, path := range slices.Sorted(maps.Keys(s.entries)) {
			if !yield(path, s.entries[path].DesktopFile) {
				return
			}
		}
	}
}

func (s *store) NeedsInvalidation() bool {
	now := s.now()
	for path, entry := range s.entries {
		if entry.IsExpired(path, s.maxAge, now) {
			return true
		}
	}

	return false
}

func (s *store) InvalidateExpired() {
	now := s.now()
	maps.DeleteFunc(s.entries, func(path string, entry *Entry) bool {
		return entry.IsExpired(path, s.maxAge, now)
	})
}

// replace swaps in entries read from storage, dropping nil desktop files.
func (s *store) replace(entries map[string]*Entry) {
	maps.DeleteFunc(entries, func(_ string, e *Entry) bool {
		return e == nil || e.DesktopFile == nil
	})

	s.entries = entries
	s.InvalidateExpired()
}

// Package finder combines the associations index with the desktop cache to
// produce the ordered candidate list for a MIME type.
package finder

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/Norgate-AV/openit/internal/associations"
	"github.com/Norgate-AV/openit/internal/cache"
	"github.com/Norgate-AV/openit/internal/desktop"
	"github.com/Norgate-AV/openit/internal/mimematch"
)

var (
	// ErrNoApplications is returned by callers when a query has no candidates.
	ErrNoApplications = errors.New("no applications found")

	// ErrHandlerNotFound is returned when a handler id matches no cached desktop file.
	ErrHandlerNotFound = errors.New("handler not found")
)

// Finder answers handler queries. It never mutates the cache or the index.
type Finder struct {
	cache cache.Cache
	index *associations.Index
}

func New(c cache.Cache, index *associations.Index) *Finder {
	if index == nil {
		index = associations.New(nil)
	}

	return &Finder{cache: c, index: index}
}

// FindForMime returns every candidate for mime. Handlers from the
// associations index come first, in index order, followed by applications
// that only declare the type themselves. Each desktop file contributes at
// most one main entry, plus its actions when includeActions is set.
func (f *Finder) FindForMime(mime string, includeActions bool) []ApplicationEntry {
	var apps []ApplicationEntry
	seen := make(map[string]struct{})

	for priority, id := range f.index.Get(mime) {
		path, file, ok := f.FindDesktopFile(id)
		if !ok || file.MainEntry == nil {
			continue
		}

		base := desktop.ID(path)
		if _, dup := seen[base]; dup {
			continue
		}

		seen[base] = struct{}{}

		main := newEntry(path, file.MainEntry)
		main.markXDG(priority)
		main.IsDefault = priority == 0
		apps = append(apps, main)

		if includeActions {
			for _, action := range actionEntries(path, file) {
				action.markXDG(priority)
				apps = append(apps, action)
			}
		}
	}

	for path, file := range f.cache.All() {
		if file.MainEntry == nil || !declares(file.MainEntry, mime) {
			continue
		}

		base := desktop.ID(path)
		if _, dup := seen[base]; dup {
			continue
		}

		seen[base] = struct{}{}
		apps = append(apps, newEntry(path, file.MainEntry))

		if includeActions {
			apps = append(apps, actionEntries(path, file)...)
		}
	}

	return apps
}

// Associations returns the handler ids the associations index lists for mime.
func (f *Finder) Associations(mime string) []string {
	return f.index.Get(mime)
}

// FindDesktopFile resolves a handler id to a cached desktop file. An exact
// base name match wins over a path suffix match.
func (f *Finder) FindDesktopFile(id string) (string, *desktop.File, bool) {
	if id == "" {
		return "", nil, false
	}

	for path, file := range f.cache.All() {
		if desktop.ID(path) == id {
			return path, file, true
		}
	}

	for path, file := range f.cache.All() {
		if strings.HasSuffix(path, id) {
			return path, file, true
		}
	}

	return "", nil, false
}

// Lookup returns the main entry for a handler id as a candidate.
func (f *Finder) Lookup(id string) (ApplicationEntry, bool) {
	path, file, ok := f.FindDesktopFile(id)
	if !ok || file.MainEntry == nil {
		return ApplicationEntry{}, false
	}

	return newEntry(path, file.MainEntry), true
}

// FindTerminalEmulators returns every cached terminal emulator, one per desktop file id.
func (f *Finder) FindTerminalEmulators() []ApplicationEntry {
	var apps []ApplicationEntry
	seen := make(map[string]struct{})

	for path, file := range f.cache.All() {
		if file.MainEntry == nil || !file.MainEntry.IsTerminalEmulator() {
			continue
		}

		base := desktop.ID(path)
		if _, dup := seen[base]; dup {
			continue
		}

		seen[base] = struct{}{}
		apps = append(apps, newEntry(path, file.MainEntry))
	}

	return apps
}

// AllMimeTypes returns the sorted set of MIME types declared by cached entries.
func (f *Finder) AllMimeTypes() []string {
	set := make(map[string]struct{})
	for _, file := range f.cache.All() {
		if file.MainEntry == nil {
			continue
		}

		for _, mt := range file.MainEntry.MimeTypes {
			set[mt] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(set))
}

func declares(entry *desktop.Entry, mime string) bool {
	return slices.ContainsFunc(entry.MimeTypes, func(pattern string) bool {
		return mimematch.Matches(pattern, mime)
	})
}

func actionEntries(path string, file *desktop.File) []ApplicationEntry {
	ids := file.ActionIDs()
	out := make([]ApplicationEntry, 0, len(ids))

	for _, id := range ids {
		out = append(out, newActionEntry(path, file.MainEntry, id, file.Actions[id]))
	}

	return out
}

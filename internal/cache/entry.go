package cache

import (
	"os"
	"time"

	"github.com/Norgate-AV/openit/internal/desktop"
)

// Entry is a persisted desktop file together with the metadata used to
// decide whether it is stale.
type Entry struct {
	// DesktopFile is the parsed desktop file
	DesktopFile *desktop.File `json:"desktop_file"`

	// LastModified is the mtime of the source file when it was cached
	LastModified time.Time `json:"last_modified"`

	// CachedAt is the wall-clock time the entry was created
	CachedAt time.Time `json:"cached_at"`
}

// IsExpired reports whether the entry for path must be re-parsed. An entry
// expires when the file changed after it was cached, when the file is gone,
// or when it is older than maxAge.
func (e *Entry) IsExpired(path string, maxAge time.Duration, now time.Time) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}

	if info.ModTime().After(e.LastModified) {
		return true
	}

	return now.Sub(e.CachedAt) > maxAge
}

// modTime returns the mtime of path, or now if it cannot be read.
func modTime(path string, now time.Time) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return now
	}

	return info.ModTime()
}

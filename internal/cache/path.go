package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Norgate-AV/openit/internal/xdg"
)

// PathEnv overrides the persisted cache location.
const PathEnv = "OPENIT_CACHE_PATH"

// DefaultPath returns the cache location for backend. PathEnv wins over the
// XDG cache directory.
func DefaultPath(dirs xdg.Dirs, backend string) string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}

	name := "desktop_cache.json"
	if backend == BackendBolt {
		name = "desktop_cache.db"
	}

	return filepath.Join(dirs.CacheHome, "openit", name)
}

// Delete removes the persisted cache at path. It reports whether a file was removed.
func Delete(path string) (bool, error) {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("failed to remove cache file: %w", err)
	}

	return true, nil
}

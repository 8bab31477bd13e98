package cache

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Norgate-AV/openit/internal/desktop"
)

const desktopExt = ".desktop"

// Bootstrap loads c and brings it up to date with the desktop files found in
// dirs. A failing load is treated as a cache miss and a failing save is only
// logged: the in-memory result stays usable either way.
func Bootstrap(c Cache, dirs []string, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}

	if err := c.Load(); err != nil {
		logger.Debug("failed to load desktop cache", "err", err)
		c.Clear()
	}

	rebuild := c.IsEmpty() || c.NeedsInvalidation()

	var updated bool
	if rebuild {
		logger.Debug("building desktop file cache", "dirs", dirs)
		c.Clear()
		updated = Populate(c, dirs, true, logger)
	} else {
		logger.Debug("loaded desktop cache", "entries", c.Len())
		updated = Populate(c, dirs, false, logger)
	}

	if rebuild || updated {
		if err := c.Save(); err != nil {
			logger.Debug("failed to save desktop cache", "err", err)
		}
	}
}

// Populate walks every directory in dirs and inserts each *.desktop file it
// finds. Hidden directories are skipped. Unless force is set, files that are
// already cached are left alone. Files that fail to parse and directories
// that cannot be read are logged and skipped. Populate reports whether it
// inserted anything.
func Populate(c Cache, dirs []string, force bool, logger *log.Logger) bool {
	if logger == nil {
		logger = log.Default()
	}

	var updated bool

	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			logger.Debug("skipping desktop directory", "dir", dir, "err", err)
			continue
		}

		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Debug("failed to read directory entry", "path", path, "err", err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}

				return nil
			}

			if d.IsDir() {
				if path != dir && strings.HasPrefix(d.Name(), ".") {
					return fs.SkipDir
				}

				return nil
			}

			if strings.HasPrefix(d.Name(), ".") || filepath.Ext(path) != desktopExt || !isRegular(path, d) {
				return nil
			}

			if !force {
				if _, ok := c.Get(path); ok {
					return nil
				}
			}

			file, err := desktop.ParseFile(path)
			if err != nil {
				logger.Debug("skipping desktop file", "path", path, "err", err)
				return nil
			}

			c.Insert(path, file)
			updated = true
			return nil
		})
	}

	return updated
}

// isRegular reports whether d is a regular file, following symlinks.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}

	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

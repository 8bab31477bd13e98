package config

import (
	"os"
	"path/filepath"

	"github.com/Norgate-AV/openit/internal/xdg"
)

// Extensions are tried in this order when looking for a config file.
var Extensions = []string{"toml", "yaml", "yml", "json"}

// Dir returns the openit config directory.
func Dir(dirs xdg.Dirs) string {
	return filepath.Join(dirs.ConfigHome, "openit")
}

// DefaultPath is where "config init" writes the config file.
func DefaultPath(dirs xdg.Dirs) string {
	return filepath.Join(Dir(dirs), "config.toml")
}

// FindConfig finds the config file in dir
func FindConfig(dir string) string {
	for _, ext := range Extensions {
		path := filepath.Join(dir, "config."+ext)

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	return ""
}

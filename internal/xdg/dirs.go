// Package xdg resolves the XDG base directories and the search paths derived
// from them.
package xdg

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultDataDirs   = "/usr/local/share:/usr/share"
	defaultConfigDirs = "/etc/xdg"

	mimeappsFile = "mimeapps.list"
)

// Dirs holds the XDG base directories for one process. It is built once at
// startup and passed to the components that need search paths.
type Dirs struct {
	Home       string
	DataHome   string
	ConfigHome string
	CacheHome  string
	DataDirs   []string
	ConfigDirs []string

	// Desktops are the lower-cased XDG_CURRENT_DESKTOP names, most specific first.
	Desktops []string

	// ExtraDesktopDirs are appended to the desktop file search path.
	ExtraDesktopDirs []string
}

// FromEnv builds Dirs from the environment.
func FromEnv() Dirs {
	return FromLookup(os.Getenv)
}

// FromLookup builds Dirs using getenv, falling back to the XDG defaults.
func FromLookup(getenv func(string) string) Dirs {
	home := getenv("HOME")
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		} else {
			home = os.TempDir()
		}
	}

	d := Dirs{
		Home:       home,
		DataHome:   envPath(getenv, "XDG_DATA_HOME", filepath.Join(home, ".local", "share")),
		ConfigHome: envPath(getenv, "XDG_CONFIG_HOME", filepath.Join(home, ".config")),
		CacheHome:  envPath(getenv, "XDG_CACHE_HOME", filepath.Join(home, ".cache")),
		DataDirs:   splitList(getenv("XDG_DATA_DIRS"), defaultDataDirs),
		ConfigDirs: splitList(getenv("XDG_CONFIG_DIRS"), defaultConfigDirs),
		Desktops:   DesktopNames(getenv("XDG_CURRENT_DESKTOP")),
	}

	d.ExtraDesktopDirs = []string{
		"/var/lib/flatpak/exports/share/applications",
		filepath.Join(home, ".local", "share", "flatpak", "exports", "share", "applications"),
	}

	return d
}

// DesktopNames splits an XDG_CURRENT_DESKTOP value into lower-cased names.
func DesktopNames(value string) []string {
	var names []string
	for _, name := range strings.Split(value, ":") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, strings.ToLower(name))
		}
	}

	return names
}

// DesktopFileDirs returns the existing application directories, user first,
// without duplicates.
func (d Dirs) DesktopFileDirs() []string {
	candidates := []string{filepath.Join(d.DataHome, "applications")}
	for _, dir := range d.DataDirs {
		candidates = append(candidates, filepath.Join(dir, "applications"))
	}

	candidates = append(candidates, d.ExtraDesktopDirs...)

	seen := make(map[string]struct{}, len(candidates))
	var dirs []string

	for _, dir := range candidates {
		if _, ok := seen[dir]; ok {
			continue
		}

		seen[dir] = struct{}{}
		if isDir(dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

// MimeappsFiles returns the existing mimeapps.list files in override order:
// the first file is the most authoritative. Within a directory the
// desktop-specific variants come before the generic file.
func (d Dirs) MimeappsFiles() []string {
	dirs := []string{d.ConfigHome}
	dirs = append(dirs, d.ConfigDirs...)
	dirs = append(dirs, filepath.Join(d.DataHome, "applications"))
	for _, dir := range d.DataDirs {
		dirs = append(dirs, filepath.Join(dir, "applications"))
	}

	var files []string
	for _, dir := range dirs {
		for _, name := range d.mimeappsNames() {
			path := filepath.Join(dir, name)
			if isFile(path) {
				files = append(files, path)
			}
		}
	}

	return files
}

// UserMimeappsFile is the mimeapps.list the user edits.
func (d Dirs) UserMimeappsFile() string {
	return filepath.Join(d.ConfigHome, mimeappsFile)
}

func (d Dirs) mimeappsNames() []string {
	names := make([]string, 0, len(d.Desktops)+1)
	for _, de := range d.Desktops {
		names = append(names, de+"-"+mimeappsFile)
	}

	return append(names, mimeappsFile)
}

func envPath(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}

	return fallback
}

func splitList(value, fallback string) []string {
	if value == "" {
		value = fallback
	}

	var out []string
	for _, p := range strings.Split(value, ":") {
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

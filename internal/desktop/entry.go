// Package desktop models XDG desktop entry files (*.desktop) and parses them.
package desktop

import (
	"path/filepath"
	"slices"
)

// CategoryTerminalEmulator marks entries that are terminal emulators.
const CategoryTerminalEmulator = "TerminalEmulator"

// Entry is the [Desktop Entry] group of a desktop file.
type Entry struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	GenericName string `json:"generic_name,omitempty"`

	// Exec is the command template; may contain %f, %F, %u, %U, %i, %c, %k and %%.
	Exec string `json:"exec"`

	Comment  string `json:"comment,omitempty"`
	Icon     string `json:"icon,omitempty"`
	TryExec  string `json:"try_exec,omitempty"`
	Path     string `json:"path,omitempty"`
	Terminal bool   `json:"terminal"`

	NoDisplay bool `json:"no_display"`
	Hidden    bool `json:"hidden"`

	// MimeTypes keeps the order and duplicates found in the file.
	MimeTypes  []string `json:"mime_types"`
	Categories []string `json:"categories,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	OnlyShowIn []string `json:"only_show_in,omitempty"`
	NotShowIn  []string `json:"not_show_in,omitempty"`
	Actions    []string `json:"actions,omitempty"`
}

// IsTerminalEmulator reports whether the entry declares the TerminalEmulator category.
func (e *Entry) IsTerminalEmulator() bool {
	return slices.Contains(e.Categories, CategoryTerminalEmulator)
}

// Action is a [Desktop Action <id>] group.
type Action struct {
	Name string `json:"name"`
	Exec string `json:"exec"`
	Icon string `json:"icon,omitempty"`
}

// File is a parsed desktop file. A File without a main entry never surfaces
// in lookups, even if it declares actions.
type File struct {
	MainEntry *Entry            `json:"main_entry"`
	Actions   map[string]Action `json:"actions"`
}

// ActionIDs returns the action ids in sorted order.
func (f *File) ActionIDs() []string {
	ids := make([]string, 0, len(f.Actions))
	for id := range f.Actions {
		ids = append(ids, id)
	}

	slices.Sort(ids)
	return ids
}

// ID returns the desktop file id used by mimeapps.list, which is the file's base name.
func ID(path string) string {
	return filepath.Base(path)
}

package finder

import (
	"fmt"
	"strings"

	"github.com/Norgate-AV/openit/internal/desktop"
	"github.com/Norgate-AV/openit/internal/handlers"
)

// Source tells where a candidate came from.
type Source string

const (
	SourceXDG       Source = "xdg"
	SourceAvailable Source = "available"
	SourceRegex     Source = "regex"
)

// ApplicationEntry is one launchable candidate for a MIME type. Entries are
// built per query and never persisted.
type ApplicationEntry struct {
	Name        string `json:"name"`
	Exec        string `json:"exec"`
	DesktopFile string `json:"desktop_file"`
	Comment     string `json:"comment,omitempty"`
	Icon        string `json:"icon,omitempty"`

	IsXDG       bool `json:"is_xdg"`
	XDGPriority int  `json:"xdg_priority"`
	IsDefault   bool `json:"is_default"`

	// ActionID is set when the entry runs a desktop action instead of the main entry
	ActionID string `json:"action_id,omitempty"`

	RequiresTerminal   bool   `json:"requires_terminal"`
	IsTerminalEmulator bool   `json:"is_terminal_emulator"`
	Source             Source `json:"source"`
}

// IsAction reports whether the entry is a desktop action.
func (e ApplicationEntry) IsAction() bool {
	return e.ActionID != ""
}

func newEntry(path string, entry *desktop.Entry) ApplicationEntry {
	return ApplicationEntry{
		Name:               entry.Name,
		Exec:               entry.Exec,
		DesktopFile:        path,
		Comment:            entry.Comment,
		Icon:               entry.Icon,
		XDGPriority:        -1,
		RequiresTerminal:   entry.Terminal,
		IsTerminalEmulator: entry.IsTerminalEmulator(),
		Source:             SourceAvailable,
	}
}

func newActionEntry(path string, entry *desktop.Entry, id string, action desktop.Action) ApplicationEntry {
	e := newEntry(path, entry)
	e.Name = fmt.Sprintf("%s - %s", entry.Name, action.Name)
	e.Exec = action.Exec
	e.Comment = "Action: " + action.Name
	e.ActionID = id

	if action.Icon != "" {
		e.Icon = action.Icon
	}

	return e
}

func (e *ApplicationEntry) markXDG(priority int) {
	e.IsXDG = true
	e.XDGPriority = priority
	e.Source = SourceXDG
}

// FromRegexHandler presents a matched regex handler as a candidate. Its
// XDGPriority carries the handler priority.
func FromRegexHandler(h *handlers.Handler) ApplicationEntry {
	name := h.Notes
	if name == "" {
		name = fmt.Sprintf("Regex handler (prio %d)", h.Priority)
	}

	comment := "Regex handler -> " + h.Exec
	if len(h.Regexes) > 0 {
		comment += " [" + strings.Join(h.Regexes, ", ") + "]"
	}

	return ApplicationEntry{
		Name:             name,
		Exec:             h.Exec,
		DesktopFile:      fmt.Sprintf("regex-handler-%d.desktop", h.Priority),
		Comment:          comment,
		XDGPriority:      h.Priority,
		RequiresTerminal: h.Terminal,
		Source:           SourceRegex,
	}
}

package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Norgate-AV/openit/internal/finder"
	"github.com/Norgate-AV/openit/internal/selector"
)

// Color palette shared by the human-readable output.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)

	// HandlerStyle renders desktop file ids and MIME keys
	HandlerStyle = lipgloss.NewStyle().Foreground(ColorHighlight)
	DefaultStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
)

const legend = "Legend: ★=Default  ▶=XDG Associated  (space)=Available"

// entryLine renders one candidate as "<marker><name>" for terminal output.
func entryLine(e finder.ApplicationEntry) string {
	line := selector.DefaultMarkers.For(e) + e.Name
	if e.IsAction() {
		line += SubtitleStyle.Render(" [action: " + e.ActionID + "]")
	}

	if e.IsDefault {
		return DefaultStyle.Render(line)
	}

	return line
}

// Package selector pipes candidate applications through an external picker
// such as rofi, fuzzel or fzf and maps the chosen line back to a candidate.
package selector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"

	"github.com/Norgate-AV/openit/internal/finder"
)

// Markers prefix each rendered line according to the candidate's source.
type Markers struct {
	Default   string
	XDG       string
	Available string
	Regex     string
}

// DefaultMarkers are used for any marker left empty.
var DefaultMarkers = Markers{
	Default:   "★ ",
	XDG:       "▶ ",
	Available: "  ",
	Regex:     "» ",
}

// Options configure one selection.
type Options struct {
	// Command is a shell command line. {prompt} and {header} are replaced
	// with the shell-quoted rendered templates.
	Command string

	Markers        Markers
	PromptTemplate string
	HeaderTemplate string

	// File is the target's display name, substituted for {file}
	File string
}

// runFunc runs command through the shell, feeding it input, and returns stdout.
type runFunc func(ctx context.Context, command string, input io.Reader) ([]byte, error)

// Selector runs the external picker.
type Selector struct {
	run    runFunc
	logger *log.Logger
}

func New(logger *log.Logger) *Selector {
	if logger == nil {
		logger = log.Default()
	}

	return &Selector{run: runShell, logger: logger}
}

// Select shows entries and returns the index of the chosen one. ok is false
// when the picker was dismissed or exited with an error status.
func (s *Selector) Select(ctx context.Context, entries []finder.ApplicationEntry, opts Options) (int, bool, error) {
	if len(entries) == 0 {
		return 0, false, nil
	}

	if strings.TrimSpace(opts.Command) == "" {
		return 0, false, errors.New("selector command is empty")
	}

	command, err := Expand(opts)
	if err != nil {
		return 0, false, err
	}

	lines := Render(entries, opts.Markers)

	s.logger.Debug("running selector", "command", command, "entries", len(lines))

	out, err := s.run(ctx, command, strings.NewReader(strings.Join(lines, "\n")+"\n"))
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			s.logger.Info("selector exited without a choice", "code", exitErr.ExitCode())
			return 0, false, nil
		}

		return 0, false, fmt.Errorf("failed to run selector %q: %w", command, err)
	}

	choice := strings.TrimRight(string(out), "\r\n")
	if strings.TrimSpace(choice) == "" {
		s.logger.Info("selector returned no selection")
		return 0, false, nil
	}

	idx, ok := Match(choice, entries, lines)
	if !ok {
		return 0, false, fmt.Errorf("selector returned unknown selection %q", choice)
	}

	return idx, true, nil
}

// Render returns one line per entry: marker followed by the entry name.
func Render(entries []finder.ApplicationEntry, m Markers) []string {
	m = m.withDefaults()

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = m.For(e) + e.Name
	}

	return lines
}

// For returns the marker for e.
func (m Markers) For(e finder.ApplicationEntry) string {
	switch {
	case e.Source == finder.SourceRegex:
		return m.Regex
	case e.IsDefault:
		return m.Default
	case e.IsXDG:
		return m.XDG
	default:
		return m.Available
	}
}

func (m Markers) withDefaults() Markers {
	if m.Default == "" {
		m.Default = DefaultMarkers.Default
	}

	if m.XDG == "" {
		m.XDG = DefaultMarkers.XDG
	}

	if m.Available == "" {
		m.Available = DefaultMarkers.Available
	}

	if m.Regex == "" {
		m.Regex = DefaultMarkers.Regex
	}

	return m
}

// Match maps the picker output back to an entry. The rendered line is tried
// first, then the bare name with any marker removed, then a zero-based index
// for pickers that print one.
func Match(choice string, entries []finder.ApplicationEntry, lines []string) (int, bool) {
	for i, line := range lines {
		if line == choice {
			return i, true
		}
	}

	trimmed := strings.TrimSpace(choice)
	for i, line := range lines {
		if strings.TrimSpace(line) == trimmed {
			return i, true
		}
	}

	for i, e := range entries {
		if e.Name == trimmed || strings.HasSuffix(trimmed, " "+e.Name) {
			return i, true
		}
	}

	if n, err := strconv.Atoi(trimmed); err == nil && n >= 0 && n < len(entries) {
		return n, true
	}

	return 0, false
}

// RenderTemplate replaces {file} in tmpl.
func RenderTemplate(tmpl, file string) string {
	return strings.ReplaceAll(tmpl, "{file}", file)
}

// Expand substitutes the quoted prompt and header into opts.Command.
func Expand(opts Options) (string, error) {
	command := opts.Command

	for placeholder, tmpl := range map[string]string{
		"{prompt}": opts.PromptTemplate,
		"{header}": opts.HeaderTemplate,
	} {
		if !strings.Contains(command, placeholder) {
			continue
		}

		quoted, err := syntax.Quote(RenderTemplate(tmpl, opts.File), syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("failed to quote %s: %w", placeholder, err)
		}

		command = strings.ReplaceAll(command, placeholder, quoted)
	}

	return command, nil
}

func runShell(ctx context.Context, command string, input io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = input
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return stdout.Bytes(), nil
}

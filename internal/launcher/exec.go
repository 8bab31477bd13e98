// Package launcher expands desktop entry Exec templates and starts the
// resulting command detached from openit.
package launcher

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/shell"

	"github.com/Norgate-AV/openit/internal/finder"
)

var (
	// ErrEmptyCommand is returned when an Exec line expands to nothing.
	ErrEmptyCommand = errors.New("empty exec command")

	// ErrLaunch wraps failures to start the application process.
	ErrLaunch = errors.New("failed to execute")
)

// Prepare expands app.Exec for target. File and URL codes become the target
// (a target is appended when the template has none), %i becomes
// "--icon <icon>", %c the name and %k the desktop file. Deprecated codes are
// dropped.
func Prepare(app finder.ApplicationEntry, target string) ([]string, error) {
	words, err := Split(app.Exec)
	if err != nil {
		return nil, err
	}

	var (
		args    []string
		hasFile bool
	)

	for _, word := range words {
		switch word {
		case "%f", "%F", "%u", "%U":
			args = append(args, target)
			hasFile = true
			continue
		case "%i":
			if app.Icon != "" {
				args = append(args, "--icon", app.Icon)
			}

			continue
		}

		expanded, used := expandCodes(word, app, target)
		hasFile = hasFile || used

		if expanded != "" {
			args = append(args, expanded)
		}
	}

	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}

	if !hasFile {
		args = append(args, target)
	}

	return args, nil
}

// BaseCommand splits exec and removes every field code, keeping literal %.
func BaseCommand(exec string) ([]string, error) {
	words, err := Split(exec)
	if err != nil {
		return nil, err
	}

	var args []string
	for _, word := range words {
		if w, _ := expandCodes(word, finder.ApplicationEntry{}, ""); w != "" {
			args = append(args, w)
		}
	}

	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}

	return args, nil
}

// Split breaks a command line into words with shell quoting rules.
func Split(line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, ErrEmptyCommand
	}

	words, err := shell.Fields(line, noEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command %q: %w", line, err)
	}

	return words, nil
}

// noEnv keeps the caller's environment out of Exec lines
func noEnv(string) string { return "" }

// expandCodes replaces the field codes embedded in word. It reports whether
// a file or URL code was substituted.
func expandCodes(word string, app finder.ApplicationEntry, target string) (string, bool) {
	if !strings.Contains(word, "%") {
		return word, false
	}

	var (
		b    strings.Builder
		used bool
	)

	for i := 0; i < len(word); i++ {
		if word[i] != '%' || i+1 == len(word) {
			b.WriteByte(word[i])
			continue
		}

		i++
		switch word[i] {
		case '%':
			b.WriteByte('%')
		case 'f', 'F', 'u', 'U':
			b.WriteString(target)
			used = target != ""
		case 'c':
			b.WriteString(app.Name)
		case 'k':
			b.WriteString(app.DesktopFile)
		case 'i':
			b.WriteString(app.Icon)
		}
	}

	return b.String(), used
}

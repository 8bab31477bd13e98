// Package handlers loads regex override handlers. A regex handler runs a
// fixed command for any target whose path or URI matches one of its patterns,
// ahead of every MIME based candidate.
package handlers

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/Norgate-AV/openit/internal/xdg"
)

// FileName is the handler file inside the openit config directory.
const FileName = "regex_handlers.toml"

// Definition is one [[handlers]] table.
type Definition struct {
	Exec     string   `toml:"exec"`
	Regexes  []string `toml:"regexes"`
	Terminal bool     `toml:"terminal"`
	Priority int      `toml:"priority"`
	Notes    string   `toml:"notes,omitempty"`
}

type document struct {
	Handlers []Definition `toml:"handlers"`
}

// Handler is a compiled Definition.
type Handler struct {
	Definition
	compiled []*regexp.Regexp
}

// Matches reports whether any pattern matches candidate.
func (h *Handler) Matches(candidate string) bool {
	return slices.ContainsFunc(h.compiled, func(re *regexp.Regexp) bool {
		return re.MatchString(candidate)
	})
}

// Store holds handlers sorted by descending priority. Handlers with equal
// priority keep their file order.
type Store struct {
	handlers []*Handler
}

// DefaultPath returns $XDG_CONFIG_HOME/openit/regex_handlers.toml.
func DefaultPath(dirs xdg.Dirs) string {
	return filepath.Join(dirs.ConfigHome, "openit", FileName)
}

// Load reads the handler file at path. A missing file is an empty store; a
// malformed file or an invalid pattern is an error.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Store{}, nil
		}

		return nil, fmt.Errorf("failed to read regex handler file %s: %w", path, err)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse regex handler file %s: %w", path, err)
	}

	return New(doc.Handlers)
}

// New compiles definitions into a store.
func New(defs []Definition) (*Store, error) {
	s := &Store{handlers: make([]*Handler, 0, len(defs))}

	for _, def := range defs {
		h := &Handler{Definition: def}
		for _, pattern := range def.Regexes {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("failed to compile regex %q for handler %q: %w", pattern, def.Exec, err)
			}

			h.compiled = append(h.compiled, re)
		}

		s.handlers = append(s.handlers, h)
	}

	slices.SortStableFunc(s.handlers, func(a, b *Handler) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	return s, nil
}

// FindHandler returns the highest priority handler matching candidate.
func (s *Store) FindHandler(candidate string) (*Handler, bool) {
	for _, h := range s.handlers {
		if h.Matches(candidate) {
			return h, true
		}
	}

	return nil, false
}

// Handlers returns the handlers in match order.
func (s *Store) Handlers() []*Handler {
	return slices.Clone(s.handlers)
}

func (s *Store) Len() int {
	return len(s.handlers)
}

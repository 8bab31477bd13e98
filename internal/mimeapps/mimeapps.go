// Package mimeapps reads, edits and writes the user's own mimeapps.list.
//
// Only the [Default Applications] and [Added Associations] sections are
// kept. Every mutation targets [Default Applications].
package mimeapps

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Norgate-AV/openit/internal/mimematch"
	"github.com/Norgate-AV/openit/internal/xdg"
)

const (
	defaultSection = "[Default Applications]"
	addedSection   = "[Added Associations]"
)

// ErrEmptyHandler is returned for a blank handler id where one is required.
var ErrEmptyHandler = errors.New("handler identifier cannot be empty")

type section int

const (
	sectionNone section = iota
	sectionDefault
	sectionAdded
)

// MimeApps holds the two editable sections, each a MIME pattern -> handler list map.
type MimeApps struct {
	defaultApps       map[string]HandlerList
	addedAssociations map[string]HandlerList
}

// New returns an empty document.
func New() *MimeApps {
	return &MimeApps{
		defaultApps:       make(map[string]HandlerList),
		addedAssociations: make(map[string]HandlerList),
	}
}

// DefaultPath returns the user's mimeapps.list.
func DefaultPath(dirs xdg.Dirs) string {
	return dirs.UserMimeappsFile()
}

// Load reads the document at path. A missing file loads as an empty document.
func Load(path string) (*MimeApps, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}

		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return m, nil
}

// Parse reads a mimeapps.list document. Repeated keys extend the existing
// list and duplicates are dropped, keeping the first occurrence. Sections
// other than the two known ones are skipped.
func Parse(r io.Reader) (*MimeApps, error) {
	m := New()
	current := sectionNone

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = parseSection(line)
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		var target map[string]HandlerList
		switch current {
		case sectionDefault:
			target = m.defaultApps
		case sectionAdded:
			target = m.addedAssociations
		default:
			continue
		}

		key = strings.TrimSpace(key)
		handlers := splitHandlers(value)
		if key == "" || len(handlers) == 0 {
			continue
		}

		list := target[key]
		for _, h := range handlers {
			list = list.add(h)
		}

		target[key] = list
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return m, nil
}

// Write serialises the document. Empty sections and empty keys are omitted;
// keys are written in sorted order.
func (m *MimeApps) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	writeSection(bw, defaultSection, m.defaultApps)
	writeSection(bw, addedSection, m.addedAssociations)

	return bw.Flush()
}

// Save writes the document to path through a temporary file and a rename,
// creating parent directories as needed.
func (m *MimeApps) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		return fmt.Errorf("failed to serialize mimeapps: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// SetHandler replaces the handler list of every target key.
func (m *MimeApps) SetHandler(pattern string, handlers []string, expand bool) {
	m.apply(pattern, expand, func(HandlerList) HandlerList {
		var list HandlerList
		for _, h := range handlers {
			list = list.add(h)
		}

		return list
	})
}

// AddHandler appends handler to every target key unless it is already present.
func (m *MimeApps) AddHandler(pattern, handler string, expand bool) {
	m.apply(pattern, expand, func(list HandlerList) HandlerList {
		return list.add(handler)
	})
}

// RemoveHandler drops handler from every target key, or clears the keys
// when handler is empty. Keys left without handlers are removed.
func (m *MimeApps) RemoveHandler(pattern, handler string, expand bool) {
	m.apply(pattern, expand, func(list HandlerList) HandlerList {
		if handler == "" {
			return nil
		}

		return list.remove(handler)
	})

	maps.DeleteFunc(m.defaultApps, func(_ string, list HandlerList) bool {
		return len(list) == 0
	})
}

// DefaultApps returns a copy of the [Default Applications] section.
func (m *MimeApps) DefaultApps() map[string]HandlerList {
	return cloneSection(m.defaultApps)
}

// AddedAssociations returns a copy of the [Added Associations] section.
func (m *MimeApps) AddedAssociations() map[string]HandlerList {
	return cloneSection(m.addedAssociations)
}

// HandlersFor returns the default handlers stored under the literal key mime.
func (m *MimeApps) HandlersFor(mime string) (HandlerList, bool) {
	list, ok := m.defaultApps[mime]
	return slices.Clone(list), ok
}

func (m *MimeApps) apply(pattern string, expand bool, fn func(HandlerList) HandlerList) {
	for _, key := range m.resolveTargets(pattern, expand) {
		m.defaultApps[key] = fn(m.defaultApps[key])
	}
}

// resolveTargets returns the keys a mutation applies to. Without expansion,
// or for a pattern without '*', that is the pattern itself. With expansion
// the pattern is matched against every key known in either section, and a
// pattern matching nothing yields no targets.
func (m *MimeApps) resolveTargets(pattern string, expand bool) []string {
	if !expand || !strings.Contains(pattern, "*") {
		return []string{pattern}
	}

	keys := slices.Collect(maps.Keys(m.defaultApps))
	keys = slices.AppendSeq(keys, maps.Keys(m.addedAssociations))

	return mimematch.Filter(pattern, keys)
}

func parseSection(line string) section {
	switch line {
	case defaultSection:
		return sectionDefault
	case addedSection:
		return sectionAdded
	default:
		return sectionNone
	}
}

func writeSection(w *bufio.Writer, header string, entries map[string]HandlerList) {
	var keys []string
	for _, key := range slices.Sorted(maps.Keys(entries)) {
		if len(entries[key]) > 0 {
			keys = append(keys, key)
		}
	}

	if len(keys) == 0 {
		return
	}

	fmt.Fprintln(w, header)
	for _, key := range keys {
		fmt.Fprintf(w, "%s=%s;\n", key, strings.Join(entries[key], ";"))
	}

	fmt.Fprintln(w)
}

func cloneSection(src map[string]HandlerList) map[string]HandlerList {
	out := make(map[string]HandlerList, len(src))
	for k, v := range src {
		out[k] = slices.Clone(v)
	}

	return out
}

func splitHandlers(value string) []string {
	var out []string
	for _, h := range strings.Split(value, ";") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}

	return out
}

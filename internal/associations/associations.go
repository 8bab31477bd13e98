// Package associations merges the mimeapps.list files found on the XDG search
// path into a read-only MIME type -> handler index.
package associations

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Norgate-AV/openit/internal/mimematch"
	"github.com/Norgate-AV/openit/internal/xdg"
)

const (
	SectionDefault = "Default Applications"
	SectionAdded   = "Added Associations"
)

// Index maps MIME types and MIME patterns to ordered handler ids.
type Index struct {
	assoc map[string][]string
}

// New builds an index from an existing map. The map is copied.
func New(assoc map[string][]string) *Index {
	idx := &Index{assoc: make(map[string][]string, len(assoc))}
	for k, v := range assoc {
		idx.assoc[k] = slices.Clone(v)
	}

	return idx
}

// Load reads every mimeapps.list on the search path. Files are applied from
// least to most authoritative, so the user's Default Applications win.
// Unreadable files are logged and skipped.
func Load(dirs xdg.Dirs, logger *log.Logger) *Index {
	if logger == nil {
		logger = log.Default()
	}

	idx := New(nil)
	files := dirs.MimeappsFiles()

	for _, path := range slices.Backward(files) {
		if err := idx.parseFile(path); err != nil {
			logger.Debug("skipping mimeapps file", "path", path, "err", err)
			continue
		}

		logger.Debug("loaded mimeapps file", "path", path)
	}

	return idx
}

func (idx *Index) parseFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open mimeapps file: %w", err)
	}

	defer f.Close()

	return idx.Parse(f)
}

// Parse folds one mimeapps.list document into the index. Default
// Applications lines replace the existing list for their key; Added
// Associations lines append to it. Any other section is ignored.
func (idx *Index) Parse(r io.Reader) error {
	var section string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = line[1 : len(line)-1]
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		handlers := splitHandlers(value)
		if key == "" || len(handlers) == 0 {
			continue
		}

		switch section {
		case SectionDefault:
			idx.assoc[key] = handlers
		case SectionAdded:
			idx.assoc[key] = append(idx.assoc[key], handlers...)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read mimeapps file: %w", err)
	}

	return nil
}

// Get returns the handlers for mime. Handlers registered for the exact key
// come first, followed by handlers of every matching pattern key in
// alphabetical key order. No id is returned twice.
func (idx *Index) Get(mime string) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(ids []string) {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}

			seen[id] = struct{}{}
			out = append(out, id)
		}
	}

	add(idx.assoc[mime])

	for _, key := range slices.Sorted(maps.Keys(idx.assoc)) {
		if key == mime || !mimematch.Matches(key, mime) {
			continue
		}

		add(idx.assoc[key])
	}

	return out
}

// Len returns the number of keys in the index.
func (idx *Index) Len() int {
	return len(idx.assoc)
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

package desktop

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	mainGroup    = "Desktop Entry"
	actionPrefix = "Desktop Action "
)

var (
	// ErrMissingName is returned when a group lacks the required Name key.
	ErrMissingName = errors.New("missing Name field")

	// ErrMissingExec is returned when a group lacks the required Exec key.
	ErrMissingExec = errors.New("missing Exec field")
)

// ParseFile reads and parses the desktop file at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read desktop file %s: %w", path, err)
	}

	defer f.Close()

	file, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse desktop file %s: %w", path, err)
	}

	return file, nil
}

// Parse parses desktop file contents. An invalid [Desktop Entry] group is an
// error; an invalid action group is dropped.
func Parse(r io.Reader) (*File, error) {
	file := &File{Actions: make(map[string]Action)}

	var (
		group  string
		fields map[string]string
	)

	flush := func() error {
		switch {
		case group == mainGroup:
			entry, err := buildEntry(fields)
			if err != nil {
				return err
			}

			file.MainEntry = entry
		case strings.HasPrefix(group, actionPrefix):
			id := strings.TrimPrefix(group, actionPrefix)
			if id == "" {
				return nil
			}

			if action, err := buildAction(fields); err == nil {
				file.Actions[id] = action
			}
		}

		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if err := flush(); err != nil {
				return nil, err
			}

			group = line[1 : len(line)-1]
			fields = make(map[string]string)
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok || fields == nil {
			continue
		}

		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return file, nil
}

func buildEntry(fields map[string]string) (*Entry, error) {
	name := fields["Name"]
	if name == "" {
		return nil, ErrMissingName
	}

	exec := fields["Exec"]
	if exec == "" {
		return nil, ErrMissingExec
	}

	entryType := fields["Type"]
	if entryType == "" {
		entryType = "Application"
	}

	return &Entry{
		Type:        entryType,
		Name:        name,
		GenericName: fields["GenericName"],
		Exec:        exec,
		Comment:     fields["Comment"],
		Icon:        fields["Icon"],
		TryExec:     fields["TryExec"],
		Path:        fields["Path"],
		Terminal:    parseBool(fields["Terminal"]),
		NoDisplay:   parseBool(fields["NoDisplay"]),
		Hidden:      parseBool(fields["Hidden"]),
		MimeTypes:   parseList(fields["MimeType"]),
		Categories:  parseList(fields["Categories"]),
		Keywords:    parseList(fields["Keywords"]),
		OnlyShowIn:  parseList(fields["OnlyShowIn"]),
		NotShowIn:   parseList(fields["NotShowIn"]),
		Actions:     parseList(fields["Actions"]),
	}, nil
}

func buildAction(fields map[string]string) (Action, error) {
	if fields["Name"] == "" {
		return Action{}, ErrMissingName
	}

	if fields["Exec"] == "" {
		return Action{}, ErrMissingExec
	}

	return Action{
		Name: fields["Name"],
		Exec: fields["Exec"],
		Icon: fields["Icon"],
	}, nil
}

func parseBool(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

func parseList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ";") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

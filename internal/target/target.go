// Package target resolves the argument given to "openit open" into a local
// file or a URI.
package target

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/Norgate-AV/openit/internal/mimetype"
)

// Kind distinguishes local files from URIs.
type Kind int

const (
	File Kind = iota
	URI
)

// Target is a resolved launch target.
type Target struct {
	Kind Kind

	// Path is the absolute, symlink-resolved path of a File target
	Path string

	// URL is the parsed URI of a URI target
	URL *url.URL
}

// Parse resolves raw. An existing path always wins; otherwise anything with a
// scheme is a URI, file:// URIs are turned back into paths, and the rest must
// be an existing path.
func Parse(raw string) (Target, error) {
	if raw == "" {
		return Target{}, fmt.Errorf("empty target")
	}

	if _, err := os.Stat(raw); err == nil {
		return fromPath(raw)
	}

	u, err := url.Parse(raw)
	if err == nil && len(u.Scheme) > 1 {
		if u.Scheme != "file" {
			return Target{Kind: URI, URL: u}, nil
		}

		if u.Path == "" || (u.Host != "" && u.Host != "localhost") {
			return Target{}, fmt.Errorf("invalid file URI: %s", raw)
		}

		return fromPath(u.Path)
	}

	return fromPath(raw)
}

func fromPath(p string) (Target, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return Target{}, fmt.Errorf("failed to resolve file path %s: %w", p, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Target{}, fmt.Errorf("failed to resolve file path %s: %w", abs, err)
	}

	return Target{Kind: File, Path: resolved}, nil
}

// Argument is the string handed to the launched application.
func (t Target) Argument() string {
	if t.Kind == URI {
		return t.URL.String()
	}

	return t.Path
}

// DisplayName is the short label used in selector prompts.
func (t Target) DisplayName() string {
	if t.Kind == URI {
		return t.URL.String()
	}

	return filepath.Base(t.Path)
}

// MimeType returns the type used to look up handlers for the target.
func (t Target) MimeType() string {
	if t.Kind == URI {
		return mimetype.ForScheme(t.URL.Scheme)
	}

	return mimetype.ForPath(t.Path)
}

func (t Target) String() string {
	return t.Argument()
}

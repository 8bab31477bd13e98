// Package mimetype turns user input and launch targets into MIME types.
// Types for files come from the extension table only; contents are never sniffed.
package mimetype

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

const (
	Directory   = "inode/directory"
	OctetStream = "application/octet-stream"

	schemePrefix = "x-scheme-handler/"
)

// ErrInvalidMime is returned for input that is neither a MIME type, a
// pattern nor a known extension.
var ErrInvalidMime = errors.New("invalid MIME type")

// extra covers common desktop types missing from the platform table.
var extra = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".rs":       "text/rust",
	".go":       "text/x-go",
	".py":       "text/x-python",
	".sh":       "application/x-shellscript",
	".toml":     "application/toml",
	".yaml":     "application/yaml",
	".yml":      "application/yaml",
	".mkv":      "video/x-matroska",
	".mp4":      "video/mp4",
	".mp3":      "audio/mpeg",
	".flac":     "audio/flac",
	".ogg":      "audio/ogg",
	".epub":     "application/epub+zip",
	".odt":      "application/vnd.oasis.opendocument.text",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".tar":      "application/x-tar",
	".gz":       "application/gzip",
	".7z":       "application/x-7z-compressed",
	".jpg":      "image/jpeg",
	".jpeg":     "image/jpeg",
	".txt":      "text/plain",
}

func init() {
	for ext, typ := range extra {
		if mime.TypeByExtension(ext) == "" {
			_ = mime.AddExtensionType(ext, typ)
		}
	}
}

// Normalize turns CLI input into a MIME key. Patterns containing '*' are
// returned trimmed but otherwise verbatim. "type/subtype" is lower-cased and
// validated. Anything else is treated as a file extension, with or without
// the leading dot.
func Normalize(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidMime)
	}

	if strings.Contains(trimmed, "*") {
		return trimmed, nil
	}

	if typ, sub, ok := strings.Cut(trimmed, "/"); ok {
		typ = strings.ToLower(strings.TrimSpace(typ))
		sub = strings.ToLower(strings.TrimSpace(sub))

		if typ == "" || sub == "" {
			return "", fmt.Errorf("%w: %s", ErrInvalidMime, input)
		}

		// image/jpg is spelled the way people type it, resolve it through the table
		if guess, ok := ForExtension(sub); ok && primary(guess) == typ {
			return guess, nil
		}

		essence, _, err := mime.ParseMediaType(typ + "/" + sub)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrInvalidMime, input)
		}

		return essence, nil
	}

	if guess, ok := ForExtension(trimmed); ok {
		return guess, nil
	}

	return "", fmt.Errorf("%w: unable to resolve extension %s", ErrInvalidMime, input)
}

// ForExtension looks up ext, with or without its leading dot.
func ForExtension(ext string) (string, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return "", false
	}

	typ := mime.TypeByExtension("." + ext)
	if typ == "" {
		return "", false
	}

	essence, _, err := mime.ParseMediaType(typ)
	if err != nil {
		return "", false
	}

	return essence, true
}

// ForPath returns the MIME type for a local path. Directories map to
// inode/directory and unknown extensions to application/octet-stream.
func ForPath(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Directory
	}

	if typ, ok := ForExtension(filepath.Ext(path)); ok {
		return typ
	}

	return OctetStream
}

// ForScheme returns the scheme handler type for a URI scheme.
func ForScheme(scheme string) string {
	return schemePrefix + strings.ToLower(scheme)
}

func primary(essence string) string {
	typ, _, _ := strings.Cut(essence, "/")
	return typ
}

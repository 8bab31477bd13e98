package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileCache persists entries as one JSON document keyed by desktop file path.
type FileCache struct {
	store
	path string
}

// NewFileCache creates a cache backed by the JSON document at path.
func NewFileCache(path string, opts ...Option) *FileCache {
	return &FileCache{
		store: newStore(opts...),
		path:  path,
	}
}

// Path returns the location of the JSON document.
func (c *FileCache) Path() string {
	return c.path
}

// Load reads the JSON document. A missing document loads as an empty cache;
// a document that is not valid JSON is an error. Expired entries are dropped.
func (c *FileCache) Load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to read cache file: %w", err)
	}

	entries := make(map[string]*Entry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse cache file: %w", err)
	}

	c.replace(entries)
	return nil
}

// Save writes the full cache, creating parent directories as needed.
func (c *FileCache) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("failed to serialize cache: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// bucketName is the BoltDB bucket holding one JSON-encoded Entry per path
const bucketName = "desktop_files"

// BoltCache persists entries in a BoltDB file. The database is only opened
// for the duration of Load and Save so concurrent invocations don't block
// each other for longer than one transaction.
type BoltCache struct {
	store
	path string
}

// NewBoltCache creates a cache backed by the BoltDB file at path.
func NewBoltCache(path string, opts ...Option) *BoltCache {
	return &BoltCache{
		store: newStore(opts...),
		path:  path,
	}
}

// Path returns the location of the database file.
func (c *BoltCache) Path() string {
	return c.path
}

// Load reads every entry from the bucket. A missing database loads as an
// empty cache; an undecodable entry is an error.
func (c *BoltCache) Load() error {
	if _, err := os.Stat(c.path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	db, err := c.open()
	if err != nil {
		return err
	}

	defer db.Close()

	entries := make(map[string]*Entry)
	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("invalid cache entry %s: %w", k, err)
			}

			entries[string(k)] = &entry
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("failed to parse cache database: %w", err)
	}

	c.replace(entries)
	return nil
}

// Save rewrites the bucket with the current entries in one transaction.
func (c *BoltCache) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := c.open()
	if err != nil {
		return err
	}

	defer db.Close()

	err = db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(bucketName)) != nil {
			if err := tx.DeleteBucket([]byte(bucketName)); err != nil {
				return err
			}
		}

		b, err := tx.CreateBucket([]byte(bucketName))
		if err != nil {
			return err
		}

		for path, entry := range c.entries {
			data, err := json.Marshal(entry)
			if err != nil {
				return err
			}

			if err := b.Put([]byte(path), data); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store cache entries: %w", err)
	}

	return nil
}

func (c *BoltCache) open() (*bbolt.DB, error) {
	db, err := bbolt.Open(c.path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	return db, nil
}

// Package cache persists trace catalogs between runs so that re-opening a
// large file does not require re-scanning it. Entries are keyed by a
// fingerprint of the source file's size and modification time; when the file
// changes, its fingerprint changes and the stale entry is simply never hit
// again.
package cache

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/boltdb/bolt"
	"github.com/goccy/go-json"

	"github.com/sixty-north/segio/catalog"
	"github.com/sixty-north/segio/scanner"
)

var bucketCatalogs = []byte("catalogs")

// ErrClosed is returned by operations on a closed cache.
var ErrClosed = errors.New("cache: closed")

// Fingerprint identifies a version of a file by its size and modification
// time. It is cheap to compute and invalidates on any rewrite.
func Fingerprint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cache: fingerprint %s: %w", path, err)
	}
	return fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano()), nil
}

// record is the stored form of a scan result. Optional catalogs are omitted
// when the file's numbering did not support them.
type record struct {
	Offsets   json.RawMessage `json:"offsets"`
	Lengths   json.RawMessage `json:"lengths"`
	Ensembles json.RawMessage `json:"ensembles,omitempty"`
	Grid      json.RawMessage `json:"grid,omitempty"`
}

// Cache is a catalog store backed by a single bolt database file.
type Cache struct {
	db *bolt.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCatalogs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create bucket: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the database file.
func (c *Cache) Close() error {
	if c.db == nil {
		return ErrClosed
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Put stores the catalogs of a scan result under the given fingerprint,
// replacing any previous entry.
func (c *Cache) Put(fingerprint string, res *scanner.Result) error {
	if c.db == nil {
		return ErrClosed
	}

	var (
		rec record
		err error
	)
	if rec.Offsets, err = catalog.Encode(res.Offsets); err != nil {
		return fmt.Errorf("cache: encode offsets: %w", err)
	}
	if rec.Lengths, err = catalog.Encode(res.Lengths); err != nil {
		return fmt.Errorf("cache: encode lengths: %w", err)
	}
	if res.Ensembles != nil {
		if rec.Ensembles, err = catalog.Encode(res.Ensembles); err != nil {
			return fmt.Errorf("cache: encode ensembles: %w", err)
		}
	}
	if res.Grid != nil {
		if rec.Grid, err = catalog.EncodeGrid(res.Grid); err != nil {
			return fmt.Errorf("cache: encode grid: %w", err)
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cache: marshal record: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCatalogs).Put([]byte(fingerprint), data)
	})
}

// Get loads the catalogs stored under the given fingerprint. The second
// return value reports whether an entry was present.
func (c *Cache) Get(fingerprint string) (*scanner.Result, bool, error) {
	if c.db == nil {
		return nil, false, ErrClosed
	}

	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketCatalogs).Get([]byte(fingerprint)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("cache: read %s: %w", fingerprint, err)
	}
	if data == nil {
		return nil, false, nil
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, fmt.Errorf("cache: unmarshal record: %w", err)
	}

	var res scanner.Result
	if res.Offsets, err = catalog.Decode(rec.Offsets); err != nil {
		return nil, false, fmt.Errorf("cache: decode offsets: %w", err)
	}
	if res.Lengths, err = catalog.Decode(rec.Lengths); err != nil {
		return nil, false, fmt.Errorf("cache: decode lengths: %w", err)
	}
	if rec.Ensembles != nil {
		if res.Ensembles, err = catalog.Decode(rec.Ensembles); err != nil {
			return nil, false, fmt.Errorf("cache: decode ensembles: %w", err)
		}
	}
	if rec.Grid != nil {
		if res.Grid, err = catalog.DecodeGrid(rec.Grid); err != nil {
			return nil, false, fmt.Errorf("cache: decode grid: %w", err)
		}
	}
	return &res, true, nil
}

// Delete removes the entry stored under the given fingerprint, if any.
func (c *Cache) Delete(fingerprint string) error {
	if c.db == nil {
		return ErrClosed
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCatalogs).Delete([]byte(fingerprint))
	})
}

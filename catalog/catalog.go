// Package catalog provides immutable integer mappings built from a single
// pass over observed (key, value) pairs. A CatalogBuilder accumulates the
// observations and, when frozen, selects the most compact representation the
// data supports: arithmetic key sequences, constant or affine value
// relationships and dense 2D grids all collapse to O(1) descriptions, while
// irregular data falls back to an explicit dictionary.
//
// A built Catalog is immutable and safe for unsynchronized concurrent reads.
package catalog

import (
	"errors"
	"iter"
)

// Common errors returned by catalog operations.
var (
	// ErrNotFound is returned by Get when the key is not in the catalog.
	ErrNotFound = errors.New("catalog: key not found")

	// ErrAmbiguous is returned by Create when the accumulated keys are not
	// unique. Duplicate keys are a structural property of some surveys
	// (e.g. non-unique ensemble numbering), so callers should treat this
	// as an expected outcome rather than a fault.
	ErrAmbiguous = errors.New("catalog: duplicate keys make the mapping ambiguous")

	// ErrConsumed is returned by Create when the builder has already
	// produced its catalog.
	ErrConsumed = errors.New("catalog: builder already consumed")
)

// GridKey locates a trace within a 3D survey grid. Keys order
// lexicographically by inline then crossline.
type GridKey struct {
	Inline    int64 `json:"inline"`
	Crossline int64 `json:"crossline"`
}

// Less reports whether k sorts before o.
func (k GridKey) Less(o GridKey) bool {
	if k.Inline != o.Inline {
		return k.Inline < o.Inline
	}
	return k.Crossline < o.Crossline
}

// Catalog is an immutable, finite mapping from keys to int64 values.
type Catalog[K comparable] interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key K) (int64, error)

	// Contains reports whether key is in the catalog.
	Contains(key K) bool

	// Len returns the number of keys.
	Len() int

	// Keys iterates over all keys in ascending order.
	Keys() iter.Seq[K]

	// KeyRange returns the smallest and largest key. Meaningful only when
	// Len() > 0.
	KeyRange() (min, max K)

	// ValueRange returns the smallest and largest value. Meaningful only
	// when Len() > 0.
	ValueRange() (min, max int64)
}

type entry struct {
	key   int64
	value int64
}

type gridEntry struct {
	key   GridKey
	value int64
}

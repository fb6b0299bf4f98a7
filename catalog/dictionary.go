package catalog

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/google/btree"
)

const btreeDegree = 16

// dictionary is the fallback representation: an ordered map holding every
// (key, value) pair explicitly.
type dictionary struct {
	tree   *btree.BTreeG[entry]
	bounds lazyBounds
}

// dictionary value bounds are not stored directly, so they are computed on
// first use and cached. The once keeps concurrent readers race free.
type lazyBounds struct {
	once sync.Once
	min  int64
	max  int64
}

func newDictionary(entries []entry) *dictionary {
	tree := btree.NewG(btreeDegree, func(a, b entry) bool {
		return a.key < b.key
	})
	for _, e := range entries {
		tree.ReplaceOrInsert(e)
	}
	return &dictionary{tree: tree}
}

// NewDictionary builds a dictionary catalog from an explicit mapping.
func NewDictionary(m map[int64]int64) Catalog[int64] {
	entries := make([]entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, entry{key: k, value: v})
	}
	return newDictionary(entries)
}

func (d *dictionary) Get(key int64) (int64, error) {
	e, ok := d.tree.Get(entry{key: key})
	if !ok {
		return 0, ErrNotFound
	}
	return e.value, nil
}

func (d *dictionary) Contains(key int64) bool {
	return d.tree.Has(entry{key: key})
}

func (d *dictionary) Len() int { return d.tree.Len() }

func (d *dictionary) Keys() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		d.tree.Ascend(func(e entry) bool {
			return yield(e.key)
		})
	}
}

func (d *dictionary) KeyRange() (int64, int64) {
	min, _ := d.tree.Min()
	max, _ := d.tree.Max()
	return min.key, max.key
}

func (d *dictionary) ValueRange() (int64, int64) {
	d.bounds.once.Do(func() {
		first := true
		d.tree.Ascend(func(e entry) bool {
			if first || e.value < d.bounds.min {
				d.bounds.min = e.value
			}
			if first || e.value > d.bounds.max {
				d.bounds.max = e.value
			}
			first = false
			return true
		})
	})
	return d.bounds.min, d.bounds.max
}

// gridDictionary is the 2D fallback representation.
type gridDictionary struct {
	tree   *btree.BTreeG[gridEntry]
	bounds lazyBounds
}

func newGridDictionary(entries []gridEntry) *gridDictionary {
	tree := btree.NewG(btreeDegree, func(a, b gridEntry) bool {
		return a.key.Less(b.key)
	})
	for _, e := range entries {
		tree.ReplaceOrInsert(e)
	}
	return &gridDictionary{tree: tree}
}

// NewGridDictionary builds a dictionary catalog over grid keys.
func NewGridDictionary(m map[GridKey]int64) Catalog[GridKey] {
	entries := make([]gridEntry, 0, len(m))
	for k, v := range m {
		entries = append(entries, gridEntry{key: k, value: v})
	}
	return newGridDictionary(entries)
}

func (d *gridDictionary) Get(key GridKey) (int64, error) {
	e, ok := d.tree.Get(gridEntry{key: key})
	if !ok {
		return 0, ErrNotFound
	}
	return e.value, nil
}

func (d *gridDictionary) Contains(key GridKey) bool {
	return d.tree.Has(gridEntry{key: key})
}

func (d *gridDictionary) Len() int { return d.tree.Len() }

func (d *gridDictionary) Keys() iter.Seq[GridKey] {
	return func(yield func(GridKey) bool) {
		d.tree.Ascend(func(e gridEntry) bool {
			return yield(e.key)
		})
	}
}

func (d *gridDictionary) KeyRange() (GridKey, GridKey) {
	min, _ := d.tree.Min()
	max, _ := d.tree.Max()
	return min.key, max.key
}

func (d *gridDictionary) ValueRange() (int64, int64) {
	d.bounds.once.Do(func() {
		first := true
		d.tree.Ascend(func(e gridEntry) bool {
			if first || e.value < d.bounds.min {
				d.bounds.min = e.value
			}
			if first || e.value > d.bounds.max {
				d.bounds.max = e.value
			}
			first = false
			return true
		})
	})
	return d.bounds.min, d.bounds.max
}

// constant maps an arbitrary key set to a single repeated value. Only the
// key set costs storage; the value is shared.
type constant struct {
	keys  []int64 // ascending, unique
	value int64
}

// NewConstant builds a constant-value catalog over the given keys. The keys
// need not be sorted; duplicates are rejected.
func NewConstant(keys []int64, value int64) (Catalog[int64], error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("catalog: constant catalog requires at least one key")
	}
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	if ContainsDuplicates(sorted) {
		return nil, fmt.Errorf("catalog: constant catalog keys must be unique")
	}
	return &constant{keys: sorted, value: value}, nil
}

func (c *constant) Get(key int64) (int64, error) {
	if !c.Contains(key) {
		return 0, ErrNotFound
	}
	return c.value, nil
}

func (c *constant) Contains(key int64) bool {
	_, ok := slices.BinarySearch(c.keys, key)
	return ok
}

func (c *constant) Len() int { return len(c.keys) }

func (c *constant) Keys() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for _, k := range c.keys {
			if !yield(k) {
				return
			}
		}
	}
}

func (c *constant) KeyRange() (int64, int64) {
	return c.keys[0], c.keys[len(c.keys)-1]
}

func (c *constant) ValueRange() (int64, int64) {
	return c.value, c.value
}

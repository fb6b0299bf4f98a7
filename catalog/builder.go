package catalog

import (
	"cmp"
	"slices"
)

// Builder accumulates (key, value) observations and freezes them into the
// most compact Catalog representation the data supports. Duplicate keys are
// accepted during accumulation; they are only detected, and reported as
// ErrAmbiguous, when Create runs.
//
// A Builder is not safe for concurrent use and is consumed by Create: the
// accumulation buffer moves into the catalog and a second Create returns
// ErrConsumed.
type Builder struct {
	entries  []entry
	consumed bool
}

// NewBuilder returns an empty builder for scalar keys.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add records one observation.
func (b *Builder) Add(key, value int64) {
	b.entries = append(b.entries, entry{key: key, value: value})
}

// Len returns the number of observations recorded so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Create selects and constructs the best-fitting representation:
//
//  1. Fewer than two entries become a dictionary.
//  2. Duplicate keys yield ErrAmbiguous.
//  3. An arithmetic key sequence combines with a constant value into
//     RegularConstant, with an arithmetic value sequence into LinearRegular,
//     and with arbitrary values into Regular.
//  4. Irregular keys with a constant value become Constant; otherwise the
//     dictionary fallback holds every pair explicitly.
//
// LinearRegular is only chosen when the affine formula reproduces every
// observed entry; a constant stride among the sorted values is necessary but
// not sufficient (the values could, for example, decrease in key order).
func (b *Builder) Create() (Catalog[int64], error) {
	if b.consumed {
		return nil, ErrConsumed
	}
	entries := b.entries
	b.entries = nil
	b.consumed = true

	if len(entries) < 2 {
		return newDictionary(entries), nil
	}

	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.key, b.key)
	})

	keys := make([]int64, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	if ContainsDuplicates(keys) {
		return nil, ErrAmbiguous
	}

	// Measure the value shape on a value-sorted copy of the pairs. Sorting
	// whole pairs keeps the key association intact so the values can be
	// read back in key order afterwards.
	byValue := slices.Clone(entries)
	slices.SortFunc(byValue, func(a, b entry) int {
		return cmp.Compare(a.value, b.value)
	})
	valueMin := byValue[0].value
	valueMax := byValue[len(byValue)-1].value
	sortedValues := make([]int64, len(byValue))
	for i, e := range byValue {
		sortedValues[i] = e.value
	}
	valueStride, valuesRegular := MeasureStride(sortedValues)

	keyMin := keys[0]
	keyMax := keys[len(keys)-1]
	keyStride, keysRegular := MeasureStride(keys)

	if !keysRegular {
		if valuesRegular && valueStride == 0 {
			return NewConstant(keys, valueMin)
		}
		return newDictionary(entries), nil
	}

	switch {
	case valuesRegular && valueStride == 0:
		return NewRegularConstant(keyMin, keyMax, keyStride, valueMin)
	case valuesRegular && affineMatches(entries, keyMin, keyStride, valueMin, valueStride):
		return NewLinearRegular(keyMin, keyMax, keyStride, valueMin, valueMax, valueStride)
	default:
		values := make([]int64, len(entries))
		for i, e := range entries {
			values[i] = e.value
		}
		return NewRegular(keyMin, keyMax, keyStride, values)
	}
}

// affineMatches reports whether every entry satisfies
// value = valueMin + index(key)*valueStride. The entries must be sorted by
// key with constant stride.
func affineMatches(entries []entry, keyMin, keyStride, valueMin, valueStride int64) bool {
	for _, e := range entries {
		index := (e.key - keyMin) / keyStride
		if e.value != valueMin+index*valueStride {
			return false
		}
	}
	return true
}

// GridBuilder accumulates observations keyed by survey grid position and
// freezes them into either a RowMajor catalog, when every value is
// predictable from its position within the bounding rectangle, or a
// dictionary. Like Builder it is consumed by Create.
type GridBuilder struct {
	entries  []gridEntry
	consumed bool
}

// NewGridBuilder returns an empty builder for grid keys.
func NewGridBuilder() *GridBuilder {
	return &GridBuilder{}
}

// Add records one observation.
func (b *GridBuilder) Add(inline, crossline, value int64) {
	b.entries = append(b.entries, gridEntry{
		key:   GridKey{Inline: inline, Crossline: crossline},
		value: value,
	})
}

// Len returns the number of observations recorded so far.
func (b *GridBuilder) Len() int {
	return len(b.entries)
}

// Create selects RowMajor when one value shift makes the row-major formula
// reproduce every observed entry, and falls back to a dictionary otherwise.
// Duplicate grid keys yield ErrAmbiguous. The row-major selection is
// opportunistic: it cannot tell a dense rectangle from a sparse key set that
// happens to satisfy the formula, so correctness of lookups for observed
// keys never depends on which representation wins.
func (b *GridBuilder) Create() (Catalog[GridKey], error) {
	if b.consumed {
		return nil, ErrConsumed
	}
	entries := b.entries
	b.entries = nil
	b.consumed = true

	if len(entries) < 2 {
		return newGridDictionary(entries), nil
	}

	slices.SortFunc(entries, func(a, b gridEntry) int {
		switch {
		case a.key.Less(b.key):
			return -1
		case b.key.Less(a.key):
			return 1
		default:
			return 0
		}
	})

	keys := make([]GridKey, len(entries))
	inlines := make([]int64, len(entries))
	crosslines := make([]int64, len(entries))
	for i, e := range entries {
		keys[i] = e.key
		inlines[i] = e.key.Inline
		crosslines[i] = e.key.Crossline
	}
	if ContainsDuplicates(keys) {
		return nil, ErrAmbiguous
	}

	inlineMin, inlineMax, _ := MinMax(inlines)
	crosslineMin, crosslineMax, _ := MinMax(crosslines)
	width := crosslineMax + 1 - crosslineMin

	first := entries[0]
	shift := first.value -
		(first.key.Inline-inlineMin)*width -
		(first.key.Crossline - crosslineMin)
	for _, e := range entries[1:] {
		predicted := (e.key.Inline-inlineMin)*width +
			(e.key.Crossline - crosslineMin) + shift
		if e.value != predicted {
			return newGridDictionary(entries), nil
		}
	}

	return NewRowMajor(inlineMin, inlineMax, crosslineMin, crosslineMax, shift)
}

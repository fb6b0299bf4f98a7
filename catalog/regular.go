package catalog

import (
	"fmt"
	"iter"
	"slices"
)

// regularRange describes an arithmetic key sequence keyMin, keyMin+stride,
// ..., keyMax in constant space.
type regularRange struct {
	keyMin int64
	keyMax int64
	stride int64
}

func newRegularRange(keyMin, keyMax, stride int64) (regularRange, error) {
	if stride <= 0 {
		return regularRange{}, fmt.Errorf("catalog: key stride %d is not positive", stride)
	}
	if keyMax < keyMin {
		return regularRange{}, fmt.Errorf("catalog: key range [%d, %d] is inverted", keyMin, keyMax)
	}
	if (keyMax-keyMin)%stride != 0 {
		return regularRange{}, fmt.Errorf("catalog: key range [%d, %d] is not divisible by stride %d", keyMin, keyMax, stride)
	}
	return regularRange{keyMin: keyMin, keyMax: keyMax, stride: stride}, nil
}

func (r regularRange) Contains(key int64) bool {
	return key >= r.keyMin && key <= r.keyMax && (key-r.keyMin)%r.stride == 0
}

// index returns the zero-based position of key along the sequence. The key
// must be a member.
func (r regularRange) index(key int64) int64 {
	return (key - r.keyMin) / r.stride
}

func (r regularRange) Len() int {
	return int((r.keyMax-r.keyMin)/r.stride) + 1
}

func (r regularRange) Keys() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for k := r.keyMin; k <= r.keyMax; k += r.stride {
			if !yield(k) {
				return
			}
		}
	}
}

func (r regularRange) KeyRange() (int64, int64) {
	return r.keyMin, r.keyMax
}

// regularConstant maps an arithmetic key sequence to a single repeated
// value in constant space.
type regularConstant struct {
	regularRange
	value int64
}

// NewRegularConstant builds a catalog mapping the arithmetic key sequence
// keyMin, keyMin+stride, ..., keyMax to a single value.
func NewRegularConstant(keyMin, keyMax, stride, value int64) (Catalog[int64], error) {
	rr, err := newRegularRange(keyMin, keyMax, stride)
	if err != nil {
		return nil, err
	}
	return &regularConstant{regularRange: rr, value: value}, nil
}

func (c *regularConstant) Get(key int64) (int64, error) {
	if !c.Contains(key) {
		return 0, ErrNotFound
	}
	return c.value, nil
}

func (c *regularConstant) ValueRange() (int64, int64) {
	return c.value, c.value
}

// regular maps an arithmetic key sequence to arbitrary values held in a
// positional list.
type regular struct {
	regularRange
	values []int64 // indexed by position along the key sequence
	bounds lazyBounds
}

// NewRegular builds a catalog mapping the arithmetic key sequence keyMin,
// keyMin+stride, ..., keyMax to values, where values[i] belongs to the i-th
// key of the sequence.
func NewRegular(keyMin, keyMax, stride int64, values []int64) (Catalog[int64], error) {
	rr, err := newRegularRange(keyMin, keyMax, stride)
	if err != nil {
		return nil, err
	}
	if rr.Len() != len(values) {
		return nil, fmt.Errorf("catalog: key sequence has %d keys but %d values were supplied", rr.Len(), len(values))
	}
	return &regular{regularRange: rr, values: slices.Clone(values)}, nil
}

func (c *regular) Get(key int64) (int64, error) {
	if !c.Contains(key) {
		return 0, ErrNotFound
	}
	return c.values[c.index(key)], nil
}

func (c *regular) ValueRange() (int64, int64) {
	c.bounds.once.Do(func() {
		c.bounds.min, c.bounds.max, _ = MinMax(c.values)
	})
	return c.bounds.min, c.bounds.max
}

// linearRegular maps an arithmetic key sequence to an arithmetic value
// sequence in constant space: the value of the i-th key is
// valueMin + i*valueStride.
type linearRegular struct {
	regularRange
	valueMin    int64
	valueMax    int64
	valueStride int64
}

// NewLinearRegular builds a catalog over the arithmetic key sequence keyMin,
// keyMin+keyStride, ..., keyMax whose values follow the arithmetic sequence
// valueMin, valueMin+valueStride, ..., valueMax in key order. Both sequences
// must have the same number of elements.
func NewLinearRegular(keyMin, keyMax, keyStride, valueMin, valueMax, valueStride int64) (Catalog[int64], error) {
	rr, err := newRegularRange(keyMin, keyMax, keyStride)
	if err != nil {
		return nil, err
	}
	if valueStride <= 0 {
		return nil, fmt.Errorf("catalog: value stride %d is not positive", valueStride)
	}
	if valueMax < valueMin {
		return nil, fmt.Errorf("catalog: value range [%d, %d] is inverted", valueMin, valueMax)
	}
	if (valueMax-valueMin)%valueStride != 0 {
		return nil, fmt.Errorf("catalog: value range [%d, %d] is not divisible by stride %d", valueMin, valueMax, valueStride)
	}
	if (valueMax-valueMin)/valueStride != (keyMax-keyMin)/keyStride {
		return nil, fmt.Errorf("catalog: key and value sequences have different lengths")
	}
	return &linearRegular{
		regularRange: rr,
		valueMin:     valueMin,
		valueMax:     valueMax,
		valueStride:  valueStride,
	}, nil
}

func (c *linearRegular) Get(key int64) (int64, error) {
	if !c.Contains(key) {
		return 0, ErrNotFound
	}
	return c.valueMin + c.index(key)*c.valueStride, nil
}

func (c *linearRegular) ValueRange() (int64, int64) {
	return c.valueMin, c.valueMax
}

package catalog

import (
	"fmt"
	"iter"
)

// rowMajor maps a dense rectangular grid of keys to values predictable from
// grid position: value(i, j) = (i-iMin)*width + (j-jMin) + shift, where the
// crossline coordinate varies fastest.
//
// The dense-rectangle assumption is verified only against the entries that
// were actually observed when the catalog was built. A sparse key set that
// happens to satisfy the formula on the observed subset is indistinguishable
// from a genuinely dense grid, so Contains reports true for every key inside
// the bounding rectangle whether or not it was ever seen. Callers that need
// exact membership must use a dictionary catalog instead.
type rowMajor struct {
	inlineMin    int64
	inlineMax    int64
	crosslineMin int64
	crosslineMax int64
	shift        int64
}

// NewRowMajor builds a row-major grid catalog over the rectangle
// [inlineMin, inlineMax] x [crosslineMin, crosslineMax] with the given value
// shift. See the package documentation for the dense-rectangle caveat.
func NewRowMajor(inlineMin, inlineMax, crosslineMin, crosslineMax, shift int64) (Catalog[GridKey], error) {
	if inlineMax < inlineMin {
		return nil, fmt.Errorf("catalog: inline range [%d, %d] is inverted", inlineMin, inlineMax)
	}
	if crosslineMax < crosslineMin {
		return nil, fmt.Errorf("catalog: crossline range [%d, %d] is inverted", crosslineMin, crosslineMax)
	}
	return &rowMajor{
		inlineMin:    inlineMin,
		inlineMax:    inlineMax,
		crosslineMin: crosslineMin,
		crosslineMax: crosslineMax,
		shift:        shift,
	}, nil
}

func (c *rowMajor) width() int64 {
	return c.crosslineMax + 1 - c.crosslineMin
}

func (c *rowMajor) Get(key GridKey) (int64, error) {
	if !c.Contains(key) {
		return 0, ErrNotFound
	}
	return (key.Inline-c.inlineMin)*c.width() + (key.Crossline - c.crosslineMin) + c.shift, nil
}

func (c *rowMajor) Contains(key GridKey) bool {
	return key.Inline >= c.inlineMin && key.Inline <= c.inlineMax &&
		key.Crossline >= c.crosslineMin && key.Crossline <= c.crosslineMax
}

func (c *rowMajor) Len() int {
	return int((c.inlineMax - c.inlineMin + 1) * c.width())
}

func (c *rowMajor) Keys() iter.Seq[GridKey] {
	return func(yield func(GridKey) bool) {
		for i := c.inlineMin; i <= c.inlineMax; i++ {
			for j := c.crosslineMin; j <= c.crosslineMax; j++ {
				if !yield(GridKey{Inline: i, Crossline: j}) {
					return
				}
			}
		}
	}
}

func (c *rowMajor) KeyRange() (GridKey, GridKey) {
	return GridKey{Inline: c.inlineMin, Crossline: c.crosslineMin},
		GridKey{Inline: c.inlineMax, Crossline: c.crosslineMax}
}

func (c *rowMajor) ValueRange() (int64, int64) {
	return c.shift, int64(c.Len()) - 1 + c.shift
}

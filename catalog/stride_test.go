package catalog_test

import (
	"testing"

	"github.com/sixty-north/segio/catalog"
	"github.com/stretchr/testify/assert"
)

func TestMeasureStride(t *testing.T) {
	tests := []struct {
		name   string
		seq    []int64
		stride int64
		ok     bool
	}{
		{name: "empty", seq: nil, ok: false},
		{name: "single", seq: []int64{7}, ok: false},
		{name: "pair", seq: []int64{3, 8}, stride: 5, ok: true},
		{name: "constant", seq: []int64{4, 4, 4, 4}, stride: 0, ok: true},
		{name: "regular", seq: []int64{0, 5, 10, 15}, stride: 5, ok: true},
		{name: "negative", seq: []int64{10, 7, 4, 1}, stride: -3, ok: true},
		{name: "irregular", seq: []int64{0, 5, 11}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stride, ok := catalog.MeasureStride(tt.seq)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.stride, stride)
			}
		})
	}
}

func TestMinMax(t *testing.T) {
	_, _, ok := catalog.MinMax(nil)
	assert.False(t, ok)

	min, max, ok := catalog.MinMax([]int64{42})
	assert.True(t, ok)
	assert.Equal(t, int64(42), min)
	assert.Equal(t, int64(42), max)

	min, max, ok = catalog.MinMax([]int64{3, -7, 12, 0})
	assert.True(t, ok)
	assert.Equal(t, int64(-7), min)
	assert.Equal(t, int64(12), max)
}

func TestContainsDuplicates(t *testing.T) {
	assert.False(t, catalog.ContainsDuplicates[int64](nil))
	assert.False(t, catalog.ContainsDuplicates([]int64{1}))
	assert.False(t, catalog.ContainsDuplicates([]int64{1, 2, 3}))
	assert.True(t, catalog.ContainsDuplicates([]int64{1, 2, 2, 3}))

	assert.True(t, catalog.ContainsDuplicates([]catalog.GridKey{
		{Inline: 1, Crossline: 2},
		{Inline: 1, Crossline: 2},
	}))
	assert.False(t, catalog.ContainsDuplicates([]catalog.GridKey{
		{Inline: 1, Crossline: 2},
		{Inline: 1, Crossline: 3},
	}))
}

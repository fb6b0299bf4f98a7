package catalog_test

import (
	"math/rand"
	"testing"

	"github.com/sixty-north/segio/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderRoundTrip(t *testing.T) {
	mapping := map[int64]int64{
		12: 300,
		7:  1024,
		-3: 0,
		99: -17,
		40: 300,
	}

	b := catalog.NewBuilder()
	for k, v := range mapping {
		b.Add(k, v)
	}

	c, err := b.Create()
	require.NoError(t, err)
	assert.Equal(t, len(mapping), c.Len())

	for k, want := range mapping {
		assert.True(t, c.Contains(k))
		got, err := c.Get(k)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBuilderRegularConstantSelection(t *testing.T) {
	b := catalog.NewBuilder()
	for k := int64(0); k < 100; k += 5 {
		b.Add(k, 7)
	}

	c, err := b.Create()
	require.NoError(t, err)
	require.Equal(t, 20, c.Len())

	got, err := c.Get(50)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	_, err = c.Get(3)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.False(t, c.Contains(3))

	min, max := c.ValueRange()
	assert.Equal(t, int64(7), min)
	assert.Equal(t, int64(7), max)
}

func TestBuilderLinearRegularSelection(t *testing.T) {
	b := catalog.NewBuilder()
	b.Add(0, 1000)
	b.Add(5, 1003)
	b.Add(10, 1006)

	c, err := b.Create()
	require.NoError(t, err)

	got, err := c.Get(5)
	require.NoError(t, err)
	assert.Equal(t, int64(1003), got)

	got, err = c.Get(10)
	require.NoError(t, err)
	assert.Equal(t, int64(1006), got)

	_, err = c.Get(7)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestBuilderDecreasingValuesStayExact(t *testing.T) {
	// The sorted values have a constant stride but decrease in key order,
	// so the affine shortcut would misreport every lookup. The builder must
	// notice and keep the values positionally instead.
	b := catalog.NewBuilder()
	b.Add(0, 1006)
	b.Add(5, 1003)
	b.Add(10, 1000)

	c, err := b.Create()
	require.NoError(t, err)

	for k, want := range map[int64]int64{0: 1006, 5: 1003, 10: 1000} {
		got, err := c.Get(k)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBuilderIrregularKeysConstantValue(t *testing.T) {
	b := catalog.NewBuilder()
	for _, k := range []int64{3, 1, 9, 4} {
		b.Add(k, 10)
	}

	c, err := b.Create()
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	for _, k := range []int64{3, 1, 9, 4} {
		got, err := c.Get(k)
		require.NoError(t, err)
		assert.Equal(t, int64(10), got)
	}

	assert.False(t, c.Contains(2))
	assert.False(t, c.Contains(10))
}

func TestBuilderIrregularKeysIrregularValues(t *testing.T) {
	mapping := map[int64]int64{1: 11, 2: 9, 4: 31, 9: 5}

	b := catalog.NewBuilder()
	for k, v := range mapping {
		b.Add(k, v)
	}

	c, err := b.Create()
	require.NoError(t, err)

	for k, want := range mapping {
		got, err := c.Get(k)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	min, max := c.KeyRange()
	assert.Equal(t, int64(1), min)
	assert.Equal(t, int64(9), max)

	vmin, vmax := c.ValueRange()
	assert.Equal(t, int64(5), vmin)
	assert.Equal(t, int64(31), vmax)
}

func TestBuilderRegularKeysIrregularValues(t *testing.T) {
	values := []int64{40, 10, 90, 20}

	b := catalog.NewBuilder()
	for i, v := range values {
		b.Add(int64(i)*3, v)
	}

	c, err := b.Create()
	require.NoError(t, err)

	for i, want := range values {
		got, err := c.Get(int64(i) * 3)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBuilderDuplicateKeys(t *testing.T) {
	b := catalog.NewBuilder()
	b.Add(5, 1)
	b.Add(5, 2)

	c, err := b.Create()
	assert.ErrorIs(t, err, catalog.ErrAmbiguous)
	assert.Nil(t, c)
}

func TestBuilderConsumed(t *testing.T) {
	b := catalog.NewBuilder()
	b.Add(1, 10)

	_, err := b.Create()
	require.NoError(t, err)

	_, err = b.Create()
	assert.ErrorIs(t, err, catalog.ErrConsumed)
}

func TestBuilderFewEntries(t *testing.T) {
	empty, err := catalog.NewBuilder().Create()
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	assert.False(t, empty.Contains(0))

	b := catalog.NewBuilder()
	b.Add(17, 4)
	single, err := b.Create()
	require.NoError(t, err)
	assert.Equal(t, 1, single.Len())
	got, err := single.Get(17)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)
}

func TestBuilderKeysAscend(t *testing.T) {
	b := catalog.NewBuilder()
	for _, k := range []int64{9, 1, 4, 3} {
		b.Add(k, k*2)
	}

	c, err := b.Create()
	require.NoError(t, err)

	var keys []int64
	for k := range c.Keys() {
		keys = append(keys, k)
	}
	assert.Equal(t, []int64{1, 3, 4, 9}, keys)
}

func TestGridBuilderRowMajorSelection(t *testing.T) {
	b := catalog.NewGridBuilder()
	for i := int64(0); i <= 2; i++ {
		for j := int64(0); j <= 3; j++ {
			b.Add(i, j, i*4+j)
		}
	}

	c, err := b.Create()
	require.NoError(t, err)
	assert.Equal(t, 12, c.Len())

	got, err := c.Get(catalog.GridKey{Inline: 1, Crossline: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(6), got)

	// Iteration covers the whole rectangle in row-major order.
	var keys []catalog.GridKey
	for k := range c.Keys() {
		keys = append(keys, k)
	}
	require.Len(t, keys, 12)
	n := 0
	for i := int64(0); i <= 2; i++ {
		for j := int64(0); j <= 3; j++ {
			assert.Equal(t, catalog.GridKey{Inline: i, Crossline: j}, keys[n])
			n++
		}
	}
}

func TestGridBuilderFallback(t *testing.T) {
	b := catalog.NewGridBuilder()
	for i := int64(0); i <= 2; i++ {
		for j := int64(0); j <= 3; j++ {
			v := i*4 + j
			if i == 1 && j == 1 {
				v++ // break the row-major pattern
			}
			b.Add(i, j, v)
		}
	}

	c, err := b.Create()
	require.NoError(t, err)
	assert.Equal(t, 12, c.Len())

	for i := int64(0); i <= 2; i++ {
		for j := int64(0); j <= 3; j++ {
			want := i*4 + j
			if i == 1 && j == 1 {
				want++
			}
			got, err := c.Get(catalog.GridKey{Inline: i, Crossline: j})
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}

	assert.False(t, c.Contains(catalog.GridKey{Inline: 5, Crossline: 5}))
}

func TestGridBuilderDuplicateKeys(t *testing.T) {
	b := catalog.NewGridBuilder()
	b.Add(1, 2, 0)
	b.Add(1, 2, 1)

	_, err := b.Create()
	assert.ErrorIs(t, err, catalog.ErrAmbiguous)
}

func TestGridBuilderShiftedValues(t *testing.T) {
	// Same rectangle, values offset by a constant: still row-major.
	b := catalog.NewGridBuilder()
	for i := int64(10); i <= 12; i++ {
		for j := int64(100); j <= 103; j++ {
			b.Add(i, j, (i-10)*4+(j-100)+500)
		}
	}

	c, err := b.Create()
	require.NoError(t, err)

	got, err := c.Get(catalog.GridKey{Inline: 11, Crossline: 102})
	require.NoError(t, err)
	assert.Equal(t, int64(506), got)

	min, max := c.ValueRange()
	assert.Equal(t, int64(500), min)
	assert.Equal(t, int64(511), max)
}

func FuzzBuilderRoundTrip(f *testing.F) {
	f.Add(int64(1), 10)
	f.Add(int64(42), 100)
	f.Add(int64(-7), 3)

	f.Fuzz(func(t *testing.T, seed int64, n int) {
		if n < 0 || n > 1000 {
			return
		}
		rng := rand.New(rand.NewSource(seed))

		mapping := make(map[int64]int64, n)
		b := catalog.NewBuilder()
		duplicates := false
		for i := 0; i < n; i++ {
			k := rng.Int63n(10000)
			v := rng.Int63n(10000)
			if _, seen := mapping[k]; seen {
				duplicates = true
			} else {
				mapping[k] = v
			}
			b.Add(k, v)
		}

		c, err := b.Create()
		if duplicates {
			require.ErrorIs(t, err, catalog.ErrAmbiguous)
			return
		}
		require.NoError(t, err)
		require.Equal(t, len(mapping), c.Len())
		for k, want := range mapping {
			got, err := c.Get(k)
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	})
}

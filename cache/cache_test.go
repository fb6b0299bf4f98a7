package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sixty-north/segio/cache"
	"github.com/sixty-north/segio/catalog"
	"github.com/sixty-north/segio/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open(filepath.Join(t.TempDir(), "catalogs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func buildResult(t *testing.T) *scanner.Result {
	t.Helper()

	offsets := catalog.NewBuilder()
	lengths := catalog.NewBuilder()
	ensembles := catalog.NewBuilder()
	grid := catalog.NewGridBuilder()
	for i := int64(0); i < 6; i++ {
		offsets.Add(i, 3600+i*340)
		lengths.Add(i, 25)
		ensembles.Add(700+i, i)
		grid.Add(1, i, i)
	}

	var (
		res scanner.Result
		err error
	)
	res.Offsets, err = offsets.Create()
	require.NoError(t, err)
	res.Lengths, err = lengths.Create()
	require.NoError(t, err)
	res.Ensembles, err = ensembles.Create()
	require.NoError(t, err)
	res.Grid, err = grid.Create()
	require.NoError(t, err)
	return &res
}

func TestPutGetRoundTrip(t *testing.T) {
	c := openCache(t)
	res := buildResult(t)

	require.NoError(t, c.Put("fp", res))

	got, ok, err := c.Get("fp")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, res.NumTraces(), got.NumTraces())
	for i := int64(0); i < 6; i++ {
		want, err := res.Offsets.Get(i)
		require.NoError(t, err)
		have, err := got.Offsets.Get(i)
		require.NoError(t, err)
		assert.Equal(t, want, have)
	}
	index, err := got.Ensembles.Get(703)
	require.NoError(t, err)
	assert.EqualValues(t, 3, index)
	index, err = got.Grid.Get(catalog.GridKey{Inline: 1, Crossline: 4})
	require.NoError(t, err)
	assert.EqualValues(t, 4, index)
}

func TestGetMiss(t *testing.T) {
	c := openCache(t)

	got, ok, err := c.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestOptionalCatalogsStayAbsent(t *testing.T) {
	c := openCache(t)
	res := buildResult(t)
	res.Ensembles = nil
	res.Grid = nil

	require.NoError(t, c.Put("fp", res))

	got, ok, err := c.Get("fp")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, got.Ensembles)
	assert.Nil(t, got.Grid)
	assert.NotNil(t, got.Offsets)
}

func TestPutReplaces(t *testing.T) {
	c := openCache(t)
	res := buildResult(t)

	require.NoError(t, c.Put("fp", res))

	res2 := buildResult(t)
	res2.Grid = nil
	require.NoError(t, c.Put("fp", res2))

	got, ok, err := c.Get("fp")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, got.Grid)
}

func TestDelete(t *testing.T) {
	c := openCache(t)
	require.NoError(t, c.Put("fp", buildResult(t)))
	require.NoError(t, c.Delete("fp"))

	_, ok, err := c.Get("fp")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClosed(t *testing.T) {
	c := openCache(t)
	require.NoError(t, c.Close())

	assert.ErrorIs(t, c.Put("fp", buildResult(t)), cache.ErrClosed)
	_, _, err := c.Get("fp")
	assert.ErrorIs(t, err, cache.ErrClosed)
	assert.ErrorIs(t, c.Delete("fp"), cache.ErrClosed)
}

func TestFingerprintChangesWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line.segy")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0644))

	fp1, err := cache.Fingerprint(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("longer contents"), 0644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))

	fp2, err := cache.Fingerprint(path)
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp2)

	_, err = cache.Fingerprint(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

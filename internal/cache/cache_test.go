package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilefit/tilefit/internal/cache"
	"github.com/tilefit/tilefit/internal/puzzle"
	"github.com/tilefit/tilefit/internal/testutil"
)

func TestSignatureStableAcrossRuns(t *testing.T) {
	geo, err := puzzle.NewGeometry(2, 8, 8)
	require.NoError(t, err)

	dir := t.TempDir()
	testutil.WriteTiles(t, dir, testutil.Cut(t, testutil.Gradient(8, 8), geo))

	sig1, err := cache.Signature(dir, geo)
	require.NoError(t, err)
	sig2, err := cache.Signature(dir, geo)
	require.NoError(t, err)
	assert.Equal(t, sig1, sig2)
	assert.Len(t, sig1, 64)
}

func TestSignatureChangesWithContentAndGeometry(t *testing.T) {
	geo, err := puzzle.NewGeometry(2, 8, 8)
	require.NoError(t, err)

	dir := t.TempDir()
	testutil.WriteTiles(t, dir, testutil.Cut(t, testutil.Gradient(8, 8), geo))

	base, err := cache.Signature(dir, geo)
	require.NoError(t, err)

	// Different geometry, same files.
	geo4, err := puzzle.NewGeometry(4, 8, 8)
	require.NoError(t, err)
	other, err := cache.Signature(dir, geo4)
	require.NoError(t, err)
	assert.NotEqual(t, base, other)

	// Touching a file's content changes the signature.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tile_00_00.png"), []byte("changed"), 0o644))
	changed, err := cache.Signature(dir, geo)
	require.NoError(t, err)
	assert.NotEqual(t, base, changed)
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := cache.Open(filepath.Join(t.TempDir(), "layouts.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	layout := cache.Layout{
		"a.png": {Col: 0, Row: 0},
		"b.png": {Col: 1, Row: 0},
		"c.png": {Col: 0, Row: 1},
	}
	require.NoError(t, store.Put(ctx, "sig-1", layout))

	got, err := store.Get(ctx, "sig-1")
	require.NoError(t, err)
	assert.Equal(t, layout, got)
}

func TestStoreGetMiss(t *testing.T) {
	store, err := cache.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(context.Background(), "unknown")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestStorePutReplacesLayout(t *testing.T) {
	store, err := cache.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "sig", cache.Layout{"a.png": {Col: 0, Row: 0}, "b.png": {Col: 1, Row: 0}}))
	require.NoError(t, store.Put(ctx, "sig", cache.Layout{"a.png": {Col: 2, Row: 3}}))

	got, err := store.Get(ctx, "sig")
	require.NoError(t, err)
	assert.Equal(t, cache.Layout{"a.png": {Col: 2, Row: 3}}, got)
}

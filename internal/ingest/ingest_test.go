package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tferrors "github.com/tilefit/tilefit/internal/errors"
	"github.com/tilefit/tilefit/internal/ingest"
	"github.com/tilefit/tilefit/internal/puzzle"
	"github.com/tilefit/tilefit/internal/testutil"
)

func TestLoadDecodesAndClassifies(t *testing.T) {
	geo, err := puzzle.NewGeometry(2, 8, 8)
	require.NoError(t, err)

	dir := t.TempDir()
	tiles := testutil.Cut(t, testutil.Gradient(8, 8), geo)
	testutil.WriteTiles(t, dir, tiles)

	pieces, err := ingest.NewLoader(4).Load(context.Background(), dir, geo)
	require.NoError(t, err)
	require.Len(t, pieces, 4)

	var colAnchors, rowAnchors, origins int
	for _, p := range pieces {
		if p.Col == 0 {
			colAnchors++
		}
		if p.Row == 0 {
			rowAnchors++
		}
		if p.Col == 0 && p.Row == 0 {
			origins++
		}
		for _, h := range p.EdgeHashes {
			assert.NotZero(t, h, "edge fingerprints should be computed at construction")
		}
	}
	assert.Equal(t, 2, colAnchors)
	assert.Equal(t, 2, rowAnchors)
	assert.Equal(t, 1, origins)
}

func TestLoadFailsOnUndecodableFile(t *testing.T) {
	geo, err := puzzle.NewGeometry(2, 8, 8)
	require.NoError(t, err)

	dir := t.TempDir()
	tiles := testutil.Cut(t, testutil.Gradient(8, 8), geo)
	testutil.WriteTiles(t, dir, tiles)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.png"), []byte("not an image"), 0o644))

	_, err = ingest.NewLoader(4).Load(context.Background(), dir, geo)
	require.Error(t, err)
	assert.True(t, tferrors.IsCategory(err, tferrors.CategoryDecode))
	assert.True(t, tferrors.IsFatal(err))
}

func TestLoadMissingDirectory(t *testing.T) {
	geo, err := puzzle.NewGeometry(2, 8, 8)
	require.NoError(t, err)

	_, err = ingest.NewLoader(1).Load(context.Background(), filepath.Join(t.TempDir(), "nope"), geo)
	require.Error(t, err)
	assert.True(t, tferrors.IsCategory(err, tferrors.CategoryFileSystem))
}

func TestLoadEmptyDirectory(t *testing.T) {
	geo, err := puzzle.NewGeometry(2, 8, 8)
	require.NoError(t, err)

	_, err = ingest.NewLoader(1).Load(context.Background(), t.TempDir(), geo)
	require.Error(t, err)
	assert.True(t, tferrors.IsCategory(err, tferrors.CategoryIngest))
}

func TestLoadSkipsSubdirectories(t *testing.T) {
	geo, err := puzzle.NewGeometry(2, 8, 8)
	require.NoError(t, err)

	dir := t.TempDir()
	tiles := testutil.Cut(t, testutil.Gradient(8, 8), geo)
	testutil.WriteTiles(t, dir, tiles)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	pieces, err := ingest.NewLoader(2).Load(context.Background(), dir, geo)
	require.NoError(t, err)
	assert.Len(t, pieces, 4)
}

func TestLoadCanceledContext(t *testing.T) {
	geo, err := puzzle.NewGeometry(2, 8, 8)
	require.NoError(t, err)

	dir := t.TempDir()
	tiles := testutil.Cut(t, testutil.Gradient(8, 8), geo)
	testutil.WriteTiles(t, dir, tiles)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ingest.NewLoader(1).Load(ctx, dir, geo)
	assert.Error(t, err)
}

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilefit/tilefit/internal/config"
	tferrors "github.com/tilefit/tilefit/internal/errors"
	"github.com/tilefit/tilefit/internal/puzzle"
	"github.com/tilefit/tilefit/internal/testutil"
)

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	CLI.Config = defaultConfigPath

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Puzzle.GridSize)
}

func TestLoadConfigFailsForExplicitMissingPath(t *testing.T) {
	CLI.Config = filepath.Join(t.TempDir(), "custom.yaml")
	_, err := loadConfig()
	assert.Error(t, err)
}

func TestOpenCacheDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Enabled = false
	assert.Nil(t, openCache(cfg, false))

	cfg.Cache.Enabled = true
	assert.Nil(t, openCache(cfg, true), "--no-cache must win over config")
}

func TestRunSolveWritesOutput(t *testing.T) {
	geo, err := puzzle.NewGeometry(2, 8, 8)
	require.NoError(t, err)

	input := t.TempDir()
	testutil.WriteTiles(t, input, testutil.Cut(t, testutil.Gradient(8, 8), geo))

	cfg := config.Default()
	cfg.Puzzle.GridSize = 2
	cfg.Puzzle.CanvasWidth = 8
	cfg.Puzzle.CanvasHeight = 8
	cfg.Solver.Workers = 2
	cfg.Cache.Enabled = false
	cfg.Output.Path = filepath.Join(t.TempDir(), "out.png")

	require.NoError(t, runSolve(cfg, input, true))
	assert.FileExists(t, cfg.Output.Path)
}

func TestRunSolveFailureCarriesCategory(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Enabled = false
	cfg.Output.Path = filepath.Join(t.TempDir(), "out.png")

	err := runSolve(cfg, filepath.Join(t.TempDir(), "missing"), true)
	require.Error(t, err)
	// The failure log labels errors by category; a missing input directory
	// must classify as a filesystem error, not internal.
	assert.Equal(t, tferrors.CategoryFileSystem, tferrors.GetCategory(err))
}

func TestRunInspect(t *testing.T) {
	geo, err := puzzle.NewGeometry(2, 8, 8)
	require.NoError(t, err)

	input := t.TempDir()
	testutil.WriteTiles(t, input, testutil.Cut(t, testutil.Gradient(8, 8), geo))

	cfg := config.Default()
	cfg.Puzzle.GridSize = 2
	cfg.Puzzle.CanvasWidth = 8
	cfg.Puzzle.CanvasHeight = 8
	cfg.Solver.Workers = 2

	require.NoError(t, runInspect(cfg, input))
}

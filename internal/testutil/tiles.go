// Package testutil provides synthetic puzzle fixtures for tests: gradient
// source images, grid cutting that mirrors the production overlap rule, and
// helpers for writing tile sets to disk.
package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/tilefit/tilefit/internal/puzzle"
)

// Gradient builds a grayscale NRGBA image whose intensity varies with both
// axes, so every row and column of pixels is distinct. The modulus must not
// be a power of two: 32*31 + 32*57 is a multiple of 256, so taking the value
// mod 256 repeats the pattern every 32 pixels along the diagonal and cuts
// pixel-identical tiles.
func Gradient(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8((x*31 + y*57) % 255)
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// Tile is one cut fragment along with its true grid position.
type Tile struct {
	Col   int
	Row   int
	Image *image.NRGBA
}

// Cut slices a source image into grid×grid tiles using the production
// overlap rule: the tile at (c, r) spans from FirstColWidth*c minus one
// pixel (for c > 0) up to FirstColWidth*(c+1), so adjacent tiles duplicate
// the shared border column/row.
func Cut(t *testing.T, src *image.NRGBA, geo puzzle.Geometry) []Tile {
	t.Helper()

	b := src.Bounds()
	if b.Dx() != geo.CanvasWidth || b.Dy() != geo.CanvasHeight {
		t.Fatalf("source is %dx%d, geometry wants %dx%d", b.Dx(), b.Dy(), geo.CanvasWidth, geo.CanvasHeight)
	}

	var tiles []Tile
	for r := 0; r < geo.GridSize; r++ {
		for c := 0; c < geo.GridSize; c++ {
			x0 := geo.FirstColWidth * c
			if c > 0 {
				x0--
			}
			y0 := geo.FirstRowHeight * r
			if r > 0 {
				y0--
			}
			x1 := geo.FirstColWidth * (c + 1)
			y1 := geo.FirstRowHeight * (r + 1)

			tile := image.NewNRGBA(image.Rect(0, 0, x1-x0, y1-y0))
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					tile.Set(x-x0, y-y0, src.At(x, y))
				}
			}
			tiles = append(tiles, Tile{Col: c, Row: r, Image: tile})
		}
	}
	return tiles
}

// Pieces wraps tiles into puzzle pieces named after their true position, in
// the given order.
func Pieces(tiles []Tile, geo puzzle.Geometry) []*puzzle.Piece {
	pieces := make([]*puzzle.Piece, 0, len(tiles))
	for _, tile := range tiles {
		name := fmt.Sprintf("tile_%02d_%02d.png", tile.Col, tile.Row)
		pieces = append(pieces, puzzle.NewPiece(name, tile.Image, geo))
	}
	return pieces
}

// Shuffle returns a copy of tiles in pseudo-random order.
func Shuffle(tiles []Tile, seed int64) []Tile {
	out := make([]Tile, len(tiles))
	copy(out, tiles)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// WriteTiles encodes every tile as a PNG file in dir, named by its true
// position so tests can check assignments against the filename.
func WriteTiles(t *testing.T, dir string, tiles []Tile) {
	t.Helper()

	for _, tile := range tiles {
		name := fmt.Sprintf("tile_%02d_%02d.png", tile.Col, tile.Row)
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if err := png.Encode(f, tile.Image); err != nil {
			f.Close()
			t.Fatalf("encode %s: %v", name, err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("close %s: %v", name, err)
		}
	}
}

// Package puzzle implements the core tile-matching domain: edge
// fingerprinting, the per-side edge index, and the grid assembly traversal
// that places every tile into an absolute (col, row) position.
package puzzle

import (
	"image"

	"github.com/tilefit/tilefit/internal/errors"
)

// Side identifies one border of a piece.
type Side int

const (
	Left Side = iota
	Top
	Right
	Bottom
)

// offsets maps a side to the grid-coordinate delta of the neighbor across it.
var offsets = [4]struct{ dc, dr int }{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}

// Unresolved marks a coordinate that has not been assigned yet.
const Unresolved = -1

// Geometry describes the fixed cutting grid the tiles were produced from.
// Tiles in the first column are FirstColWidth wide; every other tile carries
// one extra pixel column shared with its left neighbor. Rows work the same
// way with FirstRowHeight.
type Geometry struct {
	GridSize       int
	CanvasWidth    int
	CanvasHeight   int
	FirstColWidth  int
	FirstRowHeight int
}

// NewGeometry derives the tile dimensions from the canvas size and grid size.
func NewGeometry(gridSize, canvasWidth, canvasHeight int) (Geometry, error) {
	if gridSize < 1 {
		return Geometry{}, errors.ValidationError("grid size must be positive")
	}
	if canvasWidth < gridSize || canvasHeight < gridSize {
		return Geometry{}, errors.ValidationError("canvas is smaller than the grid")
	}
	if canvasWidth%gridSize != 0 || canvasHeight%gridSize != 0 {
		return Geometry{}, errors.ValidationError("canvas dimensions must be divisible by the grid size").
			WithContext("canvas_width", canvasWidth).
			WithContext("canvas_height", canvasHeight).
			WithContext("grid_size", gridSize)
	}
	return Geometry{
		GridSize:       gridSize,
		CanvasWidth:    canvasWidth,
		CanvasHeight:   canvasHeight,
		FirstColWidth:  canvasWidth / gridSize,
		FirstRowHeight: canvasHeight / gridSize,
	}, nil
}

// Piece is one decoded tile of the unassembled puzzle.
//
// Col and Row start Unresolved unless the tile's dimensions mark it as an
// anchor: a tile exactly FirstColWidth wide sits in column 0, a tile exactly
// FirstRowHeight tall sits in row 0 (the origin tile is both). Coordinates
// are assigned at most once during assembly and never overwritten.
type Piece struct {
	Name       string
	Image      image.Image
	Col        int
	Row        int
	EdgeHashes [4]uint64
}

// NewPiece wraps a decoded tile, classifies anchors from its dimensions and
// computes the four edge fingerprints.
func NewPiece(name string, img image.Image, geo Geometry) *Piece {
	b := img.Bounds()
	p := &Piece{
		Name:  name,
		Image: img,
		Col:   Unresolved,
		Row:   Unresolved,
	}
	if b.Dx() == geo.FirstColWidth {
		p.Col = 0
	}
	if b.Dy() == geo.FirstRowHeight {
		p.Row = 0
	}
	p.EdgeHashes = edgeHashes(img)
	return p
}

// Placed reports whether the piece has a full grid position.
func (p *Piece) Placed() bool {
	return p.Col >= 0 && p.Row >= 0
}

// InGrid reports whether the piece's position lies inside the grid.
func (p *Piece) InGrid(geo Geometry) bool {
	return p.Col >= 0 && p.Row >= 0 && p.Col < geo.GridSize && p.Row < geo.GridSize
}

// Rect returns the piece's absolute pixel rectangle on the canvas. Tiles
// beyond the first column/row shift left/up by one pixel so that the shared
// border column/row overlaps the neighbor it was cut from.
func (p *Piece) Rect(geo Geometry) image.Rectangle {
	x := geo.FirstColWidth * p.Col
	if p.Col > 0 {
		x--
	}
	y := geo.FirstRowHeight * p.Row
	if p.Row > 0 {
		y--
	}
	b := p.Image.Bounds()
	return image.Rect(x, y, x+b.Dx(), y+b.Dy())
}

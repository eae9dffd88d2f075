// Package compose blits placed puzzle pieces onto the output canvas and
// encodes the result.
package compose

import (
	"image"
	"image/draw"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/tilefit/tilefit/internal/errors"
	"github.com/tilefit/tilefit/internal/puzzle"
	"github.com/tilefit/tilefit/internal/util/parallel"
)

// Compositor renders placed pieces into a single canvas buffer.
type Compositor struct {
	Workers int
}

// Render blits every in-grid piece into its absolute rectangle on a fresh
// canvas. Blits run in parallel; destination rectangles never overlap except
// for the one-pixel seams carrying identical content, but all writes still go
// through one mutex so the shared buffer needs no further reasoning. Pieces
// without a full grid position are silently left out and their canvas region
// stays blank.
func (c *Compositor) Render(pieces []*puzzle.Piece, geo puzzle.Geometry) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, geo.CanvasWidth, geo.CanvasHeight))

	var mu sync.Mutex
	parallel.Run(pieces, c.Workers, func(p *puzzle.Piece) {
		if !p.InGrid(geo) {
			return
		}
		rect := p.Rect(geo)

		mu.Lock()
		draw.Draw(canvas, rect, p.Image, p.Image.Bounds().Min, draw.Src)
		mu.Unlock()
	})

	return canvas
}

// Encoder writes the finished canvas to disk, choosing the format from the
// file extension.
type Encoder struct {
	JPEGQuality int
}

// WriteFile encodes img to path. JPEG quality applies only when the
// extension selects JPEG.
func (e Encoder) WriteFile(path string, img image.Image) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return errors.WrapFatal(err, errors.CategoryEncode, "unsupported output format").
			WithContext("path", path)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(e.JPEGQuality)); err != nil {
		return errors.WrapFatal(err, errors.CategoryEncode, "failed to write output image").
			WithContext("path", path)
	}
	return nil
}

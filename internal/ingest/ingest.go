// Package ingest loads a directory of tile image files into puzzle pieces.
package ingest

import (
	"context"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/tiff" // register tiff decoding
	_ "golang.org/x/image/webp" // register webp decoding

	"github.com/tilefit/tilefit/internal/errors"
	"github.com/tilefit/tilefit/internal/puzzle"
	"github.com/tilefit/tilefit/internal/util/parallel"
)

// Decoder turns a raw image stream into a pixel buffer. The default
// implementation delegates to imaging; tests may substitute their own.
type Decoder interface {
	Decode(r io.Reader) (image.Image, error)
}

// ImagingDecoder decodes via the imaging library, covering every format
// registered with image.Decode.
type ImagingDecoder struct{}

func (ImagingDecoder) Decode(r io.Reader) (image.Image, error) {
	return imaging.Decode(r)
}

// Loader decodes every image file in a directory into a Piece, in parallel.
type Loader struct {
	Decoder Decoder
	Workers int
}

// NewLoader returns a Loader using the imaging decoder.
func NewLoader(workers int) *Loader {
	return &Loader{Decoder: ImagingDecoder{}, Workers: workers}
}

// Load decodes every regular file in dir into a puzzle piece. Any file that
// fails to decode aborts the whole load: a partial tile set cannot produce a
// meaningful canvas. The returned order carries no positional meaning.
func (l *Loader) Load(ctx context.Context, dir string, geo puzzle.Geometry) ([]*puzzle.Piece, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapFatal(err, errors.CategoryFileSystem, "failed to read tile directory").
			WithContext("dir", dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, errors.Fatal(errors.CategoryIngest, "tile directory contains no files").
			WithContext("dir", dir)
	}

	slog.Debug("Decoding tiles", "dir", dir, "files", len(names), "workers", l.Workers)

	results := parallel.MapOrdered(names, l.Workers, func(name string) (*puzzle.Piece, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return l.loadOne(dir, name, geo)
	})

	pieces := make([]*puzzle.Piece, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			return nil, r.Err
		}
		pieces = append(pieces, r.Value)
	}
	return pieces, nil
}

func (l *Loader) loadOne(dir, name string, geo puzzle.Geometry) (*puzzle.Piece, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, errors.WrapFatal(err, errors.CategoryIngest, "failed to open tile file").
			WithContext("file", name)
	}
	defer f.Close()

	img, err := l.Decoder.Decode(f)
	if err != nil {
		return nil, errors.WrapFatal(err, errors.CategoryDecode, "failed to decode tile image").
			WithContext("file", name)
	}
	return puzzle.NewPiece(name, img, geo), nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tilefit/tilefit/internal/config"
	"github.com/tilefit/tilefit/internal/ingest"
	"github.com/tilefit/tilefit/internal/puzzle"
)

// runInspect decodes the tile set and reports what the solver would see,
// without assembling anything.
func runInspect(cfg *config.Config, input string) error {
	geo, err := cfg.Geometry()
	if err != nil {
		return err
	}

	pieces, err := ingest.NewLoader(cfg.Solver.Workers).Load(context.Background(), input, geo)
	if err != nil {
		return err
	}

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
	}

	slog.Info("Tile set inspected",
		"tiles", len(pieces),
		"expected", geo.GridSize*geo.GridSize,
		"column_anchors", colAnchors,
		"row_anchors", rowAnchors,
		"origins", origins)

	for _, p := range pieces {
		b := p.Image.Bounds()
		slog.Info("Tile",
			"file", p.Name,
			"size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
			"anchor", anchorLabel(p),
			"left", fmt.Sprintf("%016x", p.EdgeHashes[puzzle.Left]),
			"top", fmt.Sprintf("%016x", p.EdgeHashes[puzzle.Top]),
			"right", fmt.Sprintf("%016x", p.EdgeHashes[puzzle.Right]),
			"bottom", fmt.Sprintf("%016x", p.EdgeHashes[puzzle.Bottom]))
	}
	return nil
}

func anchorLabel(p *puzzle.Piece) string {
	switch {
	case p.Col == 0 && p.Row == 0:
		return "origin"
	case p.Col == 0:
		return "column"
	case p.Row == 0:
		return "row"
	default:
		return "none"
	}
}

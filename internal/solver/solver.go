// Package solver orchestrates the solve pipeline: ingest, assembly,
// compositing and encoding, with stage timing, metrics and the optional
// layout cache.
package solver

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tilefit/tilefit/internal/cache"
	"github.com/tilefit/tilefit/internal/compose"
	"github.com/tilefit/tilefit/internal/config"
	"github.com/tilefit/tilefit/internal/ingest"
	"github.com/tilefit/tilefit/internal/metrics"
	"github.com/tilefit/tilefit/internal/observability"
	"github.com/tilefit/tilefit/internal/puzzle"
)

// Solver runs the full pipeline for one tile directory.
type Solver struct {
	cfg      *config.Config
	loader   *ingest.Loader
	recorder metrics.Recorder
	store    *cache.Store // nil when the layout cache is disabled
}

// New builds a Solver. recorder may be nil; store may be nil to disable the
// layout cache.
func New(cfg *config.Config, recorder metrics.Recorder, store *cache.Store) *Solver {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Solver{
		cfg:      cfg,
		loader:   ingest.NewLoader(cfg.Solver.Workers),
		recorder: recorder,
		store:    store,
	}
}

// Result summarizes one completed solve run.
type Result struct {
	RunID    string
	Output   string
	Pieces   int
	Placed   int
	CacheHit bool
	Duration time.Duration
}

// Solve reconstructs the image from the tiles in inputDir and writes it to
// the configured output path.
func (s *Solver) Solve(ctx context.Context, inputDir string) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = observability.WithRunID(ctx, runID)
	ctx = observability.WithInput(ctx, inputDir)

	geo, err := s.cfg.Geometry()
	if err != nil {
		return nil, err
	}
	s.recorder.SetWorkers(s.cfg.Solver.Workers)
	observability.InfoContext(ctx, "Starting solve",
		slog.Int("grid_size", geo.GridSize),
		slog.String("output", s.cfg.Output.Path))

	var pieces []*puzzle.Piece
	err = s.timed(ctx, metrics.StageIngest, func(ctx context.Context) error {
		var err error
		pieces, err = s.loader.Load(ctx, inputDir, geo)
		return err
	})
	if err != nil {
		s.recorder.IncSolveOutcome(metrics.OutcomeFailed)
		return nil, err
	}
	s.recorder.SetPiecesTotal(len(pieces))

	cacheHit := false
	err = s.timed(ctx, metrics.StageAssemble, func(ctx context.Context) error {
		cacheHit = s.place(ctx, inputDir, pieces, geo)
		return nil
	})
	if err != nil {
		s.recorder.IncSolveOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	placed := puzzle.Placed(pieces, geo)
	s.recorder.SetPiecesPlaced(placed)
	if unresolved := len(pieces) - placed; unresolved > 0 {
		observability.InfoContext(ctx, "Some tiles could not be placed and will be omitted",
			slog.Int("unresolved", unresolved))
	}

	var canvas *image.NRGBA
	_ = s.timed(ctx, metrics.StageComposite, func(context.Context) error {
		canvas = (&compose.Compositor{Workers: s.cfg.Solver.Workers}).Render(pieces, geo)
		return nil
	})

	err = s.timed(ctx, metrics.StageEncode, func(context.Context) error {
		return compose.Encoder{JPEGQuality: s.cfg.Output.JPEGQuality}.WriteFile(s.cfg.Output.Path, canvas)
	})
	if err != nil {
		s.recorder.IncSolveOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	outcome := metrics.OutcomeSuccess
	if cacheHit {
		outcome = metrics.OutcomeCached
	}
	s.recorder.IncSolveOutcome(outcome)
	s.recorder.ObserveSolveDuration(time.Since(start))

	result := &Result{
		RunID:    runID,
		Output:   s.cfg.Output.Path,
		Pieces:   len(pieces),
		Placed:   placed,
		CacheHit: cacheHit,
		Duration: time.Since(start),
	}
	observability.InfoContext(ctx, "Solve completed",
		slog.Int("pieces", result.Pieces),
		slog.Int("placed", result.Placed),
		slog.Bool("cache_hit", result.CacheHit),
		slog.Duration("duration", result.Duration))
	return result, nil
}

// place assigns coordinates to every piece, from the layout cache when the
// tile set's signature is known, otherwise by running assembly and storing
// the fresh layout. Reports whether the cache was hit.
func (s *Solver) place(ctx context.Context, inputDir string, pieces []*puzzle.Piece, geo puzzle.Geometry) bool {
	signature := ""
	if s.store != nil {
		sig, err := cache.Signature(inputDir, geo)
		if err != nil {
			observability.WarnContext(ctx, "Failed to compute tile-set signature, solving without cache",
				slog.Any("error", err))
		} else {
			signature = sig
			if layout, err := s.store.Get(ctx, signature); err == nil {
				if applyLayout(pieces, layout) {
					observability.InfoContext(ctx, "Reusing cached layout")
					return true
				}
				observability.WarnContext(ctx, "Cached layout does not cover the tile set, re-solving")
			} else if !errors.Is(err, cache.ErrNotFound) {
				observability.WarnContext(ctx, "Layout cache lookup failed", slog.Any("error", err))
			}
		}
	}

	puzzle.Assemble(pieces, geo)

	if s.store != nil && signature != "" {
		// Unresolved pieces are stored with their sentinel coordinates so a
		// cached layout always covers the full tile set.
		layout := make(cache.Layout, len(pieces))
		for _, p := range pieces {
			layout[p.Name] = cache.Cell{Col: p.Col, Row: p.Row}
		}
		if err := s.store.Put(ctx, signature, layout); err != nil {
			observability.WarnContext(ctx, "Failed to store solved layout", slog.Any("error", err))
		}
	}
	return false
}

// applyLayout copies cached coordinates onto the pieces. It refuses the
// layout when any piece has no entry, so a stale cache row can never produce
// a partially placed set.
func applyLayout(pieces []*puzzle.Piece, layout cache.Layout) bool {
	for _, p := range pieces {
		if _, ok := layout[p.Name]; !ok {
			return false
		}
	}
	for _, p := range pieces {
		cell := layout[p.Name]
		p.Col, p.Row = cell.Col, cell.Row
	}
	return true
}

// timed runs one pipeline stage with duration logging and metrics.
func (s *Solver) timed(ctx context.Context, stage string, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, stage)
	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)
	s.recorder.ObserveStageDuration(stage, d)
	if err != nil {
		observability.ErrorContext(ctx, "Stage failed",
			slog.Duration("duration", d), slog.Any("error", err))
		return err
	}
	observability.DebugContext(ctx, "Stage completed", slog.Duration("duration", d))
	return nil
}

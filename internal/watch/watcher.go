// Package watch re-solves a tile directory whenever its contents change.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/tilefit/tilefit/internal/errors"
	"github.com/tilefit/tilefit/internal/observability"
	"github.com/tilefit/tilefit/internal/solver"
)

// Solver runs one solve over the watched directory.
type Solver interface {
	Solve(ctx context.Context, inputDir string) (*solver.Result, error)
}

// Watcher monitors a tile directory and re-runs the solve pipeline on
// changes. File events are debounced so a burst of writes (a tile set being
// copied in) triggers a single solve; a periodic rescan catches anything the
// events missed.
type Watcher struct {
	dir       string
	solver    Solver
	watcher   *fsnotify.Watcher
	scheduler gocron.Scheduler
	debounce  time.Duration
	rescan    time.Duration
	trigger   chan struct{}
}

// New creates a watcher for dir.
func New(dir string, s Solver, debounce, rescan time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapFatal(err, errors.CategoryFileSystem, "failed to create file watcher")
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		fsw.Close()
		return nil, errors.WrapFatal(err, errors.CategoryInternal, "failed to create scheduler")
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		fsw.Close()
		_ = scheduler.Shutdown()
		return nil, errors.WrapFatal(err, errors.CategoryFileSystem, "failed to resolve watch directory")
	}

	return &Watcher{
		dir:       absDir,
		solver:    s,
		watcher:   fsw,
		scheduler: scheduler,
		debounce:  debounce,
		rescan:    rescan,
		trigger:   make(chan struct{}, 1),
	}, nil
}

// Run solves once, then blocks re-solving on changes until ctx is canceled.
// Solve failures are logged and watching continues; only setup errors are
// returned.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return errors.WrapFatal(err, errors.CategoryFileSystem, "failed to watch tile directory").
			WithContext("dir", w.dir)
	}
	if _, err := w.scheduler.NewJob(
		gocron.DurationJob(w.rescan),
		gocron.NewTask(w.requestSolve),
		gocron.WithName("rescan"),
	); err != nil {
		return errors.WrapFatal(err, errors.CategoryInternal, "failed to schedule periodic rescan")
	}

	slog.Info("Watching tile directory", "dir", w.dir, "debounce", w.debounce, "rescan", w.rescan)
	w.scheduler.Start()
	defer func() {
		_ = w.scheduler.Shutdown()
		_ = w.watcher.Close()
	}()

	w.solve(ctx)

	go w.watchLoop(ctx)
	w.solveLoop(ctx)
	return nil
}

// requestSolve queues one solve; pending requests coalesce.
func (w *Watcher) requestSolve() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// watchLoop forwards relevant filesystem events to the solve loop.
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				slog.Debug("Tile directory changed", "file", event.Name, "op", event.Op.String())
				w.requestSolve()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

// solveLoop waits for triggers and solves after the change burst quiets down.
func (w *Watcher) solveLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.trigger:
		}

		timer := time.NewTimer(w.debounce)
	debounce:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-w.trigger:
				timer.Stop()
				timer = time.NewTimer(w.debounce)
			case <-timer.C:
				break debounce
			}
		}

		w.solve(ctx)
	}
}

func (w *Watcher) solve(ctx context.Context) {
	if _, err := w.solver.Solve(ctx, w.dir); err != nil {
		observability.ErrorContext(ctx, "Solve failed, continuing to watch", slog.Any("error", err))
	}
}

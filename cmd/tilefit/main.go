package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/tilefit/tilefit/internal/cache"
	"github.com/tilefit/tilefit/internal/config"
	"github.com/tilefit/tilefit/internal/errors"
	"github.com/tilefit/tilefit/internal/solver"
	"github.com/tilefit/tilefit/internal/watch"
)

const defaultConfigPath = "tilefit.yaml"

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"tilefit.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Solve struct {
		Input   string `arg:"" help:"Directory containing the tile images"`
		Output  string `short:"o" help:"Output image path (overrides config)"`
		NoCache bool   `help:"Solve without the layout cache"`
	} `cmd:"" help:"Reassemble the image from an unordered directory of tiles"`

	Inspect struct {
		Input string `arg:"" help:"Directory containing the tile images"`
	} `cmd:"" help:"Decode tiles and report dimensions, anchors and edge fingerprints without assembling"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Watch struct {
		Input string `arg:"" help:"Directory containing the tile images"`
	} `cmd:"" help:"Watch the tile directory and re-solve whenever it changes"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "solve <input>":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if CLI.Solve.Output != "" {
			cfg.Output.Path = CLI.Solve.Output
		}
		if err := runSolve(cfg, CLI.Solve.Input, CLI.Solve.NoCache); err != nil {
			slog.Error("Solve failed", "category", errors.GetCategory(err), "error", err)
			os.Exit(1)
		}
	case "inspect <input>":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runInspect(cfg, CLI.Inspect.Input); err != nil {
			slog.Error("Inspect failed", "category", errors.GetCategory(err), "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration file created", "path", CLI.Config)
	case "watch <input>":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runWatch(cfg, CLI.Watch.Input); err != nil {
			slog.Error("Watch failed", "category", errors.GetCategory(err), "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Unknown command", "command", ctx.Command())
		os.Exit(1)
	}
}

// loadConfig reads the configured file; when the default path does not exist
// the built-in defaults are used instead of failing.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(CLI.Config); os.IsNotExist(err) && CLI.Config == defaultConfigPath {
		slog.Debug("No configuration file found, using defaults")
		return config.Default(), nil
	}
	return config.Load(CLI.Config)
}

// openCache opens the layout cache when enabled; a cache that fails to open
// degrades to solving without one.
func openCache(cfg *config.Config, noCache bool) *cache.Store {
	if noCache || !cfg.Cache.Enabled {
		return nil
	}
	store, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		slog.Warn("Failed to open layout cache, solving without it", "path", cfg.Cache.Path, "error", err)
		return nil
	}
	return store
}

func runSolve(cfg *config.Config, input string, noCache bool) error {
	store := openCache(cfg, noCache)
	if store != nil {
		defer store.Close()
	}

	result, err := solver.New(cfg, nil, store).Solve(context.Background(), input)
	if err != nil {
		return err
	}
	slog.Info("Wrote reconstructed image",
		"output", result.Output,
		"pieces", result.Pieces,
		"placed", result.Placed,
		"duration", result.Duration)
	return nil
}

func runWatch(cfg *config.Config, input string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openCache(cfg, false)
	if store != nil {
		defer store.Close()
	}

	recorder, shutdownMetrics := setupMetrics(cfg)
	defer shutdownMetrics()

	debounce, err := cfg.Watch.DebounceDuration()
	if err != nil {
		return err
	}
	rescan, err := cfg.Watch.RescanDuration()
	if err != nil {
		return err
	}

	watcher, err := watch.New(input, solver.New(cfg, recorder, store), debounce, rescan)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}

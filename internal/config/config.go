// Package config loads and validates the tilefit configuration file.
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tilefit/tilefit/internal/errors"
	"github.com/tilefit/tilefit/internal/puzzle"
)

// Config represents the application configuration
type Config struct {
	Puzzle  PuzzleConfig  `yaml:"puzzle"`
	Solver  SolverConfig  `yaml:"solver"`
	Output  OutputConfig  `yaml:"output"`
	Cache   CacheConfig   `yaml:"cache"`
	Watch   WatchConfig   `yaml:"watch"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// PuzzleConfig describes the cutting grid the tile set was produced from.
// First-column/first-row tile dimensions are derived, not configured.
type PuzzleConfig struct {
	GridSize     int `yaml:"grid_size"`
	CanvasWidth  int `yaml:"canvas_width"`
	CanvasHeight int `yaml:"canvas_height"`
}

// SolverConfig tunes the worker pools of the parallel stages
type SolverConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Path        string `yaml:"path"`
	JPEGQuality int    `yaml:"jpeg_quality"`
}

// CacheConfig controls the solved-layout cache
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// WatchConfig tunes watch mode. Durations use Go syntax ("2s", "15m").
type WatchConfig struct {
	Debounce       string `yaml:"debounce"`
	RescanInterval string `yaml:"rescan_interval"`
}

// DebounceDuration returns the parsed debounce interval.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	return time.ParseDuration(w.Debounce)
}

// RescanDuration returns the parsed periodic rescan interval.
func (w WatchConfig) RescanDuration() (time.Duration, error) {
	return time.ParseDuration(w.RescanInterval)
}

// MetricsConfig controls the optional Prometheus exposition endpoint
// (watch mode only)
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Geometry derives the tile geometry from the puzzle configuration.
func (c *Config) Geometry() (puzzle.Geometry, error) {
	return puzzle.NewGeometry(c.Puzzle.GridSize, c.Puzzle.CanvasWidth, c.Puzzle.CanvasHeight)
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env if present; existing environment wins.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.Fatal(errors.CategoryConfig, "configuration file not found").
			WithContext("path", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.WrapFatal(err, errors.CategoryConfig, "failed to read config file")
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, errors.WrapFatal(err, errors.CategoryConfig, "failed to unmarshal config")
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Puzzle.GridSize == 0 {
		c.Puzzle.GridSize = 16
	}
	if c.Puzzle.CanvasWidth == 0 {
		c.Puzzle.CanvasWidth = 3840
	}
	if c.Puzzle.CanvasHeight == 0 {
		c.Puzzle.CanvasHeight = 2160
	}
	if c.Solver.Workers == 0 {
		c.Solver.Workers = runtime.NumCPU()
	}
	if c.Output.Path == "" {
		c.Output.Path = "result.jpg"
	}
	if c.Output.JPEGQuality == 0 {
		c.Output.JPEGQuality = 95
	}
	if c.Cache.Path == "" {
		c.Cache.Path = ".tilefit-cache.db"
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = "2s"
	}
	if c.Watch.RescanInterval == "" {
		c.Watch.RescanInterval = "15m"
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9090"
	}
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	if _, err := c.Geometry(); err != nil {
		return err
	}
	if c.Solver.Workers < 1 {
		return errors.ValidationError("solver workers must be at least 1")
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return errors.ValidationError("jpeg quality must be between 1 and 100").
			WithContext("jpeg_quality", c.Output.JPEGQuality)
	}
	if d, err := c.Watch.DebounceDuration(); err != nil || d < 0 {
		return errors.ValidationError("watch debounce must be a non-negative duration").
			WithContext("debounce", c.Watch.Debounce)
	}
	if d, err := c.Watch.RescanDuration(); err != nil || d <= 0 {
		return errors.ValidationError("watch rescan_interval must be a positive duration").
			WithContext("rescan_interval", c.Watch.RescanInterval)
	}
	return nil
}

package config

import (
	"os"

	"github.com/tilefit/tilefit/internal/errors"
)

const exampleConfig = `# tilefit configuration
puzzle:
  # The tile set was cut from a grid_size x grid_size grid.
  grid_size: 16
  canvas_width: 3840
  canvas_height: 2160

solver:
  # Worker count for parallel decode and compositing. Defaults to the
  # number of CPUs when omitted.
  # workers: 8

output:
  path: result.jpg
  jpeg_quality: 95

cache:
  # Reuse solved layouts for unchanged tile sets.
  enabled: true
  path: .tilefit-cache.db

watch:
  debounce: 2s
  rescan_interval: 15m

metrics:
  # Prometheus endpoint, served in watch mode only.
  enabled: false
  listen: ":9090"
`

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.Fatal(errors.CategoryConfig, "configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return errors.WrapFatal(err, errors.CategoryFileSystem, "failed to write config file")
	}
	return nil
}

// Package config holds the check configuration consumed by the
// ggoutlier check and the ggcheck CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Standards lists the survey accuracy standards the engine accepts.
var Standards = []string{
	"order2",
	"order1b",
	"order1a",
	"specialorder",
	"exclusiveorder",
	"hipp1",
	"hipp2",
	"hippassage",
}

// Defaults for check parameters.
const (
	DefaultStandard = "order1a"
	DefaultNear     = 5
)

// Check is the configuration of one ggoutlier check run.
type Check struct {
	// GridFile is the path of the input raster grid.
	GridFile string `yaml:"grid_file"`

	// Standard is the survey accuracy standard token.
	Standard string `yaml:"standard"`

	// Near is the near-neighbour search radius.
	Near int `yaml:"near"`

	// Verbose requests verbose engine output.
	Verbose bool `yaml:"verbose"`

	// ExportDir, when set, is the root directory the engine outputs are
	// copied to before the scratch directory is cleaned up.
	ExportDir string `yaml:"export_dir"`

	// MaxFeatures caps how many outlier points are embedded in the
	// result record. Zero means the default of 2000.
	MaxFeatures int `yaml:"max_features"`

	// EngineBinary overrides the engine executable looked up on PATH.
	EngineBinary string `yaml:"engine_binary"`
}

// Default returns a Check with default parameters and no grid file.
func Default() Check {
	return Check{
		Standard: DefaultStandard,
		Near:     DefaultNear,
	}
}

// Load reads a Check from a YAML file, applying defaults for absent
// fields.
func Load(path string) (Check, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Check{}, fmt.Errorf("config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Check{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return c, nil
}

// IsStandard reports whether s is a recognized accuracy standard token.
func IsStandard(s string) bool {
	for _, std := range Standards {
		if s == std {
			return true
		}
	}
	return false
}

// Validate checks the full configuration, including that the grid file
// exists on disk.
func (c Check) Validate() error {
	if err := c.ValidateParams(); err != nil {
		return err
	}
	if _, err := os.Stat(c.GridFile); err != nil {
		return fmt.Errorf("config: grid_file: %w", err)
	}
	return nil
}

// ValidateParams checks the check parameters without touching the
// filesystem, so it can run at construction time while grid readability
// is still deferred to the run itself.
func (c Check) ValidateParams() error {
	if c.GridFile == "" {
		return fmt.Errorf("config: grid_file is required")
	}
	if !IsStandard(c.Standard) {
		return fmt.Errorf("config: unknown standard %q", c.Standard)
	}
	if c.Near < 1 {
		return fmt.Errorf("config: near must be at least 1, got %d", c.Near)
	}
	if c.MaxFeatures < 0 {
		return fmt.Errorf("config: max_features must not be negative, got %d", c.MaxFeatures)
	}
	return nil
}

package ggoutlier

import (
	"fmt"

	"github.com/seabedqa/ggcheck/pkg/check"
	"github.com/seabedqa/ggcheck/pkg/config"
)

// Factory creates a ggoutlier Check from a config map, for use with the
// check registry.
// Required key: "grid_file" (string).
// Optional keys: "standard" (string), "near" (number), "verbose" (bool),
// "export_dir" (string), "max_features" (number).
func Factory(raw map[string]any) (check.Check, error) {
	cfg := config.Default()

	v, ok := raw["grid_file"]
	if !ok {
		return nil, fmt.Errorf("ggoutlier: config missing required key 'grid_file'")
	}
	gridFile, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("ggoutlier: 'grid_file' must be a string, got %T", v)
	}
	cfg.GridFile = gridFile

	if v, ok := raw["standard"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("ggoutlier: 'standard' must be a string, got %T", v)
		}
		cfg.Standard = s
	}

	if v, ok := raw["near"]; ok {
		n, err := toInt(v)
		if err != nil {
			return nil, fmt.Errorf("ggoutlier: 'near': %w", err)
		}
		cfg.Near = n
	}

	if v, ok := raw["verbose"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("ggoutlier: 'verbose' must be a bool, got %T", v)
		}
		cfg.Verbose = b
	}

	if v, ok := raw["export_dir"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("ggoutlier: 'export_dir' must be a string, got %T", v)
		}
		cfg.ExportDir = s
	}

	if v, ok := raw["engine_binary"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("ggoutlier: 'engine_binary' must be a string, got %T", v)
		}
		cfg.EngineBinary = s
	}

	if v, ok := raw["max_features"]; ok {
		n, err := toInt(v)
		if err != nil {
			return nil, fmt.Errorf("ggoutlier: 'max_features': %w", err)
		}
		cfg.MaxFeatures = n
	}

	return New(cfg)
}

// toInt accepts the numeric types a config map may carry depending on
// whether it came from JSON, YAML or code.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("must be a number, got %T", v)
	}
}

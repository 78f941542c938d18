// Package plugin adapts the ggoutlier check to the host QA
// application's plugin contract: it declares the check reference the
// host lists in its UI, resolves host-supplied parameters and input
// files into a check configuration, runs the checks it owns
// sequentially, and shapes each result into the host's output record.
package plugin

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/seabedqa/ggcheck/pkg/check"
	"github.com/seabedqa/ggcheck/pkg/config"
	"github.com/seabedqa/ggcheck/pkg/ggoutlier"
	"github.com/seabedqa/ggcheck/pkg/grid"
)

// SurveyDTMs is the input file group this plugin consumes.
const SurveyDTMs = "Survey DTMs"

// CheckID identifies the GGOutlier check to the host.
var CheckID = uuid.MustParse("ec2d2ebc-480e-44d8-a5c5-c9dec4f8428a")

// FileType describes a file type a check accepts.
type FileType struct {
	Name      string
	Extension string
	Group     string
	Icon      string
}

// Param is one named check parameter with its default value and, for
// enumerated parameters, the permitted options.
type Param struct {
	Name    string
	Value   any
	Options []any
}

// Reference is the check metadata the host uses for discovery and for
// building its parameter UI.
type Reference struct {
	ID            uuid.UUID
	Name          string
	Version       string
	DataLevel     string
	FileTypes     []FileType
	DefaultParams []Param
	HelpLink      string
}

// GGOutlierReference returns the reference record for the one check
// this plugin implements.
func GGOutlierReference() Reference {
	standards := make([]any, len(config.Standards))
	for i, s := range config.Standards {
		standards[i] = s
	}

	return Reference{
		ID:        CheckID,
		Name:      ggoutlier.CheckName,
		Version:   ggoutlier.Version,
		DataLevel: "survey_products",
		FileTypes: []FileType{
			{Name: "GeoTIFF", Extension: "tif", Group: SurveyDTMs, Icon: "tif.png"},
		},
		DefaultParams: []Param{
			{Name: "Standard", Value: config.DefaultStandard, Options: standards},
			{Name: "Near", Value: config.DefaultNear},
			{Name: "Verbose", Value: false},
		},
		HelpLink: "user_manual_qax_ggoutlier.html#input-parameters",
	}
}

// ParamValue looks up a parameter by name. The boolean is false when
// the parameter is not present.
func ParamValue(params []Param, name string) (any, bool) {
	for _, p := range params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// InputFile is one host-supplied candidate input.
type InputFile struct {
	Path string
	Type string
}

// BandNamesFunc reports the band names of a raster file.
type BandNamesFunc func(path string) ([]string, error)

// SelectDepthGrid picks the grid file the check should run on: the
// first Survey DTMs candidate that either carries a band named "depth"
// or is a single-band file with "depth" in its file name. The boolean
// is false when no candidate qualifies.
func SelectDepthGrid(files []InputFile, bandNames BandNamesFunc) (string, bool) {
	for _, f := range files {
		if f.Type != SurveyDTMs {
			continue
		}
		names, err := bandNames(f.Path)
		if err != nil {
			continue
		}
		for i, n := range names {
			names[i] = strings.ToLower(n)
		}

		stem := strings.ToLower(filepath.Base(f.Path))
		if strings.Contains(stem, "depth") && len(names) == 1 {
			return f.Path, true
		}
		for _, n := range names {
			if n == "depth" {
				return f.Path, true
			}
		}
	}
	return "", false
}

// CheckRequest is one host-requested check execution. Outputs is
// populated by Plugin.Run.
type CheckRequest struct {
	ID      uuid.UUID
	Params  []Param
	Files   []InputFile
	Outputs *Outputs
}

// Plugin runs the checks this module implements on behalf of the host.
type Plugin struct {
	logger    *logrus.Logger
	bandNames BandNamesFunc

	// ExportLocation, when set, enables persisting engine outputs under
	// this root directory.
	ExportLocation string

	// newCheck builds the check for a resolved configuration; a seam
	// for tests.
	newCheck func(cfg config.Check) (check.Check, error)
}

// New creates a Plugin using the default grid metadata provider.
func New(logger *logrus.Logger) *Plugin {
	return &Plugin{
		logger: logger,
		bandNames: func(path string) ([]string, error) {
			g, err := grid.Open(path)
			if err != nil {
				return nil, err
			}
			return g.BandNames(), nil
		},
		newCheck: func(cfg config.Check) (check.Check, error) {
			return ggoutlier.New(cfg, ggoutlier.WithLogger(logger))
		},
	}
}

// Run executes every matching check request in order. The host's stop
// flag is consulted between checks only, never mid-run; update, when
// non-nil, is called once after all checks finish so the host can
// refresh its report document.
func (p *Plugin) Run(ctx context.Context, requests []*CheckRequest, isStopped func() bool, update func()) {
	for _, req := range requests {
		if isStopped != nil && isStopped() {
			break
		}
		if req.ID != CheckID {
			// Other plugins' checks show up in the same list; skip them.
			continue
		}
		p.runOne(ctx, req)
	}

	if update != nil {
		update()
	}
}

func (p *Plugin) runOne(ctx context.Context, req *CheckRequest) {
	cfg := config.Default()
	if v, ok := ParamValue(req.Params, "Standard"); ok {
		if s, ok := v.(string); ok {
			cfg.Standard = s
		}
	}
	if v, ok := ParamValue(req.Params, "Near"); ok {
		cfg.Near = asInt(v, cfg.Near)
	}
	if v, ok := ParamValue(req.Params, "Verbose"); ok {
		if b, ok := v.(bool); ok {
			cfg.Verbose = b
		}
	}
	cfg.ExportDir = p.ExportLocation

	gridFile, ok := SelectDepthGrid(req.Files, p.bandNames)
	if !ok {
		msg := "Missing input depth data"
		p.logger.Info(msg)
		p.logger.Info("Aborting GGOutlier Check")
		req.Outputs = AbortedOutputs(msg)
		return
	}
	cfg.GridFile = gridFile

	chk, err := p.newCheck(cfg)
	if err != nil {
		p.logger.Infof("Aborting GGOutlier Check: %v", err)
		req.Outputs = AbortedOutputs(err.Error())
		return
	}

	res := chk.Run(ctx)
	outputs := BuildOutputs(res)
	req.Outputs = &outputs
}

// FileDetails returns a short description of a raster file for the host
// UI: one line per band name (falling back to naming conventions in the
// file name stem) and the raster dimensions.
func (p *Plugin) FileDetails(path string) (string, error) {
	g, err := grid.Open(path)
	if err != nil {
		return "", err
	}

	stem := strings.ToLower(gridStem(path))
	var lines []string
	for _, name := range g.BandNames() {
		if name != "" {
			lines = append(lines, name)
			continue
		}
		switch {
		case strings.Contains(stem, "depth"):
			lines = append(lines, "depth")
		case strings.Contains(stem, "density"):
			lines = append(lines, "density")
		case strings.Contains(stem, "uncertainty"):
			lines = append(lines, "uncertainty")
		default:
			lines = append(lines, fmt.Sprintf("Could not identify name in: %s", gridStem(path)))
		}
	}

	w, h := g.Size()
	lines = append(lines, fmt.Sprintf("%d×%d", w, h))
	return strings.Join(lines, "\n"), nil
}

func gridStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func asInt(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return fallback
}

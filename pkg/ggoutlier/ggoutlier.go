// Package ggoutlier implements the GGOutlier QA check.
//
// The check runs the external GGOutlier engine over an input bathymetry
// grid, then mines the engine's file outputs for the host report: the
// outlier shapefile becomes a WGS84 point-feature collection, the
// engine log yields the summary statistics that decide pass/fail, and
// the input grid's bounding box becomes the region-of-interest extents.
//
// A run always produces a complete check.Result; "not found" conditions
// degrade into advisory messages while parse, open and engine failures
// mark the run failed with the error captured in the execution record.
package ggoutlier

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seabedqa/ggcheck/pkg/check"
	"github.com/seabedqa/ggcheck/pkg/config"
	"github.com/seabedqa/ggcheck/pkg/engine"
	"github.com/seabedqa/ggcheck/pkg/geo"
	"github.com/seabedqa/ggcheck/pkg/grid"
	"github.com/seabedqa/ggcheck/pkg/outliers"
	"github.com/seabedqa/ggcheck/pkg/summary"
)

const (
	// TypeName is the registered name for this check type.
	TypeName = "ggoutlier"

	// CheckName is the human-readable check name, also used as the last
	// path element of the export location.
	CheckName = "GGOutlier Check"

	// Version is the check implementation version reported to the host.
	Version = "1"
)

// Advisory messages recorded in the result.
const (
	msgMissingShp = "Unable to find GGOutlier generated shp file, results cannot be extracted"
	msgMissingLog = "Unable to find GGOutlier generated log file, results cannot be extracted"
	msgOverflow   = "Note: number of outliers identified exceeds that which can be " +
		"displayed within QAX. Please view shp file included in the " +
		"detailed spatial outputs for all outlier locations."
	msgNoOutsideCount = "GGOutlier log did not report a points outside specification " +
		"count, assuming check failed"
)

// Check runs GGOutlier over one input grid. Implements check.Check.
type Check struct {
	cfg         config.Check
	logger      *logrus.Logger
	runner      engine.Runner
	transformer geo.Transformer
	openGrid    func(path string) (grid.Info, error)
	openVector  func(path string) (outliers.Dataset, error)
}

// Option is a functional option for configuring a Check.
type Option func(*Check)

// WithLogger sets the logger used for run diagnostics.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Check) { c.logger = logger }
}

// WithRunner sets the engine runner, replacing the exec-based default.
func WithRunner(r engine.Runner) Option {
	return func(c *Check) { c.runner = r }
}

// WithTransformer sets the coordinate transformer.
func WithTransformer(tr geo.Transformer) Option {
	return func(c *Check) { c.transformer = tr }
}

// WithGridOpener sets the raster metadata provider.
func WithGridOpener(open func(path string) (grid.Info, error)) Option {
	return func(c *Check) { c.openGrid = open }
}

// WithVectorOpener sets the vector dataset provider.
func WithVectorOpener(open func(path string) (outliers.Dataset, error)) Option {
	return func(c *Check) { c.openVector = open }
}

// New creates a Check from the given configuration.
// Parameter problems (unknown standard, bad radius) are rejected here;
// grid readability is checked at run time so it can surface as an
// aborted execution rather than a construction error.
func New(cfg config.Check, opts ...Option) (*Check, error) {
	if err := cfg.ValidateParams(); err != nil {
		return nil, err
	}

	c := &Check{
		cfg:         cfg,
		logger:      logrus.StandardLogger(),
		runner:      &engine.Exec{Binary: cfg.EngineBinary},
		transformer: geo.NewEPSGTransformer(),
		openVector: func(path string) (outliers.Dataset, error) {
			return outliers.OpenShapefile(path)
		},
		openGrid: func(path string) (grid.Info, error) {
			return grid.Open(path)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Type returns the check type name.
func (c *Check) Type() string {
	return TypeName
}

// Run executes the check end to end and returns its Result.
// The execution record reflects how the run ended: completed, aborted
// (unreadable input grid) or failed (engine, parse, open or export
// errors, with the error chain captured as the error detail).
func (c *Check) Run(ctx context.Context) check.Result {
	res := check.Result{State: check.StateFail}
	res.Execution = check.Execution{
		Start:  time.Now().UTC(),
		Status: check.StatusRunning,
	}

	err := c.run(ctx, &res)
	res.Execution.End = time.Now().UTC()

	if err != nil {
		if res.Execution.Status == check.StatusRunning {
			res.Execution.Status = check.StatusFailed
		}
		res.Execution.Error = fmt.Sprintf("%+v", err)
		c.logger.Errorf("GGOutlier check did not complete: %v", err)
		return res
	}

	res.Execution.Status = check.StatusCompleted
	return res
}

func (c *Check) run(ctx context.Context, res *check.Result) error {
	c.logger.Infof("Grid file: %s", c.cfg.GridFile)
	c.logger.Infof("Standard: %s", c.cfg.Standard)
	c.logger.Infof("Near: %d", c.cfg.Near)
	c.logger.Infof("Verbose: %t", c.cfg.Verbose)

	info, err := c.openGrid(c.cfg.GridFile)
	if err != nil {
		res.Execution.Status = check.StatusAborted
		return err
	}

	// Extents come from the input grid, independent of engine success.
	extents, err := grid.Extents(info, c.transformer)
	if err != nil {
		return err
	}
	res.Extents = extents

	scratch, err := engine.NewScratch()
	if err != nil {
		return err
	}
	defer func() {
		if err := scratch.Close(); err != nil {
			c.logger.Warnf("Failed to clean up scratch directory: %v", err)
		}
	}()

	gridPath, err := filepath.Abs(c.cfg.GridFile)
	if err != nil {
		return fmt.Errorf("resolving grid path: %w", err)
	}

	args := engine.Invocation{
		GridPath: gridPath,
		Near:     c.cfg.Near,
		Standard: c.cfg.Standard,
		Verbose:  c.cfg.Verbose,
		OutDir:   scratch.Dir(),
	}.Args()
	c.logger.Debugf("GGOutlier args: %s", strings.Join(args, " "))

	// The engine's diagnostic output is scoped to a private sink so it
	// cannot interfere with this process's own logging.
	sink := c.logger.WriterLevel(logrus.DebugLevel)
	runErr := c.runner.Run(ctx, args, sink)
	sink.Close()
	if runErr != nil {
		return runErr
	}

	if err := c.extractShapefile(scratch.Dir(), res); err != nil {
		return err
	}

	logFound, err := c.extractLog(scratch.Dir(), res)
	if err != nil {
		return err
	}

	c.decide(logFound, res)

	if c.cfg.ExportDir != "" {
		dest := filepath.Join(c.cfg.ExportDir, gridStem(c.cfg.GridFile), CheckName)
		c.logger.Debugf("Moving GGOutlier output: %s to %s", scratch.Dir(), dest)
		if err := scratch.Export(dest); err != nil {
			return err
		}
	}
	return nil
}

// extractShapefile locates and extracts the engine's shapefile output.
// A missing shapefile is an advisory, not a failure.
func (c *Check) extractShapefile(dir string, res *check.Result) error {
	shpPath, ok := engine.FindShapefile(dir)
	if !ok {
		c.logger.Info(msgMissingShp)
		res.AddMessage(msgMissingShp)
		return nil
	}

	c.logger.Debugf("Processing GGOutlier shp: %s", shpPath)
	ds, err := c.openVector(shpPath)
	if err != nil {
		return err
	}
	defer ds.Close()

	limit := c.cfg.MaxFeatures
	if limit == 0 {
		limit = outliers.DefaultCap
	}
	extraction, err := outliers.Extract(ds, c.transformer, limit, c.logger)
	if err != nil {
		return err
	}

	res.Map = extraction.FeatureCollection()
	res.Overflow = extraction.Overflow
	if extraction.Overflow {
		res.AddMessage(msgOverflow)
	}
	return nil
}

// extractLog locates and parses the engine's log output, populating the
// summary fields. A missing log is an advisory; an unparsable marker
// line is fatal.
func (c *Check) extractLog(dir string, res *check.Result) (bool, error) {
	logPath, ok := engine.FindLog(dir)
	if !ok {
		c.logger.Info(msgMissingLog)
		res.AddMessage(msgMissingLog)
		return false, nil
	}

	c.logger.Debugf("Processing GGOutlier log: %s", logPath)
	sum, err := summary.ParseFile(logPath)
	if err != nil {
		return false, err
	}

	res.PointsTotal = sum.PointsTotal
	res.PointsOutsideSpec = sum.PointsOutsideSpec
	res.PointsOutsideSpecPercentage = sum.PointsOutsideSpecPercentage
	return true, nil
}

// decide applies the pass/fail policy. Without a log the check fails by
// default; with a log it passes only when the engine reported zero
// points outside specification. A log that never reported the count at
// all fails rather than passing silently.
func (c *Check) decide(logFound bool, res *check.Result) {
	res.State = check.StateFail
	if !logFound {
		return
	}

	if res.PointsOutsideSpec == nil {
		c.logger.Info(msgNoOutsideCount)
		res.AddMessage(msgNoOutsideCount)
		return
	}
	if *res.PointsOutsideSpec == 0 {
		res.State = check.StatePass
	}
}

// gridStem returns the grid file name without directory or extension,
// used to name the export directory.
func gridStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

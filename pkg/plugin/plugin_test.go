package plugin

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/seabedqa/ggcheck/pkg/check"
	"github.com/seabedqa/ggcheck/pkg/config"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// stubCheck returns a canned result and records whether it ran.
type stubCheck struct {
	result check.Result
	ran    bool
}

func (s *stubCheck) Type() string { return "stub" }

func (s *stubCheck) Run(_ context.Context) check.Result {
	s.ran = true
	return s.result
}

func completedResult(state check.State) check.Result {
	var res check.Result
	res.State = state
	res.Execution.Status = check.StatusCompleted
	return res
}

// namedBands maps file paths to band name lists for SelectDepthGrid.
func namedBands(bands map[string][]string) BandNamesFunc {
	return func(path string) ([]string, error) {
		names, ok := bands[path]
		if !ok {
			return nil, fmt.Errorf("cannot open %s", path)
		}
		return names, nil
	}
}

func TestSelectDepthGrid_BandNamed(t *testing.T) {
	files := []InputFile{
		{Path: "a.tif", Type: SurveyDTMs},
		{Path: "b.tif", Type: SurveyDTMs},
	}
	bands := namedBands(map[string][]string{
		"a.tif": {"density", "uncertainty"},
		"b.tif": {"Depth"},
	})

	got, ok := SelectDepthGrid(files, bands)
	if !ok || got != "b.tif" {
		t.Errorf("expected b.tif via its depth band, got %q (%t)", got, ok)
	}
}

func TestSelectDepthGrid_SingleBandDepthName(t *testing.T) {
	files := []InputFile{{Path: "survey_DEPTH_1m.tif", Type: SurveyDTMs}}
	bands := namedBands(map[string][]string{"survey_DEPTH_1m.tif": {""}})

	got, ok := SelectDepthGrid(files, bands)
	if !ok || got != "survey_DEPTH_1m.tif" {
		t.Errorf("expected file name match, got %q (%t)", got, ok)
	}
}

func TestSelectDepthGrid_MultiBandDepthNameNotEnough(t *testing.T) {
	// A depth-named file with several unnamed bands is ambiguous.
	files := []InputFile{{Path: "depth.tif", Type: SurveyDTMs}}
	bands := namedBands(map[string][]string{"depth.tif": {"", ""}})

	if _, ok := SelectDepthGrid(files, bands); ok {
		t.Error("expected no selection for a multi-band file without a depth band")
	}
}

func TestSelectDepthGrid_IgnoresOtherGroups(t *testing.T) {
	files := []InputFile{{Path: "depth.tif", Type: "Raw Files"}}
	bands := namedBands(map[string][]string{"depth.tif": {"depth"}})

	if _, ok := SelectDepthGrid(files, bands); ok {
		t.Error("expected no selection outside the Survey DTMs group")
	}
}

func TestSelectDepthGrid_SkipsUnreadable(t *testing.T) {
	files := []InputFile{
		{Path: "broken.tif", Type: SurveyDTMs},
		{Path: "good.tif", Type: SurveyDTMs},
	}
	bands := namedBands(map[string][]string{"good.tif": {"depth"}})

	got, ok := SelectDepthGrid(files, bands)
	if !ok || got != "good.tif" {
		t.Errorf("expected unreadable candidate to be skipped, got %q (%t)", got, ok)
	}
}

func TestParamValue(t *testing.T) {
	params := []Param{{Name: "Standard", Value: "hipp1"}, {Name: "Near", Value: 3}}

	if v, ok := ParamValue(params, "Standard"); !ok || v != "hipp1" {
		t.Errorf("expected hipp1, got %v (%t)", v, ok)
	}
	if _, ok := ParamValue(params, "Nope"); ok {
		t.Error("expected no value for unknown name")
	}
}

func TestGGOutlierReference(t *testing.T) {
	ref := GGOutlierReference()

	if ref.ID != CheckID {
		t.Errorf("unexpected check id %s", ref.ID)
	}
	if ref.Name != "GGOutlier Check" {
		t.Errorf("unexpected name %q", ref.Name)
	}
	if len(ref.FileTypes) != 1 || ref.FileTypes[0].Group != SurveyDTMs {
		t.Errorf("unexpected file types %+v", ref.FileTypes)
	}

	v, ok := ParamValue(ref.DefaultParams, "Standard")
	if !ok || v != config.DefaultStandard {
		t.Errorf("expected default standard param, got %v", v)
	}
}

func newTestPlugin(bands map[string][]string, chk *stubCheck) (*Plugin, *config.Check) {
	var gotCfg config.Check
	p := &Plugin{
		logger:    quietLogger(),
		bandNames: namedBands(bands),
		newCheck: func(cfg config.Check) (check.Check, error) {
			gotCfg = cfg
			return chk, nil
		},
	}
	return p, &gotCfg
}

func TestPluginRun_ResolvesParamsAndRuns(t *testing.T) {
	chk := &stubCheck{result: completedResult(check.StatePass)}
	p, gotCfg := newTestPlugin(map[string][]string{"depth.tif": {"depth"}}, chk)
	p.ExportLocation = "/exports"

	req := &CheckRequest{
		ID: CheckID,
		Params: []Param{
			{Name: "Standard", Value: "hipp1"},
			{Name: "Near", Value: float64(3)},
			{Name: "Verbose", Value: true},
		},
		Files: []InputFile{{Path: "depth.tif", Type: SurveyDTMs}},
	}

	p.Run(context.Background(), []*CheckRequest{req}, nil, nil)

	if !chk.ran {
		t.Fatal("expected the check to run")
	}
	if gotCfg.GridFile != "depth.tif" {
		t.Errorf("unexpected grid file %q", gotCfg.GridFile)
	}
	if gotCfg.Standard != "hipp1" || gotCfg.Near != 3 || !gotCfg.Verbose {
		t.Errorf("parameters not resolved: %+v", gotCfg)
	}
	if gotCfg.ExportDir != "/exports" {
		t.Errorf("export location not applied: %q", gotCfg.ExportDir)
	}
	if req.Outputs == nil || req.Outputs.CheckState != check.StatePass {
		t.Errorf("unexpected outputs %+v", req.Outputs)
	}
}

func TestPluginRun_SkipsForeignChecks(t *testing.T) {
	chk := &stubCheck{result: completedResult(check.StatePass)}
	p, _ := newTestPlugin(map[string][]string{"depth.tif": {"depth"}}, chk)

	req := &CheckRequest{
		ID:    uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		Files: []InputFile{{Path: "depth.tif", Type: SurveyDTMs}},
	}

	p.Run(context.Background(), []*CheckRequest{req}, nil, nil)

	if chk.ran {
		t.Error("foreign check ids must be skipped")
	}
	if req.Outputs != nil {
		t.Error("skipped requests must not be given outputs")
	}
}

func TestPluginRun_MissingDepthDataAborts(t *testing.T) {
	chk := &stubCheck{result: completedResult(check.StatePass)}
	p, _ := newTestPlugin(map[string][]string{"bathy.tif": {"density"}}, chk)

	req := &CheckRequest{
		ID:    CheckID,
		Files: []InputFile{{Path: "bathy.tif", Type: SurveyDTMs}},
	}

	p.Run(context.Background(), []*CheckRequest{req}, nil, nil)

	if chk.ran {
		t.Error("check must not run without a depth grid")
	}
	if req.Outputs == nil || req.Outputs.Execution.Status != check.StatusAborted {
		t.Fatalf("expected aborted outputs, got %+v", req.Outputs)
	}
	if req.Outputs.Execution.Error != "Missing input depth data" {
		t.Errorf("unexpected abort reason %q", req.Outputs.Execution.Error)
	}
}

func TestPluginRun_StopFlagBetweenChecks(t *testing.T) {
	chk := &stubCheck{result: completedResult(check.StatePass)}
	p, _ := newTestPlugin(map[string][]string{"depth.tif": {"depth"}}, chk)

	reqs := []*CheckRequest{
		{ID: CheckID, Files: []InputFile{{Path: "depth.tif", Type: SurveyDTMs}}},
		{ID: CheckID, Files: []InputFile{{Path: "depth.tif", Type: SurveyDTMs}}},
	}

	calls := 0
	isStopped := func() bool {
		calls++
		return calls > 1
	}
	p.Run(context.Background(), reqs, isStopped, nil)

	if reqs[0].Outputs == nil {
		t.Error("first request should run before the stop flag trips")
	}
	if reqs[1].Outputs != nil {
		t.Error("second request should be skipped once stopped")
	}
}

func TestPluginRun_UpdateCalledOnce(t *testing.T) {
	chk := &stubCheck{result: completedResult(check.StatePass)}
	p, _ := newTestPlugin(map[string][]string{"depth.tif": {"depth"}}, chk)

	updates := 0
	p.Run(context.Background(), nil, nil, func() { updates++ })

	if updates != 1 {
		t.Errorf("expected one update callback, got %d", updates)
	}
}

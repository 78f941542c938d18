package plugin

import (
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/seabedqa/ggcheck/pkg/check"
)

// Outputs is the result record handed to the host: check state, message
// list, a data mapping with the spatial and numeric details, and the
// execution sub-record.
type Outputs struct {
	CheckState check.State     `json:"check_state,omitempty"`
	Messages   []string        `json:"messages,omitempty"`
	Data       map[string]any  `json:"data,omitempty"`
	Execution  check.Execution `json:"execution"`
}

// AbortedOutputs builds the record for a check that could not start.
func AbortedOutputs(reason string) *Outputs {
	now := time.Now().UTC()
	return &Outputs{
		Execution: check.Execution{
			Start:  now,
			End:    now,
			Status: check.StatusAborted,
			Error:  reason,
		},
	}
}

// BuildOutputs shapes a check result into the host record.
//
// A failed run carries only the execution record; there are no results
// to populate. A completed run leads with a state message summarizing
// the outcome, followed by the check's own advisories, and stashes the
// spatial data and summary numerics in the data mapping.
func BuildOutputs(res check.Result) Outputs {
	out := Outputs{Execution: res.Execution}
	if res.Execution.Status != check.StatusCompleted {
		return out
	}

	out.CheckState = res.State

	var stateMsg string
	if res.State == check.StatePass {
		stateMsg = fmt.Sprintf("No outliers found, %d were checked", i64(res.PointsTotal))
	} else {
		stateMsg = fmt.Sprintf(
			"%d outliers were found in a total of %d points. This represents a percentage of %.3f%%",
			i64(res.PointsOutsideSpec), i64(res.PointsTotal), f64(res.PointsOutsideSpecPercentage),
		)
	}
	out.Messages = append([]string{stateMsg}, res.Messages...)

	features := res.Map
	if features == nil {
		features = geojson.NewFeatureCollection()
	}
	out.Data = map[string]any{
		"map":                            features,
		"extents":                        res.Extents,
		"points_total":                   res.PointsTotal,
		"points_outside_spec":            res.PointsOutsideSpec,
		"points_outside_spec_percentage": res.PointsOutsideSpecPercentage,
	}
	return out
}

func i64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func f64(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

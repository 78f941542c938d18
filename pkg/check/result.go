package check

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// State is the pass/fail outcome of a check.
type State string

const (
	// StatePass indicates the checked data met the specification.
	StatePass State = "pass"

	// StateFail indicates the checked data did not meet the specification,
	// or that the outcome could not be determined and the check defaulted
	// to fail rather than pass silently.
	StateFail State = "fail"
)

// Status describes how a check run ended (or that it is still going).
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusAborted   Status = "aborted"
	StatusFailed    Status = "failed"
)

// Execution records the lifecycle of one check run.
type Execution struct {
	// Start is when the run entered the running state.
	Start time.Time `json:"start"`

	// End is when the run reached a terminal status. Zero while running.
	End time.Time `json:"end"`

	// Status is the lifecycle state: running, completed, aborted or failed.
	Status Status `json:"status"`

	// Error holds the failure detail when Status is aborted or failed.
	// It carries the full error chain text for diagnostics.
	Error string `json:"error,omitempty"`
}

// Result captures the outcome of a single check execution.
//
// The summary numeric fields are pointers because the engine log may not
// contain them; nil means "never reported", which is distinct from zero.
type Result struct {
	// State is the pass/fail outcome. Only meaningful when
	// Execution.Status is completed.
	State State `json:"check_state"`

	// Messages holds human-readable advisory and error messages
	// accumulated over the run, in the order they were recorded.
	Messages []string `json:"messages,omitempty"`

	// PointsTotal is the number of points the engine checked.
	PointsTotal *int64 `json:"points_total,omitempty"`

	// PointsOutsideSpec is the number of points outside specification.
	PointsOutsideSpec *int64 `json:"points_outside_spec,omitempty"`

	// PointsOutsideSpecPercentage is the percentage of points outside
	// specification, as reported on its own log line (not derived).
	PointsOutsideSpecPercentage *float64 `json:"points_outside_spec_percentage,omitempty"`

	// Map holds the outlier point features (reprojected to WGS84) for
	// display. Nil when no shapefile output was found.
	Map *geojson.FeatureCollection `json:"map,omitempty"`

	// Extents is the bounding polygon of the input grid in geographic
	// coordinates, ring points ordered (latitude, longitude).
	Extents orb.MultiPolygon `json:"extents,omitempty"`

	// Overflow indicates the emitted feature count was capped below the
	// true outlier count.
	Overflow bool `json:"overflow,omitempty"`

	// Execution is the lifecycle record for this run.
	Execution Execution `json:"execution"`
}

// AddMessage appends a human-readable message to the result.
func (r *Result) AddMessage(msg string) {
	r.Messages = append(r.Messages, msg)
}

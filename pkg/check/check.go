// Package check defines the core interfaces and types for QA checks.
//
// A Check represents a single quality-assurance procedure executed
// against a survey product. Check implementations own their full run
// lifecycle and report back a Result: a pass/fail state, human-readable
// messages, summary statistics, optional spatial data for map display,
// and an execution record describing how the run ended.
//
// The Registry provides type discovery, allowing check types to be
// registered by name and instantiated from configuration at runtime.
package check

import (
	"context"
)

// Check is the interface that all QA check types must implement.
type Check interface {
	// Type returns the registered name of this check type (e.g. "ggoutlier").
	Type() string

	// Run executes the check and returns a Result.
	// The provided context can be used for cancellation and timeouts.
	// Run does not return an error; failure classes are captured in the
	// Result's execution record so callers always receive a full record.
	Run(ctx context.Context) Result
}

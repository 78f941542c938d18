package engine

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Runner invokes the outlier engine. Implementations must scope all of
// the engine's diagnostic output to the provided sink: nothing the
// engine logs may leak into the caller's process-wide logging. Running
// the engine as a subprocess gives that isolation for free.
type Runner interface {
	// Run invokes the engine with the given argument list, blocking
	// until it finishes. Diagnostic output is written to sink.
	Run(ctx context.Context, args []string, sink io.Writer) error
}

// DefaultBinary is the engine executable looked up on PATH.
const DefaultBinary = "ggoutlier"

// Exec runs the engine binary as a subprocess.
type Exec struct {
	// Binary is the executable to run; DefaultBinary when empty.
	Binary string
}

// Run executes the engine binary, streaming stdout and stderr to sink.
func (e *Exec) Run(ctx context.Context, args []string, sink io.Writer) error {
	binary := e.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = sink
	cmd.Stderr = sink

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("engine: %s: %w", binary, err)
	}
	return nil
}

// Package engine drives the external GGOutlier outlier-detection tool.
//
// GGOutlier is treated as a black box: given a command-line style
// argument list it runs to completion and leaves its output artifacts
// (one shapefile and one log file) in the requested output directory.
// The Runner interface is the seam where tests substitute a stub for
// the real binary.
package engine

import (
	"strconv"
)

// LogFileName is the fixed name of the log file GGOutlier writes into
// its output directory.
const LogFileName = "GGOutlier_log.txt"

// Invocation holds the parameters of one engine run.
type Invocation struct {
	// GridPath is the absolute path of the input grid file.
	GridPath string

	// Near is the near-neighbour search radius.
	Near int

	// Standard is the survey accuracy standard token (e.g. "order1a").
	Standard string

	// Verbose requests verbose engine output.
	Verbose bool

	// OutDir is the directory the engine writes its artifacts into.
	OutDir string
}

// Args renders the invocation as the argument list GGOutlier expects,
// mimicking what a user would type on its command line:
//
//	-i <grid> -near <n> -standard <token> [-verbose] -odir <dir>
//
// The function is pure; configuration validation happens upstream.
func (inv Invocation) Args() []string {
	args := []string{
		"-i", inv.GridPath,
		"-near", strconv.Itoa(inv.Near),
		"-standard", inv.Standard,
	}
	if inv.Verbose {
		args = append(args, "-verbose")
	}
	return append(args, "-odir", inv.OutDir)
}

// Package summary extracts check statistics from the GGOutlier log file.
//
// The engine writes plain-text log lines; three of them carry the facts
// this package cares about, e.g.
//
//	INFO:root:Points checked: 28,613,210
//	INFO:root:Points outside specification: 1,250
//	INFO:root:Percentage outside specification: 0.0043686
//
// Each fact is captured the first time its marker appears; later
// repeats are ignored so parsing the same file twice yields the same
// Summary. Lines matching none of the markers are skipped.
package summary

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Markers identifying the three facts in the engine log. A line carries
// at most one fact; markers are tried in this order.
const (
	MarkerPointsChecked = ":Points checked:"
	MarkerPointsOutside = ":Points outside specification:"
	MarkerPercentage    = ":Percentage outside specification:"
)

// Summary holds the numeric facts found in the engine log.
// Nil fields mean the corresponding line never appeared, which is a
// valid outcome (the caller then cannot determine pass/fail from the
// log alone).
type Summary struct {
	PointsTotal                 *int64
	PointsOutsideSpec           *int64
	PointsOutsideSpecPercentage *float64
}

// ParseError indicates a line matched a known marker but its value could
// not be parsed into the expected numeric type.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("summary: parsing log line %q: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseFile reads the engine log at path line by line and returns the
// extracted Summary. A marker line with an unparsable value fails the
// whole parse with a *ParseError; a log with no marker lines at all
// returns an empty Summary and no error.
func ParseFile(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("summary: open log: %w", err)
	}
	defer f.Close()

	var s Summary
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := s.applyLine(scanner.Text()); err != nil {
			return Summary{}, err
		}
	}
	if err := scanner.Err(); err != nil {
		return Summary{}, fmt.Errorf("summary: read log: %w", err)
	}
	return s, nil
}

// applyLine folds a single log line into the summary.
func (s *Summary) applyLine(line string) error {
	switch {
	case strings.Contains(line, MarkerPointsChecked):
		if s.PointsTotal != nil {
			return nil
		}
		v, err := parseCount(line, MarkerPointsChecked)
		if err != nil {
			return err
		}
		s.PointsTotal = &v
	case strings.Contains(line, MarkerPointsOutside):
		if s.PointsOutsideSpec != nil {
			return nil
		}
		v, err := parseCount(line, MarkerPointsOutside)
		if err != nil {
			return err
		}
		s.PointsOutsideSpec = &v
	case strings.Contains(line, MarkerPercentage):
		if s.PointsOutsideSpecPercentage != nil {
			return nil
		}
		raw := valueAfter(line, MarkerPercentage)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return &ParseError{Line: line, Err: err}
		}
		s.PointsOutsideSpecPercentage = &v
	}
	return nil
}

// valueAfter returns the marker's value portion: everything after the
// first occurrence of the marker, whitespace-trimmed, with thousands
// separators removed.
func valueAfter(line, marker string) string {
	_, rest, _ := strings.Cut(line, marker)
	rest = strings.TrimSpace(rest)
	return strings.ReplaceAll(rest, ",", "")
}

func parseCount(line, marker string) (int64, error) {
	v, err := strconv.ParseInt(valueAfter(line, marker), 10, 64)
	if err != nil {
		return 0, &ParseError{Line: line, Err: err}
	}
	return v, nil
}

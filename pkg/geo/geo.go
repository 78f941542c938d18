// Package geo provides coordinate reprojection into the report
// coordinate reference (WGS84, EPSG:4326).
//
// All transforms normalize axis order to traditional GIS (longitude,
// latitude) order; consumers that need (latitude, longitude) ordering
// swap at their own layer.
package geo

import (
	"fmt"
)

// WGS84 is the EPSG code of the report coordinate reference.
const WGS84 = 4326

// PointFunc transforms a single coordinate pair from a source reference
// into (longitude, latitude) WGS84 order.
type PointFunc func(x, y float64) (lon, lat float64)

// Transformer builds reprojection functions for a given source EPSG code.
//
// Building the function validates the source reference once, so callers
// iterating many geometries pay the lookup cost once per layer.
type Transformer interface {
	// ToWGS84 returns a PointFunc converting coordinates from the given
	// source EPSG code to WGS84. It fails with a *ReprojectionError when
	// the source reference is unknown or malformed.
	ToWGS84(sourceEPSG int) (PointFunc, error)
}

// ReprojectionError indicates a source spatial reference was missing,
// unknown or malformed.
type ReprojectionError struct {
	// EPSG is the offending source code, 0 when none could be determined.
	EPSG int

	// Detail describes what went wrong.
	Detail string
}

func (e *ReprojectionError) Error() string {
	if e.EPSG != 0 {
		return fmt.Sprintf("reprojection: EPSG:%d: %s", e.EPSG, e.Detail)
	}
	return fmt.Sprintf("reprojection: %s", e.Detail)
}

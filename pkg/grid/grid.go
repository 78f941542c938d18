// Package grid reads metadata from input raster grids.
//
// Only metadata is read (band names, bounding box, spatial reference,
// dimensions); pixel access is out of scope. The Info interface is the
// capability boundary: the default provider understands GeoTIFF, and
// tests or alternative hosts can supply their own implementation.
package grid

import (
	"fmt"
)

// Bounds is the native-CRS bounding box of a grid.
type Bounds struct {
	Left   float64
	Bottom float64
	Right  float64
	Top    float64
}

// Info describes an input grid file.
type Info interface {
	// BandNames returns one name per band; unnamed bands yield "".
	BandNames() []string

	// Bounds returns the bounding box in the grid's native CRS.
	Bounds() Bounds

	// EPSG returns the native spatial reference code, 0 when the grid
	// carries none.
	EPSG() int

	// Size returns the raster dimensions in pixels.
	Size() (width, height int)
}

// OpenError indicates the input grid could not be opened or understood.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("grid: open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// Package outliers extracts outlier point features from the vector
// artifact the engine produces.
//
// The Dataset/Layer interfaces form the vector capability boundary; the
// default implementation reads shapefiles. Extraction reprojects every
// point feature to WGS84 and caps how many features are embedded in the
// result, since the host report grows unwieldy past a couple of
// thousand points.
package outliers

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/seabedqa/ggcheck/pkg/geo"
)

// DefaultCap is the default maximum number of features embedded in a
// result. Capping affects only what the host's map widget shows, never
// the reported statistics.
const DefaultCap = 2000

// Record is one vector feature as read from a layer.
type Record struct {
	// Point holds the native-CRS point coordinates, nil when the
	// feature's geometry is not a point.
	Point *orb.Point

	// Attributes maps attribute field names to values.
	Attributes map[string]any
}

// Layer is one iterable layer of a vector dataset.
type Layer interface {
	// EPSG returns the layer's declared spatial reference code.
	EPSG() (int, error)

	// Next advances to the next feature, returning false when the layer
	// is exhausted or a read error occurred.
	Next() bool

	// Record returns the current feature. Only valid after Next
	// returned true.
	Record() Record

	// Err returns the first read error encountered, if any.
	Err() error
}

// Dataset is an opened vector artifact.
type Dataset interface {
	Layers() []Layer
	Close() error
}

// OpenError indicates the vector artifact could not be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("outliers: open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// Feature is one extracted outlier point, reprojected to WGS84.
type Feature struct {
	// ID is the feature's visit index, assigned in discovery order
	// starting at 0 and shared across all layers.
	ID int

	// Point is the reprojected location in (longitude, latitude) order.
	Point orb.Point

	// Attributes carries the feature's attribute fields.
	Attributes map[string]any
}

// Extraction is the outcome of extracting a dataset.
type Extraction struct {
	Features []Feature

	// Overflow is set when extraction stopped because the feature count
	// exceeded the limit.
	Overflow bool
}

// Extract walks every layer of the dataset, reprojecting point features
// to WGS84 and collecting them with their attributes.
//
// The visit counter increments for every feature regardless of geometry
// type, so the limit bounds features visited, not points emitted;
// non-point geometries are skipped silently. Extraction stops for good
// as soon as the counter exceeds the limit.
func Extract(ds Dataset, tr geo.Transformer, limit int, logger *logrus.Logger) (Extraction, error) {
	layers := ds.Layers()
	logger.Debugf("Found %d layers", len(layers))

	var out Extraction
	id := 0
	for _, layer := range layers {
		epsg, err := layer.EPSG()
		if err != nil {
			return Extraction{}, err
		}
		toWGS84, err := tr.ToWGS84(epsg)
		if err != nil {
			return Extraction{}, err
		}

		for layer.Next() {
			rec := layer.Record()
			if rec.Point != nil {
				lon, lat := toWGS84(rec.Point[0], rec.Point[1])
				out.Features = append(out.Features, Feature{
					ID:         id,
					Point:      orb.Point{lon, lat},
					Attributes: rec.Attributes,
				})
			}

			id++
			if id > limit {
				out.Overflow = true
				logger.Debug("Exceeded point feature cap")
				return out, nil
			}
		}
		if err := layer.Err(); err != nil {
			return Extraction{}, fmt.Errorf("outliers: reading layer: %w", err)
		}
	}
	return out, nil
}

// FeatureCollection renders the extracted features as a GeoJSON feature
// collection for embedding in the host report.
func (x Extraction) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range x.Features {
		gf := geojson.NewFeature(f.Point)
		gf.ID = f.ID
		gf.Properties = geojson.Properties(f.Attributes)
		fc.Append(gf)
	}
	return fc
}

package outliers

import (
	"os"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"github.com/seabedqa/ggcheck/pkg/geo"
)

// Shapefile is the default Dataset implementation, reading .shp
// geometries and .dbf attributes via go-shp. The layer's spatial
// reference comes from the .prj sidecar WKT; GDAL-written shapefiles,
// which GGOutlier produces, always carry an EPSG authority there.
type Shapefile struct {
	path   string
	reader *shp.Reader
	fields []shp.Field
	epsg   int
	crsErr error
}

// OpenShapefile opens the shapefile at path.
// Fails with *OpenError when the dataset cannot be opened; a missing or
// malformed .prj is deferred to extraction time, where it surfaces as a
// reprojection failure.
func OpenShapefile(path string) (*Shapefile, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	s := &Shapefile{
		path:   path,
		reader: reader,
		fields: reader.Fields(),
	}
	s.epsg, s.crsErr = readPrjEPSG(path)
	return s, nil
}

// readPrjEPSG reads the EPSG code from the .prj sidecar of a shapefile.
func readPrjEPSG(shpPath string) (int, error) {
	prjPath := strings.TrimSuffix(shpPath, ".shp") + ".prj"
	wkt, err := os.ReadFile(prjPath)
	if err != nil {
		return 0, &geo.ReprojectionError{Detail: "missing spatial reference sidecar " + prjPath}
	}
	return geo.EPSGFromWKT(string(wkt))
}

// Layers returns the shapefile's single layer.
func (s *Shapefile) Layers() []Layer {
	return []Layer{&shpLayer{sf: s}}
}

// Close releases the underlying file handles.
func (s *Shapefile) Close() error {
	return s.reader.Close()
}

type shpLayer struct {
	sf  *Shapefile
	row int
	cur Record
}

func (l *shpLayer) EPSG() (int, error) {
	return l.sf.epsg, l.sf.crsErr
}

func (l *shpLayer) Next() bool {
	if !l.sf.reader.Next() {
		return false
	}
	row, shape := l.sf.reader.Shape()
	l.row = row
	l.cur = Record{
		Point:      pointOf(shape),
		Attributes: l.attributes(row),
	}
	return true
}

func (l *shpLayer) Record() Record {
	return l.cur
}

func (l *shpLayer) Err() error {
	return l.sf.reader.Err()
}

// attributes copies every dbf field of the given row into a map,
// converting numeric fields to Go numbers.
func (l *shpLayer) attributes(row int) map[string]any {
	attrs := make(map[string]any, len(l.sf.fields))
	for i, field := range l.sf.fields {
		raw := strings.TrimSpace(l.sf.reader.ReadAttribute(row, i))
		attrs[field.String()] = convertAttribute(field, raw)
	}
	return attrs
}

// convertAttribute maps a dbf string value to a typed Go value based on
// the field descriptor: integer for whole-number numeric fields, float
// for fractional ones, string otherwise.
func convertAttribute(field shp.Field, raw string) any {
	switch field.Fieldtype {
	case 'N':
		if field.Precision == 0 {
			if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return v
			}
		}
		fallthrough
	case 'F':
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}

// pointOf returns the native coordinates when the shape is a point
// variant (2D, Z or M), nil otherwise.
func pointOf(shape shp.Shape) *orb.Point {
	switch p := shape.(type) {
	case *shp.Point:
		return &orb.Point{p.X, p.Y}
	case *shp.PointZ:
		return &orb.Point{p.X, p.Y}
	case *shp.PointM:
		return &orb.Point{p.X, p.Y}
	}
	return nil
}

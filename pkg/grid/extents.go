package grid

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/seabedqa/ggcheck/pkg/geo"
)

// Extents reprojects the grid's bounding box to WGS84 and returns it as
// a single rectangular polygon.
//
// Ring points are ordered (latitude, longitude) — the opposite of the
// (longitude, latitude) order used for outlier point features — because
// that is what the host's map widget expects for the extents layer.
func Extents(info Info, tr geo.Transformer) (orb.MultiPolygon, error) {
	toWGS84, err := tr.ToWGS84(info.EPSG())
	if err != nil {
		return nil, err
	}

	b := info.Bounds()
	corners := [4][2]float64{
		{b.Left, b.Bottom},
		{b.Right, b.Bottom},
		{b.Right, b.Top},
		{b.Left, b.Top},
	}

	minLon, minLat := math.Inf(1), math.Inf(1)
	maxLon, maxLat := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		lon, lat := toWGS84(c[0], c[1])
		minLon = math.Min(minLon, lon)
		minLat = math.Min(minLat, lat)
		maxLon = math.Max(maxLon, lon)
		maxLat = math.Max(maxLat, lat)
	}

	ring := orb.Ring{
		{minLat, minLon},
		{minLat, maxLon},
		{maxLat, maxLon},
		{maxLat, minLon},
		{minLat, minLon},
	}
	return orb.MultiPolygon{orb.Polygon{ring}}, nil
}

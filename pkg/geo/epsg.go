package geo

import (
	"github.com/wroge/wgs84"
)

// EPSGTransformer is the default Transformer, backed by the wgs84
// EPSG repository (pure Go, no external PROJ installation).
type EPSGTransformer struct {
	repo *wgs84.Repository
}

// NewEPSGTransformer creates a Transformer covering the wgs84 EPSG
// repository (geographic systems, WGS84/ETRS89 UTM zones, and the other
// codes the repository ships).
func NewEPSGTransformer() *EPSGTransformer {
	return &EPSGTransformer{repo: wgs84.EPSG()}
}

// ToWGS84 returns a PointFunc from the given source EPSG code to
// (longitude, latitude) WGS84 order.
func (t *EPSGTransformer) ToWGS84(sourceEPSG int) (PointFunc, error) {
	src := t.repo.Code(sourceEPSG)
	if src == nil {
		return nil, &ReprojectionError{EPSG: sourceEPSG, Detail: "unknown source spatial reference"}
	}

	f := wgs84.Transform(src, wgs84.LonLat())
	return func(x, y float64) (float64, float64) {
		lon, lat, _ := f(x, y, 0)
		return lon, lat
	}, nil
}

package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/seabedqa/ggcheck/pkg/geo"
)

// stubInfo is a fixed grid Info for extents tests.
type stubInfo struct {
	bounds Bounds
	epsg   int
}

func (s stubInfo) BandNames() []string { return []string{"depth"} }
func (s stubInfo) Bounds() Bounds      { return s.bounds }
func (s stubInfo) EPSG() int           { return s.epsg }
func (s stubInfo) Size() (int, int)    { return 10, 10 }

func TestExtents_LatLonRingOrder(t *testing.T) {
	info := stubInfo{
		bounds: Bounds{Left: 100, Bottom: -40, Right: 101, Top: -39},
		epsg:   4326,
	}

	mp, err := Extents(info, geo.NewEPSGTransformer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mp) != 1 || len(mp[0]) != 1 {
		t.Fatalf("expected a single-ring polygon, got %v", mp)
	}

	ring := mp[0][0]
	if len(ring) != 5 {
		t.Fatalf("expected a closed 5-point ring, got %d points", len(ring))
	}

	// Ring points are (latitude, longitude) pairs.
	want := [][2]float64{
		{-40, 100},
		{-40, 101},
		{-39, 101},
		{-39, 100},
		{-40, 100},
	}
	for i, w := range want {
		if math.Abs(ring[i][0]-w[0]) > 1e-9 || math.Abs(ring[i][1]-w[1]) > 1e-9 {
			t.Errorf("ring[%d] = %v, want %v", i, ring[i], w)
		}
	}
}

func TestExtents_MissingCRS(t *testing.T) {
	info := stubInfo{bounds: Bounds{Left: 0, Bottom: 0, Right: 1, Top: 1}}

	_, err := Extents(info, geo.NewEPSGTransformer())
	var rerr *geo.ReprojectionError
	if !errors.As(err, &rerr) {
		t.Errorf("expected *geo.ReprojectionError for grid without CRS, got %v", err)
	}
}

package geo

import (
	"strconv"
	"strings"
)

// EPSGFromWKT extracts the EPSG code from a WKT spatial reference
// definition, as found in shapefile .prj sidecars.
//
// The outermost AUTHORITY node identifies the full coordinate system and
// is the last one in the WKT text, so the last occurrence wins. Returns
// a *ReprojectionError when no EPSG authority is present.
func EPSGFromWKT(wkt string) (int, error) {
	const marker = `AUTHORITY["EPSG","`

	idx := strings.LastIndex(wkt, marker)
	if idx == -1 {
		return 0, &ReprojectionError{Detail: "no EPSG authority in spatial reference definition"}
	}

	rest := wkt[idx+len(marker):]
	end := strings.Index(rest, `"`)
	if end == -1 {
		return 0, &ReprojectionError{Detail: "malformed EPSG authority in spatial reference definition"}
	}

	code, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, &ReprojectionError{Detail: "malformed EPSG authority code " + strconv.Quote(rest[:end])}
	}
	return code, nil
}

package grid

import (
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// TIFF field types used by GeoTIFF metadata tags.
const (
	typeByte   = 1
	typeASCII  = 2
	typeShort  = 3
	typeLong   = 4
	typeDouble = 12
	typeLong8  = 16
)

// Tags holding the metadata this reader cares about.
const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagSamplesPerPixel = 277
	tagPixelScale      = 33550
	tagTiepoint        = 33922
	tagTransformation  = 34264
	tagGeoKeyDirectory = 34735
	tagGDALMetadata    = 42112
)

// GeoTIFF GeoKey IDs.
const (
	keyModelType    = 1024
	keyGeographicCS = 2048
	keyProjectedCS  = 3072
)

// GeoTIFF is the default grid Info provider. It parses the TIFF image
// file directory (classic and BigTIFF) for the georeferencing and GDAL
// metadata tags without touching pixel data.
type GeoTIFF struct {
	path      string
	width     int
	height    int
	bands     []string
	bounds    Bounds
	epsg      int
	hasBounds bool
}

// Open reads GeoTIFF metadata from the file at path.
// Fails with *OpenError when the file is missing, not a TIFF, or has no
// georeferencing tags.
func Open(path string) (*GeoTIFF, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	defer f.Close()

	g, err := parseTIFF(f)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	g.path = path
	return g, nil
}

// Path returns the file this metadata was read from.
func (g *GeoTIFF) Path() string { return g.path }

// BandNames returns one name per sample; unnamed bands yield "".
func (g *GeoTIFF) BandNames() []string { return g.bands }

// Bounds returns the bounding box in the grid's native CRS.
func (g *GeoTIFF) Bounds() Bounds { return g.bounds }

// EPSG returns the native spatial reference code, 0 when absent.
func (g *GeoTIFF) EPSG() int { return g.epsg }

// Size returns the raster dimensions in pixels.
func (g *GeoTIFF) Size() (int, int) { return g.width, g.height }

// ifdEntry is one parsed image file directory entry.
type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint64
	// raw holds the inline value field (4 bytes classic, 8 BigTIFF).
	raw []byte
}

type tiffReader struct {
	r     io.ReaderAt
	order binary.ByteOrder
	big   bool
}

func parseTIFF(r io.ReaderAt) (*GeoTIFF, error) {
	var hdr [16]byte
	if _, err := r.ReadAt(hdr[:8], 0); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	tr := &tiffReader{r: r}
	switch {
	case hdr[0] == 'I' && hdr[1] == 'I':
		tr.order = binary.LittleEndian
	case hdr[0] == 'M' && hdr[1] == 'M':
		tr.order = binary.BigEndian
	default:
		return nil, fmt.Errorf("not a TIFF file")
	}

	var ifdOffset uint64
	switch tr.order.Uint16(hdr[2:4]) {
	case 42:
		ifdOffset = uint64(tr.order.Uint32(hdr[4:8]))
	case 43:
		tr.big = true
		if _, err := r.ReadAt(hdr[8:16], 8); err != nil {
			return nil, fmt.Errorf("reading BigTIFF header: %w", err)
		}
		if tr.order.Uint16(hdr[4:6]) != 8 {
			return nil, fmt.Errorf("unsupported BigTIFF offset size")
		}
		ifdOffset = tr.order.Uint64(hdr[8:16])
	default:
		return nil, fmt.Errorf("not a TIFF file")
	}

	entries, err := tr.readIFD(ifdOffset)
	if err != nil {
		return nil, err
	}

	g := &GeoTIFF{}
	var (
		scale     []float64
		tiepoint  []float64
		transform []float64
		geoKeys   []uint16
		samples   = 1
	)

	for _, e := range entries {
		switch e.tag {
		case tagImageWidth:
			v, err := tr.readUint(e)
			if err != nil {
				return nil, err
			}
			g.width = int(v)
		case tagImageLength:
			v, err := tr.readUint(e)
			if err != nil {
				return nil, err
			}
			g.height = int(v)
		case tagSamplesPerPixel:
			v, err := tr.readUint(e)
			if err != nil {
				return nil, err
			}
			samples = int(v)
		case tagPixelScale:
			if scale, err = tr.readDoubles(e); err != nil {
				return nil, err
			}
		case tagTiepoint:
			if tiepoint, err = tr.readDoubles(e); err != nil {
				return nil, err
			}
		case tagTransformation:
			if transform, err = tr.readDoubles(e); err != nil {
				return nil, err
			}
		case tagGeoKeyDirectory:
			if geoKeys, err = tr.readShorts(e); err != nil {
				return nil, err
			}
		case tagGDALMetadata:
			s, err := tr.readASCII(e)
			if err != nil {
				return nil, err
			}
			g.bands = bandNamesFromGDALMetadata(s, samples)
		}
	}

	switch {
	case len(tiepoint) >= 6 && len(scale) >= 2:
		left := tiepoint[3] - tiepoint[0]*scale[0]
		top := tiepoint[4] + tiepoint[1]*scale[1]
		g.bounds = Bounds{
			Left:   left,
			Bottom: top - float64(g.height)*scale[1],
			Right:  left + float64(g.width)*scale[0],
			Top:    top,
		}
		g.hasBounds = true
	case len(transform) >= 16:
		left := transform[3]
		top := transform[7]
		g.bounds = Bounds{
			Left:   left,
			Bottom: top + float64(g.height)*transform[5],
			Right:  left + float64(g.width)*transform[0],
			Top:    top,
		}
		g.hasBounds = true
	}
	if !g.hasBounds {
		return nil, fmt.Errorf("no georeferencing tags (ModelTiepoint/ModelPixelScale or ModelTransformation)")
	}

	g.epsg = epsgFromGeoKeys(geoKeys)
	if g.bands == nil {
		g.bands = make([]string, samples)
	}
	return g, nil
}

// readIFD parses the entries of the image file directory at offset.
func (t *tiffReader) readIFD(offset uint64) ([]ifdEntry, error) {
	entrySize := 12
	countSize := 2
	if t.big {
		entrySize = 20
		countSize = 8
	}

	buf := make([]byte, countSize)
	if _, err := t.r.ReadAt(buf, int64(offset)); err != nil {
		return nil, fmt.Errorf("reading IFD count: %w", err)
	}
	var n uint64
	if t.big {
		n = t.order.Uint64(buf)
	} else {
		n = uint64(t.order.Uint16(buf))
	}
	if n > 4096 {
		return nil, fmt.Errorf("implausible IFD entry count %d", n)
	}

	raw := make([]byte, int(n)*entrySize)
	if _, err := t.r.ReadAt(raw, int64(offset)+int64(countSize)); err != nil {
		return nil, fmt.Errorf("reading IFD entries: %w", err)
	}

	entries := make([]ifdEntry, 0, n)
	for i := 0; i < int(n); i++ {
		b := raw[i*entrySize : (i+1)*entrySize]
		e := ifdEntry{
			tag: t.order.Uint16(b[0:2]),
			typ: t.order.Uint16(b[2:4]),
		}
		if t.big {
			e.count = t.order.Uint64(b[4:12])
			e.raw = b[12:20]
		} else {
			e.count = uint64(t.order.Uint32(b[4:8]))
			e.raw = b[8:12]
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func typeSize(typ uint16) int {
	switch typ {
	case typeByte, typeASCII:
		return 1
	case typeShort:
		return 2
	case typeLong:
		return 4
	case typeDouble, typeLong8:
		return 8
	default:
		return 0
	}
}

// valueBytes returns the raw value data for an entry, following the
// offset indirection when the value does not fit inline.
func (t *tiffReader) valueBytes(e ifdEntry) ([]byte, error) {
	sz := typeSize(e.typ)
	if sz == 0 {
		return nil, fmt.Errorf("tag %d: unsupported field type %d", e.tag, e.typ)
	}
	total := sz * int(e.count)
	if total <= len(e.raw) {
		return e.raw[:total], nil
	}

	var offset uint64
	if t.big {
		offset = t.order.Uint64(e.raw)
	} else {
		offset = uint64(t.order.Uint32(e.raw))
	}
	buf := make([]byte, total)
	if _, err := t.r.ReadAt(buf, int64(offset)); err != nil {
		return nil, fmt.Errorf("tag %d: reading value: %w", e.tag, err)
	}
	return buf, nil
}

func (t *tiffReader) readUint(e ifdEntry) (uint64, error) {
	b, err := t.valueBytes(e)
	if err != nil {
		return 0, err
	}
	switch e.typ {
	case typeShort:
		return uint64(t.order.Uint16(b)), nil
	case typeLong:
		return uint64(t.order.Uint32(b)), nil
	case typeLong8:
		return t.order.Uint64(b), nil
	default:
		return 0, fmt.Errorf("tag %d: expected integer type, got %d", e.tag, e.typ)
	}
}

func (t *tiffReader) readDoubles(e ifdEntry) ([]float64, error) {
	if e.typ != typeDouble {
		return nil, fmt.Errorf("tag %d: expected DOUBLE type, got %d", e.tag, e.typ)
	}
	b, err := t.valueBytes(e)
	if err != nil {
		return nil, err
	}
	out := make([]float64, e.count)
	for i := range out {
		bits := t.order.Uint64(b[i*8 : i*8+8])
		out[i] = math.Float64frombits(bits)
	}
	return out, nil
}

func (t *tiffReader) readShorts(e ifdEntry) ([]uint16, error) {
	if e.typ != typeShort {
		return nil, fmt.Errorf("tag %d: expected SHORT type, got %d", e.tag, e.typ)
	}
	b, err := t.valueBytes(e)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, e.count)
	for i := range out {
		out[i] = t.order.Uint16(b[i*2 : i*2+2])
	}
	return out, nil
}

func (t *tiffReader) readASCII(e ifdEntry) (string, error) {
	if e.typ != typeASCII && e.typ != typeByte {
		return "", fmt.Errorf("tag %d: expected ASCII type, got %d", e.tag, e.typ)
	}
	b, err := t.valueBytes(e)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\x00"), nil
}

// epsgFromGeoKeys extracts the coordinate system code from a GeoKey
// directory. The model type key decides whether the projected or the
// geographic CS key carries the authoritative code.
func epsgFromGeoKeys(keys []uint16) int {
	// Directory layout: 4-value header, then 4-value key entries of
	// (keyID, tagLocation, count, value); tagLocation 0 means the value
	// is stored inline.
	var modelType, geographic, projected int
	for i := 4; i+3 < len(keys); i += 4 {
		if keys[i+1] != 0 {
			continue
		}
		switch keys[i] {
		case keyModelType:
			modelType = int(keys[i+3])
		case keyGeographicCS:
			geographic = int(keys[i+3])
		case keyProjectedCS:
			projected = int(keys[i+3])
		}
	}

	switch modelType {
	case 1:
		return projected
	case 2:
		return geographic
	}
	if projected != 0 {
		return projected
	}
	return geographic
}

// gdalMetadata mirrors the XML document GDAL stores in tag 42112.
type gdalMetadata struct {
	Items []gdalItem `xml:"Item"`
}

type gdalItem struct {
	Name   string `xml:"name,attr"`
	Sample *int   `xml:"sample,attr"`
	Role   string `xml:"role,attr"`
	Value  string `xml:",chardata"`
}

// bandNamesFromGDALMetadata pulls per-band descriptions out of the GDAL
// metadata XML. Bands without a description entry yield "".
func bandNamesFromGDALMetadata(doc string, samples int) []string {
	names := make([]string, samples)

	var md gdalMetadata
	if err := xml.Unmarshal([]byte(doc), &md); err != nil {
		return names
	}
	for _, item := range md.Items {
		if item.Role != "description" && item.Name != "DESCRIPTION" {
			continue
		}
		if item.Sample == nil {
			continue
		}
		if *item.Sample >= 0 && *item.Sample < samples {
			names[*item.Sample] = strings.TrimSpace(item.Value)
		}
	}
	return names
}

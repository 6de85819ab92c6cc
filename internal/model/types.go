// Package model defines the domain types for the raspy raster tools.
//
// All entities in this package are transient representations: a RasterInfo
// is rebuilt from the file every time a tool runs, and nothing is cached
// between invocations (the optional catalog stores copies, not handles).
package model

import (
	"fmt"
	"math"
	"strings"
)

// DataType is the name of a GDAL pixel data type, e.g. "Byte" or "Float32".
//
// The canonical spelling follows GDAL's GDALGetDataTypeName so values read
// from a dataset can be compared directly against these constants.
type DataType string

const (
	// TypeUnknown is GDAL's placeholder for an unknown or unspecified type.
	TypeUnknown DataType = "Unknown"

	// TypeByte is an eight bit unsigned integer.
	TypeByte DataType = "Byte"

	// TypeUInt16 is a sixteen bit unsigned integer.
	TypeUInt16 DataType = "UInt16"

	// TypeInt16 is a sixteen bit signed integer.
	TypeInt16 DataType = "Int16"

	// TypeUInt32 is a thirty two bit unsigned integer.
	TypeUInt32 DataType = "UInt32"

	// TypeInt32 is a thirty two bit signed integer.
	TypeInt32 DataType = "Int32"

	// TypeFloat32 is a thirty two bit floating point number.
	TypeFloat32 DataType = "Float32"

	// TypeFloat64 is a sixty four bit floating point number.
	TypeFloat64 DataType = "Float64"

	// TypeCInt16 is a complex Int16.
	TypeCInt16 DataType = "CInt16"

	// TypeCInt32 is a complex Int32.
	TypeCInt32 DataType = "CInt32"

	// TypeCFloat32 is a complex Float32.
	TypeCFloat32 DataType = "CFloat32"

	// TypeCFloat64 is a complex Float64.
	TypeCFloat64 DataType = "CFloat64"
)

// bitDepths maps each known data type to its pixel bit depth. Complex types
// report the width of one component, which is what the size estimate in
// uncompressed-size has always used.
var bitDepths = map[DataType]int{
	TypeByte:     8,
	TypeUInt16:   16,
	TypeInt16:    16,
	TypeUInt32:   32,
	TypeInt32:    32,
	TypeFloat32:  32,
	TypeFloat64:  64,
	TypeCInt16:   16,
	TypeCInt32:   32,
	TypeCFloat32: 32,
	TypeCFloat64: 64,
}

// allDataTypes lists the types in GDAL enum order, used for stable help text.
var allDataTypes = []DataType{
	TypeByte, TypeUInt16, TypeInt16, TypeUInt32, TypeInt32,
	TypeFloat32, TypeFloat64, TypeCInt16, TypeCInt32, TypeCFloat32, TypeCFloat64,
}

// String returns the string representation of DataType.
// This method satisfies the fmt.Stringer interface.
func (d DataType) String() string {
	return string(d)
}

// IsValid reports whether d names a concrete GDAL data type. TypeUnknown is
// not valid for writing, so it is rejected here too.
func (d DataType) IsValid() bool {
	_, ok := bitDepths[d]
	return ok
}

// IsComplex reports whether the type stores complex samples.
func (d DataType) IsComplex() bool {
	return strings.HasPrefix(string(d), "C")
}

// BitDepth returns the number of bits per pixel sample, or 0 when the type
// is unknown.
func (d DataType) BitDepth() int {
	return bitDepths[d]
}

// ParseDataType converts a type name to a DataType. Matching is
// case-insensitive ("float32" and "Float32" are the same type).
// Returns an error wrapping ErrInvalidArgument for unknown names.
func ParseDataType(s string) (DataType, error) {
	for _, dt := range allDataTypes {
		if strings.EqualFold(s, string(dt)) {
			return dt, nil
		}
	}
	return "", fmt.Errorf("%w: invalid data type %q (valid: %s)", ErrInvalidArgument, s, DataTypeNames())
}

// DataTypeNames returns a comma-separated list of all valid type names.
func DataTypeNames() string {
	names := make([]string, 0, len(allDataTypes))
	for _, dt := range allDataTypes {
		names = append(names, string(dt))
	}
	return strings.Join(names, ", ")
}

// GeoTransform holds the six affine coefficients that map pixel/line
// coordinates to georeferenced coordinates:
//
//	Xgeo = gt[0] + col*gt[1] + row*gt[2]
//	Ygeo = gt[3] + col*gt[4] + row*gt[5]
//
// For north-up rasters gt[2] and gt[4] are zero and gt[5] is negative.
type GeoTransform [6]float64

// XRes returns the pixel width in CRS units.
func (gt GeoTransform) XRes() float64 {
	return gt[1]
}

// YRes returns the pixel height in CRS units as a positive number for
// north-up rasters.
func (gt GeoTransform) YRes() float64 {
	return -gt[5]
}

// Extent returns the bounding box covered by a cols x rows raster. Rotation
// terms are ignored.
func (gt GeoTransform) Extent(cols, rows int) Extent {
	x0, y0 := gt[0], gt[3]
	x1 := gt[0] + float64(cols)*gt[1]
	y1 := gt[3] + float64(rows)*gt[5]
	return Extent{
		MinX: math.Min(x0, x1),
		MinY: math.Min(y0, y1),
		MaxX: math.Max(x0, x1),
		MaxY: math.Max(y0, y1),
	}
}

// Extent is an axis-aligned bounding box in CRS units.
type Extent struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// String returns the extent as "minX,minY,maxX,maxY".
func (e Extent) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", e.MinX, e.MinY, e.MaxX, e.MaxY)
}

// BandInfo describes a single band of a raster.
type BandInfo struct {
	// Index is the 1-based band number. There is no band 0.
	Index int `json:"index"`

	// DataType is the GDAL pixel type of the band.
	DataType DataType `json:"dataType"`

	// NoData is the band's nodata value, or nil when none is set.
	NoData *float64 `json:"nodata,omitempty"`
}

// RasterInfo is a metadata snapshot of a raster dataset. It is produced
// without reading pixel data.
type RasterInfo struct {
	// Path is the filesystem path the dataset was opened from.
	Path string `json:"path"`

	// Driver is the short name of the GDAL driver (e.g. "GTiff").
	Driver string `json:"driver"`

	// Cols is the raster width in pixels (GDAL RasterXSize).
	Cols int `json:"cols"`

	// Rows is the raster height in pixels (GDAL RasterYSize).
	Rows int `json:"rows"`

	// Bands describes each band in order; len(Bands) is the band count.
	Bands []BandInfo `json:"bands"`

	// GeoTransform is the affine pixel-to-CRS transform.
	GeoTransform GeoTransform `json:"geotransform"`

	// Projection is the CRS as WKT; empty for ungeoreferenced rasters.
	Projection string `json:"projection,omitempty"`

	// Proj4 is the CRS as a proj4 string; empty when it cannot be exported.
	Proj4 string `json:"proj4,omitempty"`
}

// BandCount returns the number of bands.
func (r *RasterInfo) BandCount() int {
	return len(r.Bands)
}

// Band returns the info for the 1-based band index.
func (r *RasterInfo) Band(index int) (BandInfo, error) {
	if index < 1 || index > len(r.Bands) {
		return BandInfo{}, fmt.Errorf("%w: band %d out of range (1-%d)", ErrInvalidArgument, index, len(r.Bands))
	}
	return r.Bands[index-1], nil
}

// Extent returns the raster's bounding box.
func (r *RasterInfo) Extent() Extent {
	return r.GeoTransform.Extent(r.Cols, r.Rows)
}

// Units returns the value of the proj4 "+units=" parameter, if present.
func (r *RasterInfo) Units() (string, error) {
	return ParseProj4Units(r.Proj4)
}

// CellAreaHa returns the area of one grid cell in hectares. The CRS must be
// in meters; any other unit yields an error wrapping ErrUnsupportedUnits.
func (r *RasterInfo) CellAreaHa() (float64, error) {
	units, err := r.Units()
	if err != nil {
		return 0, err
	}
	if units != "m" {
		return 0, fmt.Errorf("%w: CRS units are %s (must be meters)", ErrUnsupportedUnits, units)
	}
	return r.GeoTransform.XRes() * r.GeoTransform.YRes() * 1e-4, nil
}

// UncompressedSize returns the estimated in-memory size of all bands in
// bytes: bands * rows * cols * (bitDepth / 8). The first band's data type is
// used for every band.
func (r *RasterInfo) UncompressedSize() float64 {
	if len(r.Bands) == 0 {
		return 0
	}
	bits := r.Bands[0].DataType.BitDepth()
	return float64(len(r.Bands)) * float64(r.Rows) * float64(r.Cols) * float64(bits) / 8
}

// ParseProj4Units extracts the value of the "+units=" parameter from a proj4
// string, e.g. "m" from "+proj=utm +zone=10 +units=m +no_defs".
// Returns an error wrapping ErrUnsupportedUnits when no units are declared,
// which is the case for geographic (degree-based) CRSs.
func ParseProj4Units(proj4 string) (string, error) {
	for _, part := range strings.Split(proj4, "+") {
		part = strings.TrimSpace(part)
		key, value, ok := strings.Cut(part, "=")
		if ok && key == "units" {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: no +units parameter in %q", ErrUnsupportedUnits, strings.TrimSpace(proj4))
}

// sizeUnits are the labels used by HumanReadableSize, in base-1024 steps.
var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// HumanReadableSize formats a byte count using base-1024 units with the
// given number of decimal places. PB is the largest unit; larger values are
// reported as many PB.
//
// Example:
//
//	HumanReadableSize(1536, 2) → "1.50 KB"
func HumanReadableSize(size float64, decimals int) string {
	unit := sizeUnits[0]
	for _, u := range sizeUnits {
		unit = u
		if size < 1024.0 || u == sizeUnits[len(sizeUnits)-1] {
			break
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.*f %s", decimals, size, unit)
}

// BandSelection lists 1-based band indices to read. An empty selection
// means every band.
type BandSelection []int

// All reports whether the selection means "every band".
func (s BandSelection) All() bool {
	return len(s) == 0
}

// Resolve expands the selection against a raster with bandCount bands and
// validates each index. There is no band 0.
func (s BandSelection) Resolve(bandCount int) ([]int, error) {
	if s.All() {
		out := make([]int, bandCount)
		for i := range out {
			out[i] = i + 1
		}
		return out, nil
	}
	out := make([]int, 0, len(s))
	for _, b := range s {
		if b < 1 || b > bandCount {
			return nil, fmt.Errorf("%w: band %d out of range (1-%d); there is no band 0", ErrInvalidArgument, b, bandCount)
		}
		out = append(out, b)
	}
	return out, nil
}

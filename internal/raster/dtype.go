package raster

import (
	"fmt"

	"github.com/lukeroth/gdal"

	"github.com/raspy-go/raspy/internal/model"
)

// gdalTypes translates raspy data type names to GDAL's enum.
var gdalTypes = map[model.DataType]gdal.DataType{
	model.TypeUnknown:  gdal.Unknown,
	model.TypeByte:     gdal.Byte,
	model.TypeUInt16:   gdal.UInt16,
	model.TypeInt16:    gdal.Int16,
	model.TypeUInt32:   gdal.UInt32,
	model.TypeInt32:    gdal.Int32,
	model.TypeFloat32:  gdal.Float32,
	model.TypeFloat64:  gdal.Float64,
	model.TypeCInt16:   gdal.CInt16,
	model.TypeCInt32:   gdal.CInt32,
	model.TypeCFloat32: gdal.CFloat32,
	model.TypeCFloat64: gdal.CFloat64,
}

// toGDALType returns the GDAL enum for dt. Unknown or unsupported names are
// an argument error; writing a GDT_Unknown band is never useful.
func toGDALType(dt model.DataType) (gdal.DataType, error) {
	if !dt.IsValid() {
		return gdal.Unknown, fmt.Errorf("%w: output data type %q invalid (valid: %s)",
			model.ErrInvalidArgument, dt, model.DataTypeNames())
	}
	return gdalTypes[dt], nil
}

// fromGDALType maps a GDAL enum back to its name. Types raspy does not know
// (e.g. Int8 on newer GDAL builds) keep GDAL's own name so they still print.
func fromGDALType(t gdal.DataType) model.DataType {
	for name, gt := range gdalTypes {
		if gt == t {
			return name
		}
	}
	return model.DataType(t.Name())
}

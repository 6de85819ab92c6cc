package raster

import (
	"github.com/raspy-go/raspy/internal/model"
)

// The getters below each open the file, read one piece of metadata and close
// it again without loading pixel data into memory.

// withDataset opens path, runs fn and always closes the dataset.
func withDataset[T any](path string, fn func(*Dataset) (T, error)) (T, error) {
	ds, err := Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer ds.Close()
	return fn(ds)
}

// Info returns the full metadata snapshot of the raster at path.
func Info(path string) (*model.RasterInfo, error) {
	return withDataset(path, (*Dataset).Info)
}

// NoData returns the nodata value of a 1-based band and whether one is set.
func NoData(path string, band int) (float64, bool, error) {
	type result struct {
		value float64
		ok    bool
	}
	r, err := withDataset(path, func(ds *Dataset) (result, error) {
		bi, err := ds.BandInfo(band)
		if err != nil {
			return result{}, err
		}
		if bi.NoData == nil {
			return result{}, nil
		}
		return result{value: *bi.NoData, ok: true}, nil
	})
	return r.value, r.ok, err
}

// GeoTransformSRS returns the geotransform and the projection WKT.
func GeoTransformSRS(path string) (model.GeoTransform, string, error) {
	type result struct {
		gt  model.GeoTransform
		wkt string
	}
	r, err := withDataset(path, func(ds *Dataset) (result, error) {
		return result{gt: ds.GeoTransform(), wkt: ds.Projection()}, nil
	})
	return r.gt, r.wkt, err
}

// Proj4 returns the raster's CRS as a proj4 string.
func Proj4(path string) (string, error) {
	return withDataset(path, func(ds *Dataset) (string, error) {
		return proj4FromWKT(ds.Projection())
	})
}

// BandCount returns the number of bands.
func BandCount(path string) (int, error) {
	return withDataset(path, func(ds *Dataset) (int, error) {
		_, _, bands := ds.Dims()
		return bands, nil
	})
}

// Dims returns the raster width, height and band count.
func Dims(path string) (cols, rows, bands int, err error) {
	type result struct{ cols, rows, bands int }
	r, err := withDataset(path, func(ds *Dataset) (result, error) {
		c, r, b := ds.Dims()
		return result{c, r, b}, nil
	})
	return r.cols, r.rows, r.bands, err
}

// XYRes returns the pixel width and height in CRS units. The height is
// positive for north-up rasters.
func XYRes(path string) (xres, yres float64, err error) {
	gt, _, err := GeoTransformSRS(path)
	if err != nil {
		return 0, 0, err
	}
	return gt.XRes(), gt.YRes(), nil
}

// ProjUnits returns the "+units=" value of the raster's CRS.
func ProjUnits(path string) (string, error) {
	p4, err := Proj4(path)
	if err != nil {
		return "", err
	}
	return model.ParseProj4Units(p4)
}

// CellAreaHa returns the grid cell area in hectares. The CRS must be metric.
func CellAreaHa(path string) (float64, error) {
	info, err := Info(path)
	if err != nil {
		return 0, err
	}
	return info.CellAreaHa()
}

// BandDataType returns the GDAL data type name of a 1-based band.
func BandDataType(path string, band int) (model.DataType, error) {
	return withDataset(path, func(ds *Dataset) (model.DataType, error) {
		bi, err := ds.BandInfo(band)
		if err != nil {
			return "", err
		}
		return bi.DataType, nil
	})
}

// UncompressedSize estimates the uncompressed size of the raster in bytes.
func UncompressedSize(path string) (float64, error) {
	info, err := Info(path)
	if err != nil {
		return 0, err
	}
	return info.UncompressedSize(), nil
}

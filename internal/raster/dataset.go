package raster

import (
	"errors"
	"fmt"
	"os"

	"github.com/lukeroth/gdal"

	"github.com/raspy-go/raspy/internal/model"
)

// Dataset wraps an open, read-only GDAL dataset.
//
// Usage:
//
//	ds, err := raster.Open("dem.tif")
//	if err != nil { /* handle */ }
//	defer ds.Close() // Always close to release the GDAL handle
//	info := ds.Info()
type Dataset struct {
	// inner is the underlying GDAL handle. We wrap it rather than exposing
	// it so that callers cannot write through a read-only dataset and so
	// that Close is idempotent.
	inner  gdal.Dataset
	path   string
	closed bool
}

// Open opens path read-only.
//
// A path that does not exist yields an error wrapping model.ErrNotFound; a
// path GDAL cannot read yields an error wrapping model.ErrIO. Nothing on
// disk is modified by opening and closing a dataset.
func Open(path string) (*Dataset, error) {
	if err := checkInput(path); err != nil {
		return nil, err
	}

	inner, err := gdal.Open(path, gdal.ReadOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: GDAL cannot open %s: %v", model.ErrIO, path, err)
	}
	return &Dataset{inner: inner, path: path}, nil
}

// checkInput verifies that path names an existing regular file.
func checkInput(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s does not exist", model.ErrNotFound, path)
		}
		return fmt.Errorf("%w: %v", model.ErrIO, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: %s is a directory", model.ErrInvalidArgument, path)
	}
	return nil
}

// Close releases the GDAL handle. Calling Close more than once is safe.
func (d *Dataset) Close() {
	if d.closed {
		return
	}
	d.inner.Close()
	d.closed = true
}

// Path returns the path the dataset was opened from.
func (d *Dataset) Path() string {
	return d.path
}

// Dims returns the raster width, height and band count.
func (d *Dataset) Dims() (cols, rows, bands int) {
	return d.inner.RasterXSize(), d.inner.RasterYSize(), d.inner.RasterCount()
}

// GeoTransform returns the affine pixel-to-CRS transform.
func (d *Dataset) GeoTransform() model.GeoTransform {
	return model.GeoTransform(d.inner.GeoTransform())
}

// Projection returns the CRS as WKT (empty when the raster has none).
func (d *Dataset) Projection() string {
	return d.inner.Projection()
}

// band returns the GDAL band for a 1-based index after validating it.
func (d *Dataset) band(index int) (gdal.RasterBand, error) {
	count := d.inner.RasterCount()
	if index < 1 || index > count {
		return gdal.RasterBand{}, fmt.Errorf("%w: band %d out of range (1-%d); there is no band 0",
			model.ErrInvalidArgument, index, count)
	}
	return d.inner.RasterBand(index), nil
}

// BandInfo returns the data type and nodata value of a 1-based band.
func (d *Dataset) BandInfo(index int) (model.BandInfo, error) {
	b, err := d.band(index)
	if err != nil {
		return model.BandInfo{}, err
	}
	info := model.BandInfo{
		Index:    index,
		DataType: fromGDALType(b.RasterDataType()),
	}
	if nd, ok := b.NoDataValue(); ok {
		info.NoData = &nd
	}
	return info, nil
}

// Info snapshots all metadata of the dataset. Proj4 is left empty when the
// raster has no CRS or GDAL cannot export it.
func (d *Dataset) Info() (*model.RasterInfo, error) {
	cols, rows, count := d.Dims()
	info := &model.RasterInfo{
		Path:         d.path,
		Driver:       d.inner.Driver().ShortName(),
		Cols:         cols,
		Rows:         rows,
		Bands:        make([]model.BandInfo, 0, count),
		GeoTransform: d.GeoTransform(),
		Projection:   d.Projection(),
	}
	for i := 1; i <= count; i++ {
		bi, err := d.BandInfo(i)
		if err != nil {
			return nil, err
		}
		info.Bands = append(info.Bands, bi)
	}
	if info.Projection != "" {
		if p4, err := proj4FromWKT(info.Projection); err == nil {
			info.Proj4 = p4
		}
	}
	return info, nil
}

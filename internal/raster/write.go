package raster

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lukeroth/gdal"

	"github.com/raspy-go/raspy/internal/grid"
	"github.com/raspy-go/raspy/internal/model"
)

// DefaultCreationOptions are the GeoTIFF creation options used when the
// caller (or config file) does not provide any.
var DefaultCreationOptions = []string{"COMPRESS=LZW"}

// WriteOptions controls how WriteGTiff creates the output file.
type WriteOptions struct {
	// DataType is the pixel type of every output band.
	DataType model.DataType

	// GeoTransform is written as-is.
	GeoTransform model.GeoTransform

	// Projection is the CRS WKT; left unset when empty.
	Projection string

	// NoData, when non-nil, is set on every output band.
	NoData *float64

	// CreationOptions are passed to the GTiff driver. Nil means
	// DefaultCreationOptions; an empty non-nil slice means none.
	CreationOptions []string

	// ComputeStats stores min/max/mean/std band statistics in the file.
	ComputeStats bool
}

// OptionsFrom builds WriteOptions that reproduce the georeferencing, first
// band type and first band nodata of an existing raster.
func OptionsFrom(info *model.RasterInfo) WriteOptions {
	opts := WriteOptions{
		GeoTransform: info.GeoTransform,
		Projection:   info.Projection,
		ComputeStats: true,
	}
	if len(info.Bands) > 0 {
		opts.DataType = info.Bands[0].DataType
		opts.NoData = info.Bands[0].NoData
	}
	return opts
}

// WriteGTiff writes stack to a GeoTIFF at path.
//
// The file is created under a temporary name in the destination directory
// and renamed into place only after every band has been written and the
// dataset closed, so a failed write never leaves a partial output behind.
// An invalid data type is rejected before anything is created.
func WriteGTiff(path string, stack *grid.Stack, opts WriteOptions, log *slog.Logger) (err error) {
	// Step 1: Validate everything that does not need GDAL.
	gdt, err := toGDALType(opts.DataType)
	if err != nil {
		return err
	}
	if stack == nil || stack.Count() == 0 {
		return fmt.Errorf("%w: nothing to write", model.ErrInvalidArgument)
	}
	dir := filepath.Dir(path)
	if fi, statErr := os.Stat(dir); statErr != nil || !fi.IsDir() {
		return fmt.Errorf("%w: output directory %s does not exist", model.ErrNotFound, dir)
	}

	driver, err := gdal.GetDriverByName("GTiff")
	if err != nil {
		return fmt.Errorf("%w: GTiff driver unavailable: %v", model.ErrIO, err)
	}

	// Step 2: Reserve a temporary name next to the destination so the final
	// rename stays on one filesystem.
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temporary output: %v", model.ErrIO, err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
			_ = os.Remove(tmpPath + ".aux.xml")
		}
	}()

	creation := opts.CreationOptions
	if creation == nil {
		creation = DefaultCreationOptions
	}

	log.Debug("writing GeoTIFF", "path", path, "type", opts.DataType, "options", creation)
	rows, cols, count := stack.Shape()
	ds := driver.Create(tmpPath, cols, rows, count, gdt, creation)
	closed := false
	defer func() {
		if !closed {
			ds.Close()
		}
	}()

	// Step 3: Georeferencing.
	if err = ds.SetGeoTransform([6]float64(opts.GeoTransform)); err != nil {
		return fmt.Errorf("%w: set geotransform: %v", model.ErrIO, err)
	}
	if opts.Projection != "" {
		if err = ds.SetProjection(opts.Projection); err != nil {
			return fmt.Errorf("%w: set projection: %v", model.ErrIO, err)
		}
	}

	// Step 4: Pixel data, nodata and optional statistics per band.
	for i, g := range stack.Bands() {
		band := ds.RasterBand(i + 1)
		if err = band.IO(gdal.Write, 0, 0, cols, rows, g.Data(), cols, rows, 0, 0); err != nil {
			return fmt.Errorf("%w: write band %d: %v", model.ErrIO, i+1, err)
		}
		if opts.NoData != nil {
			if err = band.SetNoDataValue(*opts.NoData); err != nil {
				return fmt.Errorf("%w: set nodata on band %d: %v", model.ErrIO, i+1, err)
			}
		}
		if opts.ComputeStats {
			if err = writeStats(band, g.WithNoData(opts.NoData)); err != nil {
				if !errors.Is(err, model.ErrNoValidData) {
					return err
				}
				log.Debug("skipping statistics", "band", i+1, "reason", err)
				err = nil
			}
		}
	}

	// Step 5: Flush by closing, then move into place.
	ds.Close()
	closed = true
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: move output into place: %v", model.ErrIO, err)
	}
	return nil
}

// writeStats computes statistics over the valid cells of g and stores them on
// band.
func writeStats(band gdal.RasterBand, g *grid.Grid) error {
	s, err := grid.ComputeStats(g)
	if err != nil {
		return err
	}
	if err := band.SetStatistics(s.Min, s.Max, s.Mean, s.Std); err != nil {
		return fmt.Errorf("%w: set statistics: %v", model.ErrIO, err)
	}
	return nil
}

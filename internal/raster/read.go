package raster

import (
	"fmt"
	"log/slog"

	"github.com/lukeroth/gdal"

	"github.com/raspy-go/raspy/internal/grid"
	"github.com/raspy-go/raspy/internal/model"
)

// ReadBand loads one 1-based band of path into memory. The band's nodata
// value, if any, is carried over to the grid.
func ReadBand(path string, band int) (*grid.Grid, error) {
	return withDataset(path, func(ds *Dataset) (*grid.Grid, error) {
		return ds.ReadBand(band)
	})
}

// Read loads the selected bands of path into a stack. An empty selection
// reads every band. Progress is logged at debug level.
func Read(path string, sel model.BandSelection, log *slog.Logger) (*grid.Stack, error) {
	log.Debug("reading raster", "path", path)
	return withDataset(path, func(ds *Dataset) (*grid.Stack, error) {
		return ds.Read(sel, log)
	})
}

// Read loads the selected bands of an open dataset into a stack.
func (d *Dataset) Read(sel model.BandSelection, log *slog.Logger) (*grid.Stack, error) {
	_, _, count := d.Dims()
	indices, err := sel.Resolve(count)
	if err != nil {
		return nil, err
	}

	if sel.All() {
		log.Debug("reading all bands", "bands", count)
	}
	bands := make([]*grid.Grid, 0, len(indices))
	for _, i := range indices {
		log.Debug("reading band", "band", i, "of", count)
		g, err := d.ReadBand(i)
		if err != nil {
			return nil, err
		}
		bands = append(bands, g)
	}
	return grid.NewStack(bands...)
}

// ReadBand loads one 1-based band of an open dataset into a grid.
func (d *Dataset) ReadBand(index int) (*grid.Grid, error) {
	b, err := d.band(index)
	if err != nil {
		return nil, err
	}
	cols, rows, _ := d.Dims()

	g := grid.New(rows, cols)
	// GDAL converts from the band's native type into the float64 buffer.
	if err := b.IO(gdal.Read, 0, 0, cols, rows, g.Data(), cols, rows, 0, 0); err != nil {
		return nil, fmt.Errorf("%w: read band %d of %s: %v", model.ErrIO, index, d.path, err)
	}
	if nd, ok := b.NoDataValue(); ok {
		g.SetNoData(nd)
	}
	return g, nil
}

// Package grid implements the in-memory array view of raster samples.
//
// A Grid is a rows x cols matrix of float64 samples stored row-major, with an
// optional nodata sentinel. A Stack is an ordered set of Grids that share the
// same shape, i.e. the pixel data of a multi-band raster. Grids are derived
// from rasters by the raster package and are never persisted on their own.
//
// Statistics are computed with gonum (stat, floats) over the valid cells:
// cells equal to the nodata value and NaN cells are excluded.
package grid

// Package raster is the I/O half of the raspy function library.
//
// Every storage and format concern is delegated to GDAL through the
// github.com/lukeroth/gdal bindings; this package only opens datasets,
// snapshots their metadata, moves pixel data into grid.Grid values and
// writes GeoTIFFs back out.
//
// Key responsibilities:
//   - Open rasters read-only and guarantee the handle is released (Dataset.Close)
//   - Metadata getters that never load pixel data (Dims, NoData, Proj4, ...)
//   - Read one, several, or all bands into a grid.Stack
//   - Write a grid.Stack to a GeoTIFF atomically (temp file + rename)
//   - Spatial reference helpers (proj4 export, ESRI .prj sidecars)
package raster

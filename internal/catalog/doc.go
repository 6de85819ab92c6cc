// Package catalog keeps a SQLite index of raster metadata.
//
// Scan walks a directory, opens each raster through the raster package and
// upserts one row per file keyed by absolute path. Every scan gets a UUID so
// rows can be traced to the scan that last touched them. The schema is
// managed by golang-migrate from migrations embedded in the binary.
package catalog

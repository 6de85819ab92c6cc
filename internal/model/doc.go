// Package model defines the domain types and value objects shared by the
// raspy library packages and command-line tools.
//
// This package contains pure data structures with no external dependencies.
// Raster metadata (RasterInfo) is a value snapshot taken from an open
// dataset; the dataset itself lives in the raster package and is closed as
// soon as the snapshot has been taken.
//
// The package also defines exit codes (ExitCode), the sentinel errors of the
// error taxonomy, and a custom error type (CLIError) that carries exit codes
// for proper OS process exit handling.
package model

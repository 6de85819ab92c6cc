// Package main is the standalone proj4string tool.
//
// Usage:
//
//	proj4string <src_dataset>
//
// It prints the PROJ4 string of a Shapefile (.shp, read from the sibling
// .prj file) or GeoTIFF dataset in single quotes. The command is the same
// one mounted as "raspy proj4string".
package main

import (
	"fmt"
	"os"

	"github.com/raspy-go/raspy/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cmd, err := cli.NewStandaloneCommand("proj4string")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cli.Execute(cmd)
}

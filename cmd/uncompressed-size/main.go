// Package main is the standalone uncompressed-size tool.
//
// Usage:
//
//	uncompressed-size <src_dataset> [--decimals N]
//
// It prints the estimated uncompressed size of a raster dataset as a
// human-readable string. The command is the same one mounted as
// "raspy uncompressed-size".
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

	cmd, err := cli.NewStandaloneCommand("uncompressed-size")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cli.Execute(cmd)
}

// Package cli — proj4string.go implements the "proj4string" tool.
//
// It prints the CRS of a GeoTIFF (from the dataset) or of a Shapefile (from
// its sibling .prj file) as a single-quoted proj4 string, ready to paste
// into a shell command line.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/raspy-go/raspy/internal/raster"
)

// NewProj4StringCommand creates the "proj4string" cobra command.
func NewProj4StringCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "proj4string <src_dataset>",
		Short: "Print the PROJ4 string of a Shapefile or GeoTIFF dataset",
		Long: `Print the PROJ4 string of a Shapefile or GeoTIFF dataset.

For a Shapefile the CRS is read from the .prj file next to it.

Examples:
  proj4string roads.shp
  raspy proj4string dem.tif`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProj4String(cmd.OutOrStdout(), args[0])
		},
	}
}

// runProj4String is the main logic function for the proj4string command.
func runProj4String(w io.Writer, src string) error {
	// Step 1: The source must exist and have a supported extension.
	if err := checkInputs(src); err != nil {
		return err
	}
	kind, err := raster.DetectKind(src)
	if err != nil {
		return err
	}
	VerboseLog("Reading CRS of %s as %s", src, kind)

	// Step 2: Export the CRS.
	p4, err := raster.DatasetProj4(src)
	if err != nil {
		return err
	}

	// Step 3: Print it.
	if IsJSONOutput() {
		return printJSON(w, map[string]string{"path": src, "kind": string(kind), "proj4": p4})
	}
	_, err = fmt.Fprintf(w, "'%s'\n", p4)
	return err
}

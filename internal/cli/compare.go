// Package cli — compare.go implements the "raspy compare" command.
//
// The compare command reports the share of cells that hold identical values
// in two rasters of the same dimensions.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/raspy-go/raspy/internal/grid"
	"github.com/raspy-go/raspy/internal/raster"
)

// compareFlags holds the flag values for the compare command.
type compareFlags struct {
	// band is the 1-based band compared in both rasters.
	band int
}

// NewCompareCommand creates the "compare" cobra command.
func NewCompareCommand() *cobra.Command {
	flags := &compareFlags{}

	cmd := &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Compare the cells of two rasters",
		Long: `Compare two rasters cell by cell and print the percentage of identical
cells. Both rasters must have the same dimensions (exit code 4 otherwise).

Examples:
  raspy compare before.tif after.tif
  raspy compare a.tif b.tif --band 2 --json`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.OutOrStdout(), flags, args[0], args[1])
		},
	}

	cmd.Flags().IntVar(&flags.band, "band", 1, "Band to compare")

	return cmd
}

// runCompare is the main logic function for the compare command.
func runCompare(w io.Writer, flags *compareFlags, a, b string) error {
	if err := checkBand(flags.band); err != nil {
		return err
	}
	if err := checkInputs(a, b); err != nil {
		return err
	}

	ga, err := raster.ReadBand(a, flags.band)
	if err != nil {
		return err
	}
	gb, err := raster.ReadBand(b, flags.band)
	if err != nil {
		return err
	}

	c, err := grid.Compare(ga, gb)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, c)
	}
	_, err = fmt.Fprintln(w, c.String())
	return err
}

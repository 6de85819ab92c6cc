// Package cli — stats.go implements the "raspy stats" command.
//
// The stats command prints min, max, mean and standard deviation of the
// valid cells of one band. Cells equal to the nodata value are excluded.
package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raspy-go/raspy/internal/grid"
	"github.com/raspy-go/raspy/internal/raster"
)

// statsFlags holds the flag values for the stats command.
type statsFlags struct {
	// band is the 1-based band to summarise.
	band int

	// nodata overrides the band's nodata value when nodataSet is true.
	nodata    float64
	nodataSet bool
}

// NewStatsCommand creates the "stats" cobra command.
func NewStatsCommand() *cobra.Command {
	flags := &statsFlags{}

	cmd := &cobra.Command{
		Use:   "stats <src>",
		Short: "Print descriptive statistics of a raster band",
		Long: `Print min, max, mean and standard deviation of the valid cells of a band.

The output is a tab-separated header row and value row with two decimals.
When the band has a nodata value (or --nodata is given) it is excluded from
the statistics and printed in an extra NoData column.

Examples:
  raspy stats dem.tif
  raspy stats landsat.tif --band 4 --nodata 0`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.nodataSet = cmd.Flags().Changed("nodata")
			return runStats(cmd.OutOrStdout(), flags, args[0])
		},
	}

	cmd.Flags().IntVar(&flags.band, "band", 1, "Band to summarise")
	cmd.Flags().Float64Var(&flags.nodata, "nodata", 0, "Nodata value (overrides the band's)")

	return cmd
}

// runStats is the main logic function for the stats command.
func runStats(w io.Writer, flags *statsFlags, src string) error {
	// Step 1: Validate arguments and input.
	if err := checkBand(flags.band); err != nil {
		return err
	}
	if err := checkInputs(src); err != nil {
		return err
	}

	// Step 2: Read the band and apply the nodata override.
	g, err := raster.ReadBand(src, flags.band)
	if err != nil {
		return err
	}
	if flags.nodataSet {
		g.SetNoData(flags.nodata)
	}

	// Step 3: Compute and print.
	st, err := grid.ComputeStats(g)
	if err != nil {
		return err
	}
	VerboseLog("Computed statistics over %d of %d cells", st.Count, g.Len())

	if IsJSONOutput() {
		return printJSON(w, st)
	}
	printStatsText(w, st)
	return nil
}

// printStatsText prints the statistics as a tab-separated header and value
// row, for example:
//
//	Min.	Max.	Mean	Std.	NoData
//	1.00	9.00	5.00	2.58	0
func printStatsText(w io.Writer, st grid.Stats) {
	if st.NoData == nil {
		fmt.Fprintln(w, "Min.\tMax.\tMean\tStd.")
		fmt.Fprintf(w, "%2.2f\t%2.2f\t%2.2f\t%2.2f\n", st.Min, st.Max, st.Mean, st.Std)
		return
	}
	fmt.Fprintln(w, "Min.\tMax.\tMean\tStd.\tNoData")
	fmt.Fprintf(w, "%2.2f\t%2.2f\t%2.2f\t%2.2f\t%s\n", st.Min, st.Max, st.Mean, st.Std, formatNoDataInt(*st.NoData))
}

// formatNoDataInt prints a nodata value truncated to an integer with every
// digit written out (-3.4028234663852886e+38 prints as
// -340282346638528859811704183484516925440). NaN and the infinities print
// as "nan", "inf" and "-inf".
func formatNoDataInt(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	t := math.Trunc(v)
	if t == 0 {
		// Drop the sign of negative zero.
		t = 0
	}
	return strconv.FormatFloat(t, 'f', 0, 64)
}

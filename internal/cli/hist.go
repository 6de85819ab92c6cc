// Package cli — hist.go implements the "raspy hist" command.
package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raspy-go/raspy/internal/model"
	"github.com/raspy-go/raspy/internal/raster"
	"github.com/raspy-go/raspy/internal/render"
)

// histFlags holds the flag values for the hist command.
type histFlags struct {
	band int
	bins int
}

// NewHistCommand creates the "hist" cobra command.
func NewHistCommand() *cobra.Command {
	flags := &histFlags{}

	cmd := &cobra.Command{
		Use:   "hist <src> <out.html>",
		Short: "Write an HTML histogram of a raster band",
		Long: `Write an interactive HTML histogram of the valid cells of a band.
Bins have equal width between the band's minimum and maximum.

Examples:
  raspy hist dem.tif dem-hist.html
  raspy hist landsat.tif nir.html --band 4 --bins 100`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHist(cmd.OutOrStdout(), flags, args[0], args[1])
		},
	}

	cmd.Flags().IntVar(&flags.band, "band", 1, "Band to summarise")
	cmd.Flags().IntVar(&flags.bins, "bins", render.DefaultBins, "Number of bins")

	return cmd
}

// runHist is the main logic function for the hist command.
func runHist(w io.Writer, flags *histFlags, src, dst string) error {
	if err := checkBand(flags.band); err != nil {
		return err
	}
	if flags.bins < 1 {
		return model.NewCLIError(model.ExitInvalidArgument, fmt.Sprintf("bins must be >= 1, got %d", flags.bins))
	}
	if err := checkInputs(src); err != nil {
		return err
	}

	g, err := raster.ReadBand(src, flags.band)
	if err != nil {
		return err
	}

	opts := render.HistogramOptions{
		Title:    fmt.Sprintf("%s, band %d", filepath.Base(src), flags.band),
		Subtitle: fmt.Sprintf("%d valid of %d cells", len(g.Valid()), g.Len()),
		Bins:     flags.bins,
	}
	if err := render.SaveHistogram(dst, g, opts); err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, map[string]interface{}{"source": src, "output": dst, "band": flags.band, "bins": flags.bins})
	}
	_, err = fmt.Fprintf(w, "Wrote %s\n", dst)
	return err
}

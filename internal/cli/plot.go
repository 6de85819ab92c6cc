// Package cli — plot.go implements the "raspy plot" command.
//
// The plot command renders one band as a map image: continuous data with a
// named palette, or categorical data with a class table that assigns a
// colour to each cell value.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raspy-go/raspy/internal/config"
	"github.com/raspy-go/raspy/internal/raster"
	"github.com/raspy-go/raspy/internal/render"
)

// plotFlags holds the flag values for the plot command.
type plotFlags struct {
	band        int
	palette     string
	classes     string
	nodataColor string
	title       string
	noLegend    bool
	axes        bool
}

// NewPlotCommand creates the "plot" cobra command.
func NewPlotCommand() *cobra.Command {
	flags := &plotFlags{}

	cmd := &cobra.Command{
		Use:   "plot <src> <out.png>",
		Short: "Render a raster band as a map image",
		Long: `Render a raster band to an image file (PNG, or SVG/PDF by extension).

Continuous palettes: ` + strings.Join(render.PaletteNames(), ", ") + `,
and any ColorBrewer scheme (Greens, RdYlBu, Spectral, ...). An unknown
palette falls back to ` + render.DefaultPalette + ` with a warning.

A class table (--classes) switches to a categorical map. It is a YAML or
JSONC file mapping integer cell values to colour names or #rrggbb:

  0: red
  1: black
  255: white

Examples:
  raspy plot dem.tif dem.png --palette blackbody --title "Elevation"
  raspy plot landcover.tif lc.png --classes classes.yaml --nodata-color white`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, args[0], args[1])
		},
	}

	cmd.Flags().IntVar(&flags.band, "band", 1, "Band to plot")
	cmd.Flags().StringVar(&flags.palette, "palette", "", "Continuous palette (default from config: kindlmann)")
	cmd.Flags().StringVar(&flags.classes, "classes", "", "Class table file for categorical maps")
	cmd.Flags().StringVar(&flags.nodataColor, "nodata-color", "", "Colour of nodata cells (default from config: black)")
	cmd.Flags().StringVar(&flags.title, "title", "", "Map title")
	cmd.Flags().BoolVar(&flags.noLegend, "no-legend", false, "Do not draw a legend")
	cmd.Flags().BoolVar(&flags.axes, "axes", false, "Draw axes in map units")

	return cmd
}

// runPlot is the main logic function for the plot command.
func runPlot(w, errw io.Writer, flags *plotFlags, src, dst string) error {
	// Step 1: Validate the input and resolve the colour settings.
	if err := checkBand(flags.band); err != nil {
		return err
	}
	if err := checkInputs(src); err != nil {
		return err
	}

	nodataName := firstNonEmpty(flags.nodataColor, settings.NodataColor)
	nodataColour, err := render.ParseColour(nodataName)
	if err != nil {
		return err
	}

	opts := render.MapOptions{
		Title:       flags.title,
		NodataColor: nodataColour,
		Legend:      !flags.noLegend,
		Axes:        flags.axes,
	}

	// Step 2: Pick categorical or continuous colouring.
	classes := settings.Classes
	if flags.classes != "" {
		if err := checkInputs(flags.classes); err != nil {
			return err
		}
		classes, err = config.LoadClasses(flags.classes)
		if err != nil {
			return err
		}
	}
	if len(classes) > 0 {
		ct, err := render.NewClassTable(classes)
		if err != nil {
			return err
		}
		opts.Classes = ct
		VerboseLog("Plotting %d classes", ct.Len())
	} else {
		name := firstNonEmpty(flags.palette, settings.Palette)
		pal, fellBack := render.PaletteOrDefault(name)
		if fellBack {
			Warn(errw, "%q is not a palette option, using %s instead", name, render.DefaultPalette)
		}
		opts.Palette = pal
	}

	// Step 3: Read the band and its georeferencing.
	g, err := raster.ReadBand(src, flags.band)
	if err != nil {
		return err
	}
	gt, _, err := raster.GeoTransformSRS(src)
	if err != nil {
		return err
	}
	opts.GeoTransform = gt

	// Step 4: Render.
	if err := render.SaveMap(dst, g, opts); err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, map[string]interface{}{"source": src, "output": dst, "band": flags.band})
	}
	_, err = fmt.Fprintf(w, "Wrote %s\n", dst)
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

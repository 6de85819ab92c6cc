// Package cli — translate.go implements the "raspy translate" command.
//
// The translate command reads bands of a raster into memory and writes them
// to a new GeoTIFF, optionally changing the data type, nodata value and
// creation options. Dimensions, geotransform and CRS are preserved.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/raspy-go/raspy/internal/model"
	"github.com/raspy-go/raspy/internal/raster"
)

// translateFlags holds the flag values for the translate command.
type translateFlags struct {
	// bands selects the 1-based bands to copy; empty copies all bands.
	bands []int

	// dataType is the output data type; empty keeps the source type.
	dataType string

	// nodata sets the output nodata value when nodataSet is true.
	nodata    float64
	nodataSet bool

	// creationOptions replace the configured GTiff creation options.
	creationOptions []string

	// noStats skips writing band statistics.
	noStats bool
}

// translateResult is the JSON output of the translate command.
type translateResult struct {
	Source      string           `json:"source"`
	Destination string           `json:"destination"`
	Bands       []int            `json:"bands"`
	DataType    model.DataType   `json:"dataType"`
	NoData      *model.JSONFloat `json:"nodata,omitempty"`
}

// NewTranslateCommand creates the "translate" cobra command.
func NewTranslateCommand() *cobra.Command {
	flags := &translateFlags{}

	cmd := &cobra.Command{
		Use:   "translate <src> <dst>",
		Short: "Read a raster and write it back as GeoTIFF",
		Long: `Read bands of a raster and write them to a GeoTIFF.

The output keeps the dimensions, geotransform and CRS of the source. The
file is written under a temporary name and renamed into place, so a failed
write never leaves a partial output.

Data types: ` + model.DataTypeNames() + `

Examples:
  raspy translate in.tif out.tif
  raspy translate landsat.tif rgb.tif --bands 4,3,2
  raspy translate dem.tif dem32.tif --type Float32 --nodata -9999 --co COMPRESS=DEFLATE --co TILED=YES`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.nodataSet = cmd.Flags().Changed("nodata")
			return runTranslate(cmd.OutOrStdout(), flags, args[0], args[1])
		},
	}

	cmd.Flags().IntSliceVar(&flags.bands, "bands", nil, "Bands to copy, e.g. 1,3,6 (default: all)")
	cmd.Flags().StringVar(&flags.dataType, "type", "", "Output data type (default: source type of the first band)")
	cmd.Flags().Float64Var(&flags.nodata, "nodata", 0, "Output nodata value (default: source nodata)")
	cmd.Flags().StringArrayVar(&flags.creationOptions, "co", nil, "GTiff creation option KEY=VALUE (repeatable)")
	cmd.Flags().BoolVar(&flags.noStats, "no-stats", false, "Do not store band statistics")

	return cmd
}

// runTranslate is the main logic function for the translate command.
func runTranslate(w io.Writer, flags *translateFlags, src, dst string) error {
	// Step 1: Validate the input and flags before touching the output.
	if err := checkInputs(src); err != nil {
		return err
	}
	var dataType model.DataType
	if flags.dataType != "" {
		dt, err := model.ParseDataType(flags.dataType)
		if err != nil {
			return err
		}
		dataType = dt
	}

	// Step 2: Read metadata and resolve the band selection.
	info, err := raster.Info(src)
	if err != nil {
		return err
	}
	bands, err := model.BandSelection(flags.bands).Resolve(info.BandCount())
	if err != nil {
		return err
	}

	// Step 3: Read the pixel data.
	stack, err := raster.Read(src, model.BandSelection(bands), Logger())
	if err != nil {
		return err
	}

	// Step 4: Build write options from the source, then apply overrides.
	opts := raster.OptionsFrom(info)
	first, err := info.Band(bands[0])
	if err != nil {
		return err
	}
	opts.DataType = first.DataType
	opts.NoData = first.NoData
	if dataType != "" {
		opts.DataType = dataType
	}
	if flags.nodataSet {
		v := flags.nodata
		opts.NoData = &v
		for _, g := range stack.Bands() {
			g.SetNoData(v)
		}
	}
	opts.CreationOptions = settings.CreationOptions
	if len(flags.creationOptions) > 0 {
		opts.CreationOptions = flags.creationOptions
	}
	opts.ComputeStats = settings.ComputeStats && !flags.noStats

	// Step 5: Write.
	if err := raster.WriteGTiff(dst, stack, opts, Logger()); err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, translateResult{
			Source: src, Destination: dst, Bands: bands, DataType: opts.DataType, NoData: model.NoDataJSON(opts.NoData),
		})
	}
	_, err = fmt.Fprintf(w, "Wrote %s (%d band(s), %s)\n", dst, len(bands), opts.DataType)
	return err
}

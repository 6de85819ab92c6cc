// Package cli — info.go implements the "raspy info" command.
//
// The info command prints raster metadata without reading pixel data: the
// full summary, or a single field selected with --field so that scripts can
// capture one value.
package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raspy-go/raspy/internal/model"
	"github.com/raspy-go/raspy/internal/raster"
)

// infoFlags holds the flag values for the info command.
type infoFlags struct {
	// field selects a single metadata field; empty prints everything.
	field string

	// band is the 1-based band used by band-level fields (nodata, dtype).
	band int
}

// infoFields maps each --field value to the function that renders it.
var infoFields = map[string]func(info *model.RasterInfo, band int) (interface{}, error){
	"dims": func(info *model.RasterInfo, _ int) (interface{}, error) {
		return []int{info.Cols, info.Rows, info.BandCount()}, nil
	},
	"bands": func(info *model.RasterInfo, _ int) (interface{}, error) {
		return info.BandCount(), nil
	},
	"nodata": func(info *model.RasterInfo, band int) (interface{}, error) {
		b, err := info.Band(band)
		if err != nil {
			return nil, err
		}
		if b.NoData == nil {
			return nil, nil
		}
		return *b.NoData, nil
	},
	"res": func(info *model.RasterInfo, _ int) (interface{}, error) {
		return []float64{info.GeoTransform.XRes(), info.GeoTransform.YRes()}, nil
	},
	"units": func(info *model.RasterInfo, _ int) (interface{}, error) {
		return info.Units()
	},
	"area": func(info *model.RasterInfo, _ int) (interface{}, error) {
		return info.CellAreaHa()
	},
	"dtype": func(info *model.RasterInfo, band int) (interface{}, error) {
		b, err := info.Band(band)
		if err != nil {
			return nil, err
		}
		return b.DataType, nil
	},
	"geotransform": func(info *model.RasterInfo, _ int) (interface{}, error) {
		return info.GeoTransform, nil
	},
	"proj4": func(info *model.RasterInfo, _ int) (interface{}, error) {
		return info.Proj4, nil
	},
	"srs": func(info *model.RasterInfo, _ int) (interface{}, error) {
		return info.Projection, nil
	},
}

// infoFieldNames returns the valid --field values, sorted.
func infoFieldNames() []string {
	names := make([]string, 0, len(infoFields))
	for name := range infoFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewInfoCommand creates the "info" cobra command.
func NewInfoCommand() *cobra.Command {
	flags := &infoFlags{}

	cmd := &cobra.Command{
		Use:   "info <src>",
		Short: "Print raster metadata",
		Long: `Print the metadata of a raster dataset without reading pixel data.

With --field only that value is printed:
  ` + strings.Join(infoFieldNames(), ", ") + `

Examples:
  raspy info dem.tif
  raspy info dem.tif --field res
  raspy info landsat.tif --field nodata --band 4
  raspy info dem.tif --json`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.field, "field", "", "Print a single field: "+strings.Join(infoFieldNames(), ", "))
	cmd.Flags().IntVar(&flags.band, "band", 1, "Band used by the nodata and dtype fields")

	return cmd
}

// runInfo is the main logic function for the info command.
func runInfo(w io.Writer, flags *infoFlags, src string) error {
	// Step 1: Validate flags and input before opening anything.
	var render func(*model.RasterInfo, int) (interface{}, error)
	if flags.field != "" {
		var ok bool
		render, ok = infoFields[flags.field]
		if !ok {
			return model.NewCLIError(model.ExitInvalidArgument,
				fmt.Sprintf("invalid field %q: valid values are %s", flags.field, strings.Join(infoFieldNames(), ", ")))
		}
	}
	if err := checkBand(flags.band); err != nil {
		return err
	}
	if err := checkInputs(src); err != nil {
		return err
	}

	// Step 2: Read the metadata.
	info, err := raster.Info(src)
	if err != nil {
		return err
	}
	VerboseLog("Opened %s with driver %s", src, info.Driver)

	// Step 3: Print a single field or the full summary.
	if render != nil {
		value, err := render(info, flags.band)
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			if f, ok := value.(float64); ok {
				value = model.JSONFloat(f)
			}
			return printJSON(w, map[string]interface{}{"path": src, "field": flags.field, "value": value})
		}
		_, err = fmt.Fprintln(w, formatValue(value))
		return err
	}

	if IsJSONOutput() {
		return printJSON(w, newInfoJSON(info))
	}
	printInfoText(w, info)
	return nil
}

// formatValue renders a field value the way the text output prints it:
// lists space-separated, missing values as "None".
func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []int:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, " ")
	case []float64:
		parts := make([]string, len(x))
		for i, f := range x {
			parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
		}
		return strings.Join(parts, " ")
	case model.GeoTransform:
		return formatValue(x[:])
	default:
		return fmt.Sprint(x)
	}
}

// infoJSON is the JSON output structure of the info command. Derived
// values that cannot be computed (units, area) are omitted.
type infoJSON struct {
	*model.RasterInfo
	Extent           model.Extent `json:"extent"`
	Units            string       `json:"units,omitempty"`
	CellAreaHa       *float64     `json:"cellAreaHa,omitempty"`
	UncompressedSize float64      `json:"uncompressedSize"`
}

func newInfoJSON(info *model.RasterInfo) infoJSON {
	out := infoJSON{
		RasterInfo:       info,
		Extent:           info.Extent(),
		UncompressedSize: info.UncompressedSize(),
	}
	if units, err := info.Units(); err == nil {
		out.Units = units
	}
	if area, err := info.CellAreaHa(); err == nil {
		out.CellAreaHa = &area
	}
	return out
}

// printInfoText outputs the metadata summary as aligned "Label: value"
// lines.
func printInfoText(w io.Writer, info *model.RasterInfo) {
	row := func(label string, value interface{}) {
		fmt.Fprintf(w, "%-18s %s\n", label+":", formatValue(value))
	}

	row("Path", info.Path)
	row("Driver", info.Driver)
	row("Size", fmt.Sprintf("%d x %d (cols x rows)", info.Cols, info.Rows))
	row("Bands", info.BandCount())
	for _, b := range info.Bands {
		var nd interface{}
		if b.NoData != nil {
			nd = *b.NoData
		}
		row(fmt.Sprintf("Band %d", b.Index), fmt.Sprintf("%s, nodata %s", b.DataType, formatValue(nd)))
	}
	row("Resolution", []float64{info.GeoTransform.XRes(), info.GeoTransform.YRes()})
	row("Extent", info.Extent().String())

	units, err := info.Units()
	if err != nil {
		units = "unknown"
	}
	row("Units", units)
	if area, err := info.CellAreaHa(); err == nil {
		row("Cell area (ha)", area)
	}
	if info.Proj4 != "" {
		row("Proj4", info.Proj4)
	}
	row("Uncompressed size", model.HumanReadableSize(info.UncompressedSize(), 2))
}

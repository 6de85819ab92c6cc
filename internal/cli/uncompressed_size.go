// Package cli — uncompressed_size.go implements the "uncompressed-size" tool.
//
// It estimates how large a (compressed) raster is once loaded in memory:
// bands * rows * cols * bytes per sample, printed in binary units.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/raspy-go/raspy/internal/model"
	"github.com/raspy-go/raspy/internal/raster"
)

// uncompressedSizeFlags holds the flag values for the uncompressed-size
// command.
type uncompressedSizeFlags struct {
	// decimals is the number of digits after the decimal point.
	decimals int
}

// NewUncompressedSizeCommand creates the "uncompressed-size" cobra command.
func NewUncompressedSizeCommand() *cobra.Command {
	flags := &uncompressedSizeFlags{}

	cmd := &cobra.Command{
		Use:   "uncompressed-size <src_dataset>",
		Short: "Print the estimated uncompressed size of a raster dataset",
		Long: `Print the uncompressed estimated file size of a compressed GeoTIFF
dataset as a human-readable string (B, KB, MB, GB, TB; base 1024).

The first band's data type is used for every band.

Examples:
  uncompressed-size landsat.tif
  raspy uncompressed-size landsat.tif --decimals 0`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUncompressedSize(cmd.OutOrStdout(), flags, args[0])
		},
	}

	cmd.Flags().IntVar(&flags.decimals, "decimals", 2, "Digits after the decimal point")

	return cmd
}

// runUncompressedSize is the main logic function for the uncompressed-size
// command.
func runUncompressedSize(w io.Writer, flags *uncompressedSizeFlags, src string) error {
	if flags.decimals < 0 {
		return model.NewCLIError(model.ExitInvalidArgument,
			fmt.Sprintf("decimals must be >= 0, got %d", flags.decimals))
	}
	if err := checkInputs(src); err != nil {
		return err
	}

	size, err := raster.UncompressedSize(src)
	if err != nil {
		return err
	}
	human := model.HumanReadableSize(size, flags.decimals)

	if IsJSONOutput() {
		return printJSON(w, map[string]interface{}{"path": src, "bytes": size, "human": human})
	}
	_, err = fmt.Fprintln(w, human)
	return err
}

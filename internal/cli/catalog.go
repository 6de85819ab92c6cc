// Package cli — catalog.go implements the "raspy catalog" commands.
//
// "catalog scan" indexes the metadata of every raster in a directory into a
// SQLite database; "catalog list" prints the indexed rasters. Files that
// cannot be opened are logged and skipped.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/raspy-go/raspy/internal/catalog"
	"github.com/raspy-go/raspy/internal/model"
)

// catalogFlags holds the flag values shared by the catalog subcommands.
type catalogFlags struct {
	// db is the catalog database; empty uses the configured catalogPath.
	db string

	// recursive descends into subdirectories during scan.
	recursive bool
}

// NewCatalogCommand creates the "catalog" cobra command and its scan and
// list subcommands.
func NewCatalogCommand() *cobra.Command {
	flags := &catalogFlags{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Index raster metadata into SQLite",
		Long: `Index raster metadata (dimensions, data type, nodata, resolution, extent,
CRS, size) into a SQLite database and list it.

Examples:
  raspy catalog scan /data/rasters --recursive
  raspy catalog list --db /data/catalog.db --json`,
	}
	cmd.PersistentFlags().StringVar(&flags.db, "db", "", "Catalog database (default from config: raspy-catalog.db)")

	scan := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Index the rasters in a directory",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogScan(cmd.Context(), cmd.OutOrStdout(), flags, args[0])
		},
	}
	scan.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Scan subdirectories")

	list := &cobra.Command{
		Use:   "list",
		Short: "List indexed rasters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.AddCommand(scan, list)
	return cmd
}

// openCatalog opens the database named by --db or the config.
func openCatalog(ctx context.Context, flags *catalogFlags) (*catalog.Catalog, error) {
	path := firstNonEmpty(flags.db, settings.CatalogPath)
	VerboseLog("Using catalog %s", path)
	return catalog.Open(ctx, path, Logger())
}

// runCatalogScan is the main logic function for "catalog scan".
func runCatalogScan(ctx context.Context, w io.Writer, flags *catalogFlags, dir string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Open the catalog (creates and migrates it on first use).
	c, err := openCatalog(ctx, flags)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	// Step 2: Walk the directory.
	res, err := c.Scan(ctx, dir, flags.recursive)
	if err != nil {
		return err
	}

	// Step 3: Report.
	if IsJSONOutput() {
		return printJSON(w, res)
	}
	_, err = fmt.Fprintf(w, "Indexed %d raster(s), skipped %d (scan %s)\n", res.Indexed, res.Skipped, res.ScanID)
	return err
}

// runCatalogList is the main logic function for "catalog list".
func runCatalogList(ctx context.Context, w io.Writer, flags *catalogFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := openCatalog(ctx, flags)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	entries, err := c.List(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		// An empty slice instead of nil so the JSON shows [] rather than null.
		if entries == nil {
			entries = []catalog.Entry{}
		}
		return printJSON(w, map[string]interface{}{"rasters": entries})
	}
	printCatalogText(w, entries)
	return nil
}

// printCatalogText outputs the entries as a fixed-width table:
//
//	PATH                                     SIZE        BANDS  TYPE      RES
//	/data/dem.tif                            1000x800    1      Int16     30x30
func printCatalogText(w io.Writer, entries []catalog.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No rasters indexed.")
		return
	}

	fmt.Fprintf(w, "%-40s %-11s %-6s %-9s %s\n", "PATH", "SIZE", "BANDS", "TYPE", "RES")
	for _, e := range entries {
		fmt.Fprintf(w, "%-40s %-11s %-6d %-9s %s\n",
			e.Path,
			fmt.Sprintf("%dx%d", e.Cols, e.Rows),
			e.Bands,
			e.DataType,
			fmt.Sprintf("%gx%g", e.XRes, e.YRes),
		)
	}
	fmt.Fprintf(w, "\n%d raster(s), %s uncompressed\n", len(entries), model.HumanReadableSize(totalUncompressed(entries), 2))
}

// totalUncompressed sums the estimated in-memory size of all entries.
func totalUncompressed(entries []catalog.Entry) float64 {
	var total float64
	for _, e := range entries {
		total += e.UncompressedSize
	}
	return total
}

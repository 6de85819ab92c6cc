package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/lukeroth/gdal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/raspy-go/raspy/internal/config"
	"github.com/raspy-go/raspy/internal/grid"
	"github.com/raspy-go/raspy/internal/logging"
	"github.com/raspy-go/raspy/internal/model"
	"github.com/raspy-go/raspy/internal/raster"
)

// result captures one CLI invocation.
type result struct {
	stdout string
	stderr string
	code   model.ExitCode
}

// execute runs cmd with args and captures its output and exit code.
func execute(t *testing.T, cmd *cobra.Command, args ...string) result {
	t.Helper()
	// Keep a developer's config file or environment out of the tests.
	t.Setenv(config.EnvVar, "")

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	code := Run(cmd)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// raspy runs the raspy root command.
func raspy(t *testing.T, args ...string) result {
	t.Helper()
	return execute(t, NewRootCommand(), args...)
}

// utmWKT returns the WKT of WGS 84 / UTM zone 10N (EPSG:32610).
func utmWKT(t *testing.T) string {
	t.Helper()
	sr := gdal.CreateSpatialReference("")
	defer sr.Destroy()
	require.NoError(t, sr.FromEPSG(32610))
	wkt, err := sr.ToWKT()
	require.NoError(t, err)
	return wkt
}

// fixture describes a GeoTIFF written by writeFixture.
type fixture struct {
	rows, cols int
	dataType   model.DataType
	nodata     *float64
	// noCRS leaves the projection unset.
	noCRS bool
	// bands holds the cell values of each band, row-major.
	bands [][]float64
}

// writeFixture writes f to dir/name on a 30 m UTM 10N grid.
func writeFixture(t *testing.T, dir, name string, f fixture) string {
	t.Helper()
	grids := make([]*grid.Grid, 0, len(f.bands))
	for _, values := range f.bands {
		g, err := grid.FromSlice(f.rows, f.cols, values)
		require.NoError(t, err)
		grids = append(grids, g)
	}
	stack, err := grid.NewStack(grids...)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	opts := raster.WriteOptions{
		DataType:     f.dataType,
		GeoTransform: model.GeoTransform{500000, 30, 0, 4200000, 0, -30},
		NoData:       f.nodata,
	}
	if !f.noCRS {
		opts.Projection = utmWKT(t)
	}
	require.NoError(t, raster.WriteGTiff(path, stack, opts, logging.NewNop()))
	return path
}

// seq returns n values start, start+1, ...
func seq(start float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

func ptr(v float64) *float64 { return &v }

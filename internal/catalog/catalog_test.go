package catalog

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raspy-go/raspy/internal/grid"
	"github.com/raspy-go/raspy/internal/logging"
	"github.com/raspy-go/raspy/internal/model"
	"github.com/raspy-go/raspy/internal/raster"
)

// writeRaster writes a small single-band GeoTIFF through the raster package.
func writeRaster(t *testing.T, path string, rows, cols int, nodata *float64) {
	t.Helper()
	g := grid.New(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Set(r, c, float64(r*cols+c))
		}
	}
	stack, err := grid.NewStack(g)
	require.NoError(t, err)
	opts := raster.WriteOptions{
		DataType:     model.TypeInt16,
		GeoTransform: model.GeoTransform{0, 10, 0, 100, 0, -10},
		NoData:       nodata,
	}
	require.NoError(t, raster.WriteGTiff(path, stack, opts, logging.NewNop()))
}

func openCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpen_AppliesMigrations(t *testing.T) {
	c := openCatalog(t)
	v, err := c.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
}

// TestOpen_Reopen verifies that opening an up-to-date database is not an
// error and keeps its rows.
func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	c, err := Open(ctx, path, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Upsert(ctx, Entry{Path: "/x.tif", Driver: "GTiff", DataType: model.TypeByte, ScanID: "s"}))
	require.NoError(t, c.Close())

	c, err = Open(ctx, path, logging.NewNop())
	require.NoError(t, err)
	defer c.Close()
	entries, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/x.tif", entries[0].Path)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, err := Open(ctx, dir, logging.NewNop())
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = Open(ctx, filepath.Join(dir, "missing", "c.db"), logging.NewNop())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// TestScan indexes good rasters, skips a corrupt one and ignores other files.
func TestScan(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeRaster(t, filepath.Join(root, "b.tif"), 2, 3, nil)
	nd := -1.0
	writeRaster(t, filepath.Join(root, "a.tif"), 4, 5, &nd)
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.tif"), []byte("not a tiff"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hi"), 0644))
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeRaster(t, filepath.Join(sub, "c.tif"), 1, 1, nil)

	c := openCatalog(t)

	res, err := c.Scan(ctx, root, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Indexed)
	assert.Equal(t, 1, res.Skipped)
	_, err = uuid.Parse(res.ScanID)
	assert.NoError(t, err, "scan id is a UUID")

	entries, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, filepath.Join(root, "a.tif"), entries[0].Path, "sorted by path")
	assert.Equal(t, filepath.Join(root, "b.tif"), entries[1].Path)

	a := entries[0]
	assert.Equal(t, "GTiff", a.Driver)
	assert.Equal(t, 5, a.Cols)
	assert.Equal(t, 4, a.Rows)
	assert.Equal(t, 1, a.Bands)
	assert.Equal(t, model.TypeInt16, a.DataType)
	require.NotNil(t, a.NoData)
	assert.Equal(t, -1.0, *a.NoData)
	assert.Equal(t, 10.0, a.XRes)
	assert.Equal(t, model.Extent{MinX: 0, MinY: 60, MaxX: 50, MaxY: 100}, a.Extent)
	assert.Equal(t, float64(4*5*2), a.UncompressedSize)
	assert.Equal(t, res.ScanID, a.ScanID)
	assert.Nil(t, entries[1].NoData)

	// A recursive rescan picks up the subdirectory and re-tags existing rows.
	res2, err := c.Scan(ctx, root, true)
	require.NoError(t, err)
	assert.Equal(t, 3, res2.Indexed)
	assert.NotEqual(t, res.ScanID, res2.ScanID)

	entries, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3, "rescan upserts instead of duplicating")
	for _, e := range entries {
		assert.Equal(t, res2.ScanID, e.ScanID)
	}
}

func TestScan_BadRoot(t *testing.T) {
	ctx := context.Background()
	c := openCatalog(t)

	_, err := c.Scan(ctx, filepath.Join(t.TempDir(), "nope"), false)
	assert.ErrorIs(t, err, model.ErrNotFound)

	file := filepath.Join(t.TempDir(), "f.tif")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = c.Scan(ctx, file, false)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestScan_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeRaster(t, filepath.Join(root, "a.tif"), 1, 1, nil)
	c := openCatalog(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Scan(ctx, root, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRaster(t *testing.T) {
	for name, want := range map[string]bool{
		"a.tif": true, "a.TIFF": true, "a.img": true, "a.vrt": true,
		"a.shp": false, "a.tif.aux.xml": false, "tif": false,
	} {
		assert.Equal(t, want, isRaster(name), name)
	}
}

func TestEntry_MarshalJSON_NaNNoData(t *testing.T) {
	nan := math.NaN()
	data, err := json.Marshal(Entry{Path: "/data/a.tif", DataType: model.TypeFloat32, NoData: &nan})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "nan", got["nodata"])
	assert.Equal(t, "/data/a.tif", got["path"])
	assert.Equal(t, "Float32", got["dataType"])
}

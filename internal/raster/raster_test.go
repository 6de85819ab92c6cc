package raster

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lukeroth/gdal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raspy-go/raspy/internal/grid"
	"github.com/raspy-go/raspy/internal/logging"
	"github.com/raspy-go/raspy/internal/model"
)

// testGeoTransform is a 30 m UTM grid anchored at (500000, 4200000).
var testGeoTransform = model.GeoTransform{500000, 30, 0, 4200000, 0, -30}

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

// writeFixture creates a GeoTIFF directly through GDAL (not through
// WriteGTiff) so that reader tests do not depend on the writer. Band b holds
// the values (b*100 + cell index).
func writeFixture(t *testing.T, dir, name string, rows, cols, bands int, dt gdal.DataType, nodata *float64) string {
	t.Helper()

	path := filepath.Join(dir, name)
	driver, err := gdal.GetDriverByName("GTiff")
	require.NoError(t, err)

	ds := driver.Create(path, cols, rows, bands, dt, nil)
	defer ds.Close()

	require.NoError(t, ds.SetGeoTransform([6]float64(testGeoTransform)))
	require.NoError(t, ds.SetProjection(utmWKT(t)))

	for b := 1; b <= bands; b++ {
		buf := make([]float64, rows*cols)
		for i := range buf {
			buf[i] = float64(b*100 + i)
		}
		band := ds.RasterBand(b)
		require.NoError(t, band.IO(gdal.Write, 0, 0, cols, rows, buf, cols, rows, 0, 0))
		if nodata != nil {
			require.NoError(t, band.SetNoDataValue(*nodata))
		}
	}
	return path
}

func ptr(v float64) *float64 { return &v }

// TestOpen_MissingInput verifies the not-found classification.
func TestOpen_MissingInput(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.tif"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestOpen_Directory(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

// TestOpenClose_DoesNotModifyFile checks that a read-only open/close cycle
// leaves the file byte-identical.
func TestOpenClose_DoesNotModifyFile(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "in.tif", 4, 5, 1, gdal.Int16, ptr(-1))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	ds, err := Open(path)
	require.NoError(t, err)
	_, err = ds.Info()
	require.NoError(t, err)
	ds.Close()
	ds.Close() // idempotent

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(before, after), "file changed after open/close")
}

// TestGetters covers the metadata getters against a known fixture.
func TestGetters(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "in.tif", 4, 5, 3, gdal.UInt16, ptr(0))

	cols, rows, bands, err := Dims(path)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 4, 3}, []int{cols, rows, bands})

	n, err := BandCount(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	nd, ok, err := NoData(path, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.0, nd)

	xres, yres, err := XYRes(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, xres)
	assert.Equal(t, 30.0, yres)

	dt, err := BandDataType(path, 1)
	require.NoError(t, err)
	assert.Equal(t, model.TypeUInt16, dt)

	units, err := ProjUnits(path)
	require.NoError(t, err)
	assert.Equal(t, "m", units)

	area, err := CellAreaHa(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.09, area, 1e-12)

	size, err := UncompressedSize(path)
	require.NoError(t, err)
	assert.Equal(t, float64(3*4*5*2), size)

	p4, err := Proj4(path)
	require.NoError(t, err)
	assert.Contains(t, p4, "+proj=utm")
	assert.Contains(t, p4, "+zone=10")
	assert.NotRegexp(t, `\s$`, p4)

	_, err = BandDataType(path, 0)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

// TestNoData_Unset reports ok=false when the band has no nodata value.
func TestNoData_Unset(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "in.tif", 2, 2, 1, gdal.Byte, nil)
	_, ok, err := NoData(path, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestRead_Selection reads single, listed and all bands.
func TestRead_Selection(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "in.tif", 2, 3, 3, gdal.Float32, nil)
	log := logging.NewNop()

	g, err := ReadBand(path, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{200, 201, 202, 203, 204, 205}, g.Data())

	all, err := Read(path, nil, log)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Count())

	some, err := Read(path, model.BandSelection{3, 1}, log)
	require.NoError(t, err)
	first, err := some.Band(1)
	require.NoError(t, err)
	assert.Equal(t, 300.0, first.At(0, 0))

	_, err = Read(path, model.BandSelection{4}, log)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

// TestWriteGTiff_RoundTrip reads a raster and writes it back unmodified, then
// checks that dimensions, georeferencing, CRS, nodata and values survive.
func TestWriteGTiff_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "in.tif", 4, 5, 2, gdal.Int16, ptr(-1))
	log := logging.NewNop()

	info, err := Info(src)
	require.NoError(t, err)
	stack, err := Read(src, nil, log)
	require.NoError(t, err)

	dst := filepath.Join(dir, "out.tif")
	require.NoError(t, WriteGTiff(dst, stack, OptionsFrom(info), log))

	got, err := Info(dst)
	require.NoError(t, err)
	assert.Equal(t, info.Cols, got.Cols)
	assert.Equal(t, info.Rows, got.Rows)
	assert.Equal(t, info.BandCount(), got.BandCount())
	assert.Equal(t, info.GeoTransform, got.GeoTransform)
	assert.Equal(t, info.Proj4, got.Proj4)
	if diff := cmp.Diff(info.Bands, got.Bands); diff != "" {
		t.Errorf("band info mismatch (-src +dst):\n%s", diff)
	}

	back, err := Read(dst, nil, log)
	require.NoError(t, err)
	for i := 1; i <= 2; i++ {
		want, _ := stack.Band(i)
		have, _ := back.Band(i)
		assert.Equal(t, want.Data(), have.Data(), "band %d", i)
	}

	// No temporary files are left next to the output.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "leftover temporary file")
	}
}

// TestWriteGTiff_Deterministic checks that identical inputs produce outputs
// with identical dimensions and band counts.
func TestWriteGTiff_Deterministic(t *testing.T) {
	dir := t.TempDir()
	g, err := grid.FromSlice(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	stack, err := grid.NewStack(g)
	require.NoError(t, err)
	opts := WriteOptions{DataType: model.TypeByte, GeoTransform: testGeoTransform, ComputeStats: true}

	var shapes [][3]int
	for _, name := range []string{"a.tif", "b.tif"} {
		p := filepath.Join(dir, name)
		require.NoError(t, WriteGTiff(p, stack, opts, logging.NewNop()))
		c, r, b, err := Dims(p)
		require.NoError(t, err)
		shapes = append(shapes, [3]int{c, r, b})
	}
	assert.Equal(t, shapes[0], shapes[1])
}

// TestWriteGTiff_InvalidType rejects unknown data types before creating
// any file.
func TestWriteGTiff_InvalidType(t *testing.T) {
	dir := t.TempDir()
	stack, err := grid.NewStack(grid.New(1, 1))
	require.NoError(t, err)

	err = WriteGTiff(filepath.Join(dir, "out.tif"), stack, WriteOptions{DataType: "Int128"}, logging.NewNop())
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteGTiff_MissingDirectory(t *testing.T) {
	stack, err := grid.NewStack(grid.New(1, 1))
	require.NoError(t, err)
	err = WriteGTiff(filepath.Join(t.TempDir(), "missing", "out.tif"), stack,
		WriteOptions{DataType: model.TypeByte}, logging.NewNop())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// TestWriteGTiff_FailureAfterCreate forces the final rename to fail (the
// destination is an existing directory) and checks that the temporary file
// written beside it is removed.
func TestWriteGTiff_FailureAfterCreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.tif")
	require.NoError(t, os.Mkdir(path, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0644))

	g, err := grid.FromSlice(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	stack, err := grid.NewStack(g)
	require.NoError(t, err)

	err = WriteGTiff(path, stack, WriteOptions{
		DataType:     model.TypeByte,
		GeoTransform: testGeoTransform,
		Projection:   utmWKT(t),
		ComputeStats: true,
	}, logging.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrIO)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"out.tif"}, names, "temporary output left behind")

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, fi.IsDir(), "existing destination was replaced")
}

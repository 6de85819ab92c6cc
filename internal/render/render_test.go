package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/raspy-go/raspy/internal/grid"
	"github.com/raspy-go/raspy/internal/model"
)

func mustGrid(t *testing.T, rows, cols int, data ...float64) *grid.Grid {
	t.Helper()
	g, err := grid.FromSlice(rows, cols, data)
	require.NoError(t, err)
	return g
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

// containsColour reports whether any pixel of img equals c exactly.
func containsColour(img image.Image, c color.Color) bool {
	want := color.RGBAModel.Convert(c)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.RGBAModel.Convert(img.At(x, y)) == want {
				return true
			}
		}
	}
	return false
}

func TestParseColour(t *testing.T) {
	tests := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{"red", color.RGBA{R: 0xff, A: 0xff}, false},
		{"ForestGreen", color.RGBA{R: 0x22, G: 0x8b, B: 0x22, A: 0xff}, false},
		{"#1e90ff", color.RGBA{R: 0x1e, G: 0x90, B: 0xff, A: 0xff}, false},
		{"#fff", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, false},
		{"", nil, true},
		{"notacolour", nil, true},
		{"#12345", nil, true},
		{"#gggggg", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColour(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupPalette(t *testing.T) {
	for _, name := range append(PaletteNames(), "BlackBody") {
		p, err := LookupPalette(name)
		require.NoError(t, err, name)
		assert.Len(t, p.Colors(), continuousSteps, name)
	}

	greens, err := LookupPalette("Greens")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(greens.Colors()), 3)

	_, err = LookupPalette("viridisish")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestPaletteOrDefault(t *testing.T) {
	def, _ := LookupPalette(DefaultPalette)

	p, fellBack := PaletteOrDefault("nope")
	assert.True(t, fellBack)
	assert.Equal(t, def.Colors(), p.Colors())

	_, fellBack = PaletteOrDefault("")
	assert.False(t, fellBack, "no name is not a fallback")

	_, fellBack = PaletteOrDefault("RdYlBu")
	assert.False(t, fellBack)
}

func TestClassTable(t *testing.T) {
	ct, err := NewClassTable(map[int]string{255: "white", 0: "red", 1: "black"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 255}, ct.Values())
	assert.Len(t, ct.Colors(), 3)

	tests := []struct {
		v    float64
		want int
	}{
		{-10, 0},
		{0, 0},
		{0.4, 0},
		{0.5, 1},
		{1, 1},
		{200, 1},
		{254.5, 2},
		{255, 2},
		{1000, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ct.Index(tt.v), "Index(%g)", tt.v)
	}

	_, err = NewClassTable(map[int]string{1: "mauve-ish"})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = NewClassTable(nil)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

// TestSaveMap_Continuous draws a grid with one nodata cell and checks the
// nodata colour appears in the image.
func TestSaveMap_Continuous(t *testing.T) {
	g := mustGrid(t, 2, 2, 1, 2, 3, -9999)
	g.SetNoData(-9999)
	magenta := color.RGBA{R: 0xff, B: 0xff, A: 0xff}

	path := filepath.Join(t.TempDir(), "map.png")
	err := SaveMap(path, g, MapOptions{
		Title:        "test",
		NodataColor:  magenta,
		Legend:       true,
		GeoTransform: model.GeoTransform{500000, 30, 0, 4200000, 0, -30},
		Width:        3 * vg.Inch,
	})
	require.NoError(t, err)

	img := decodePNG(t, path)
	assert.Greater(t, img.Bounds().Dx(), 0)
	assert.True(t, containsColour(img, magenta), "nodata colour missing")
}

func TestSaveMap_Categorical(t *testing.T) {
	ct, err := NewClassTable(map[int]string{0: "#ff0000", 1: "#0000ff"})
	require.NoError(t, err)
	g := mustGrid(t, 2, 2, 0, 1, 1, 0)

	path := filepath.Join(t.TempDir(), "classes.png")
	require.NoError(t, SaveMap(path, g, MapOptions{Classes: ct, Legend: true, Axes: true, Width: 3 * vg.Inch}))

	img := decodePNG(t, path)
	assert.True(t, containsColour(img, color.RGBA{R: 0xff, A: 0xff}))
	assert.True(t, containsColour(img, color.RGBA{B: 0xff, A: 0xff}))
}

func TestSaveMap_AllNodata(t *testing.T) {
	g := mustGrid(t, 1, 2, 0, 0)
	g.SetNoData(0)
	path := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, SaveMap(path, g, MapOptions{Width: 2 * vg.Inch}))
	assert.FileExists(t, path)
}

// TestSaveMap_InfiniteCells checks that infinite cells are drawn in the
// nodata colour and do not stretch the colour range.
func TestSaveMap_InfiniteCells(t *testing.T) {
	g := mustGrid(t, 2, 2, 1, 2, math.Inf(1), 3)
	magenta := color.RGBA{R: 0xff, B: 0xff, A: 0xff}

	p, err := NewMap(g, MapOptions{NodataColor: magenta})
	require.NoError(t, err)
	require.NotNil(t, p)

	path := filepath.Join(t.TempDir(), "inf.png")
	require.NoError(t, SaveMap(path, g, MapOptions{NodataColor: magenta, Width: 2 * vg.Inch}))
	assert.True(t, containsColour(decodePNG(t, path), magenta), "infinite cell not drawn as nodata")
}

func TestWriteHistogram(t *testing.T) {
	g := mustGrid(t, 2, 3, 1, 2, 2, 3, 3, 3)

	var buf bytes.Buffer
	require.NoError(t, WriteHistogram(&buf, g, HistogramOptions{Title: "band 1 of dem.tif", Bins: 3}))
	html := buf.String()
	assert.Contains(t, html, "band 1 of dem.tif")
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, `"cells"`)
}

func TestSaveHistogram_NoValidData(t *testing.T) {
	g := mustGrid(t, 1, 1, -1)
	g.SetNoData(-1)
	path := filepath.Join(t.TempDir(), "hist.html")

	err := SaveHistogram(path, g, HistogramOptions{})
	assert.ErrorIs(t, err, model.ErrNoValidData)
	assert.NoFileExists(t, path, "failed render leaves no file")
}

package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/raspy-go/raspy/internal/grid"
	"github.com/raspy-go/raspy/internal/model"
)

// MapOptions controls how a grid is drawn by SaveMap.
type MapOptions struct {
	// Title is drawn above the map when non-empty.
	Title string

	// Palette colours continuous data. Ignored when Classes is set.
	Palette palette.Palette

	// Classes switches to a categorical map.
	Classes *ClassTable

	// NodataColor fills nodata and NaN cells. Defaults to black.
	NodataColor color.Color

	// Legend adds a colour key (min/max for continuous maps, one entry per
	// class for categorical maps).
	Legend bool

	// Axes shows the X/Y axes in map units.
	Axes bool

	// GeoTransform places cell centres in map units. The zero value draws
	// in pixel coordinates.
	GeoTransform model.GeoTransform

	// Width of the image; height follows the grid's aspect ratio.
	// Defaults to 6 inches.
	Width vg.Length
}

// gridXYZ adapts a Grid to plotter.GridXYZ. Plot rows run bottom-up, so
// row r of the plot is row (rows-1-r) of the grid.
type gridXYZ struct {
	g       *grid.Grid
	rows    int
	cols    int
	x0, dx  float64
	y0, dy  float64
	classes *ClassTable
}

func newGridXYZ(g *grid.Grid, gt model.GeoTransform, classes *ClassTable) *gridXYZ {
	rows, cols := g.Dims()
	xyz := &gridXYZ{g: g, rows: rows, cols: cols, x0: 0, dx: 1, y0: 0, dy: 1, classes: classes}
	// Only north-up rasters are placed in map units.
	if gt.XRes() > 0 && gt.YRes() > 0 {
		ext := gt.Extent(cols, rows)
		xyz.x0, xyz.dx = ext.MinX, gt.XRes()
		xyz.y0, xyz.dy = ext.MinY, gt.YRes()
	}
	return xyz
}

func (m *gridXYZ) Dims() (c, r int) { return m.cols, m.rows }

func (m *gridXYZ) Z(c, r int) float64 {
	v := m.g.At(m.rows-1-r, c)
	if !m.g.IsValid(v) {
		return math.NaN()
	}
	if m.classes != nil {
		return float64(m.classes.Index(v))
	}
	return v
}

func (m *gridXYZ) X(c int) float64 { return m.x0 + (float64(c)+0.5)*m.dx }

func (m *gridXYZ) Y(r int) float64 { return m.y0 + (float64(r)+0.5)*m.dy }

// SaveMap renders g to path. The image format follows the file extension
// (.png, .svg, .pdf, ...).
func SaveMap(path string, g *grid.Grid, opts MapOptions) error {
	p, err := NewMap(g, opts)
	if err != nil {
		return err
	}

	width := opts.Width
	if width == 0 {
		width = 6 * vg.Inch
	}
	rows, cols := g.Dims()
	height := width * vg.Length(rows) / vg.Length(cols)
	// Keep very wide or very tall rasters legible.
	height = vg.Length(math.Max(float64(width)/4, math.Min(float64(height), float64(width)*4)))

	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("%w: save map %s: %v", model.ErrIO, path, err)
	}
	return nil
}

// NewMap builds the plot for g without saving it.
func NewMap(g *grid.Grid, opts MapOptions) (*plot.Plot, error) {
	if g.Len() == 0 {
		return nil, fmt.Errorf("%w: cannot plot an empty grid", model.ErrInvalidArgument)
	}
	nodata := opts.NodataColor
	if nodata == nil {
		nodata = color.Black
	}

	xyz := newGridXYZ(g, opts.GeoTransform, opts.Classes)

	var (
		pal    palette.Palette
		lo, hi float64
	)
	if opts.Classes != nil {
		pal = opts.Classes
		lo, hi = 0, float64(opts.Classes.Len()-1)
	} else {
		pal = opts.Palette
		if pal == nil {
			pal, _ = PaletteOrDefault("")
		}
		st, err := grid.ComputeStats(g)
		switch {
		case errors.Is(err, model.ErrNoValidData):
			// Everything is drawn in the nodata colour.
		case err != nil:
			return nil, err
		default:
			lo, hi = st.Min, st.Max
		}
	}
	if lo == hi {
		hi = lo + 1
	}

	hm := plotter.NewHeatMap(xyz, pal)
	hm.Min, hm.Max = lo, hi
	hm.NaN = nodata
	hm.Rasterized = true

	p := plot.New()
	p.Title.Text = opts.Title
	p.Add(hm)
	if !opts.Axes {
		p.HideAxes()
	}

	if opts.Legend {
		addLegend(p, pal, opts.Classes, lo, hi)
	}
	return p, nil
}

func addLegend(p *plot.Plot, pal palette.Palette, classes *ClassTable, lo, hi float64) {
	thumbs := plotter.PaletteThumbnailers(pal)
	if len(thumbs) == 0 {
		return
	}
	p.Legend.Top = true

	if classes != nil {
		// Highest class on top, as a colour bar reads.
		for i := classes.Len() - 1; i >= 0; i-- {
			p.Legend.Add(strconv.Itoa(classes.Values()[i]), thumbs[i])
		}
		return
	}
	p.Legend.Add(strconv.FormatFloat(hi, 'g', 6, 64), thumbs[len(thumbs)-1])
	p.Legend.Add(strconv.FormatFloat(lo, 'g', 6, 64), thumbs[0])
}

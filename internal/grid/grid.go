package grid

import (
	"fmt"
	"math"

	"github.com/raspy-go/raspy/internal/model"
)

// Grid is a 2-D array of samples for one raster band.
type Grid struct {
	rows, cols int
	data       []float64
	nodata     *float64
}

// New allocates a zero-filled grid with the given shape.
func New(rows, cols int) *Grid {
	return &Grid{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// FromSlice wraps data (row-major, len rows*cols) without copying.
// Returns an error wrapping ErrShapeMismatch when the length is wrong.
func FromSlice(rows, cols int, data []float64) (*Grid, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d samples for a %dx%d grid", model.ErrShapeMismatch, len(data), rows, cols)
	}
	return &Grid{rows: rows, cols: cols, data: data}, nil
}

// Dims returns the number of rows and columns.
func (g *Grid) Dims() (rows, cols int) {
	return g.rows, g.cols
}

// Len returns the total number of cells.
func (g *Grid) Len() int {
	return len(g.data)
}

// At returns the sample at row r, column c.
func (g *Grid) At(r, c int) float64 {
	return g.data[r*g.cols+c]
}

// Set stores v at row r, column c.
func (g *Grid) Set(r, c int, v float64) {
	g.data[r*g.cols+c] = v
}

// Data returns the backing row-major slice. Callers must not change its
// length.
func (g *Grid) Data() []float64 {
	return g.data
}

// NoData returns the nodata value and whether one is set.
func (g *Grid) NoData() (float64, bool) {
	if g.nodata == nil {
		return 0, false
	}
	return *g.nodata, true
}

// SetNoData sets the nodata sentinel.
func (g *Grid) SetNoData(v float64) {
	g.nodata = &v
}

// ClearNoData removes the nodata sentinel so every cell counts as valid.
func (g *Grid) ClearNoData() {
	g.nodata = nil
}

// IsValid reports whether v is a real sample for this grid: finite and not
// equal to the nodata value.
func (g *Grid) IsValid(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if g.nodata != nil && v == *g.nodata {
		return false
	}
	return true
}

// Valid returns a copy of the valid samples in row-major order.
func (g *Grid) Valid() []float64 {
	out := make([]float64, 0, len(g.data))
	for _, v := range g.data {
		if g.IsValid(v) {
			out = append(out, v)
		}
	}
	return out
}

// WithNoData returns a view of g that shares its samples but uses nodata
// (nil for none) as the sentinel.
func (g *Grid) WithNoData(nodata *float64) *Grid {
	v := &Grid{rows: g.rows, cols: g.cols, data: g.data}
	if nodata != nil {
		v.SetNoData(*nodata)
	}
	return v
}

// SameShape reports whether g and o have identical dimensions.
func (g *Grid) SameShape(o *Grid) bool {
	return g.rows == o.rows && g.cols == o.cols
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, data: append([]float64(nil), g.data...)}
	if g.nodata != nil {
		c.SetNoData(*g.nodata)
	}
	return c
}

// Stack is an ordered set of equally shaped grids, one per band.
type Stack struct {
	bands []*Grid
}

// NewStack builds a stack from bands. All bands must share one shape;
// otherwise the error wraps ErrShapeMismatch.
func NewStack(bands ...*Grid) (*Stack, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("%w: a stack needs at least one band", model.ErrInvalidArgument)
	}
	first := bands[0]
	for i, b := range bands[1:] {
		if !first.SameShape(b) {
			r0, c0 := first.Dims()
			r, c := b.Dims()
			return nil, fmt.Errorf("%w: band %d is %dx%d, band 1 is %dx%d", model.ErrShapeMismatch, i+2, r, c, r0, c0)
		}
	}
	return &Stack{bands: bands}, nil
}

// Count returns the number of bands.
func (s *Stack) Count() int {
	return len(s.bands)
}

// Band returns the 1-based band i.
func (s *Stack) Band(i int) (*Grid, error) {
	if i < 1 || i > len(s.bands) {
		return nil, fmt.Errorf("%w: band %d out of range (1-%d)", model.ErrInvalidArgument, i, len(s.bands))
	}
	return s.bands[i-1], nil
}

// Bands returns the bands in order.
func (s *Stack) Bands() []*Grid {
	return s.bands
}

// Shape returns rows, cols and band count.
func (s *Stack) Shape() (rows, cols, bands int) {
	rows, cols = s.bands[0].Dims()
	return rows, cols, len(s.bands)
}

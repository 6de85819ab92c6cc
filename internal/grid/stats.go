package grid

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/raspy-go/raspy/internal/model"
)

// Stats holds descriptive statistics of the valid cells of a grid.
type Stats struct {
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Mean   float64  `json:"mean"`
	Std    float64  `json:"std"`
	Count  int      `json:"count"`
	NoData *float64 `json:"nodata,omitempty"`
}

// MarshalJSON encodes the statistics with a JSON-safe nodata value.
func (s Stats) MarshalJSON() ([]byte, error) {
	type plain Stats
	return json.Marshal(struct {
		plain
		NoData *model.JSONFloat `json:"nodata,omitempty"`
	}{plain(s), model.NoDataJSON(s.NoData)})
}

// ComputeStats returns min, max, mean and population standard deviation of
// the valid cells. Returns an error wrapping ErrNoValidData when every cell is
// nodata.
func ComputeStats(g *Grid) (Stats, error) {
	valid := g.Valid()
	if len(valid) == 0 {
		return Stats{}, fmt.Errorf("%w: all %d cells are nodata", model.ErrNoValidData, g.Len())
	}

	// Population variance (divides by N), as GDAL band statistics report.
	mean, variance := stat.PopMeanVariance(valid, nil)

	s := Stats{
		Min:   floats.Min(valid),
		Max:   floats.Max(valid),
		Mean:  mean,
		Std:   math.Sqrt(variance),
		Count: len(valid),
	}
	if nd, ok := g.NoData(); ok {
		s.NoData = &nd
	}
	return s, nil
}

// Histogram counts valid cells into n equal-width bins spanning
// [min, max]. The last bin is closed on the right so max is counted.
// Edges has n+1 entries.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
}

// ComputeHistogram bins the valid cells of g into n bins.
func ComputeHistogram(g *Grid, n int) (Histogram, error) {
	if n < 1 {
		return Histogram{}, fmt.Errorf("%w: bins must be >= 1, got %d", model.ErrInvalidArgument, n)
	}
	valid := g.Valid()
	if len(valid) == 0 {
		return Histogram{}, fmt.Errorf("%w: all %d cells are nodata", model.ErrNoValidData, g.Len())
	}

	lo, hi := floats.Min(valid), floats.Max(valid)
	if lo == hi {
		// A constant grid still gets n bins; widen the range by one unit so
		// the dividers are strictly increasing.
		hi = lo + 1
	}
	edges := make([]float64, n+1)
	floats.Span(edges, lo, hi)
	// stat.Histogram requires dividers strictly greater than the maximum
	// value in its last bin, so nudge the upper edge.
	dividers := append([]float64(nil), edges...)
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	sort.Float64s(valid)
	counts := stat.Histogram(nil, dividers, valid, nil)
	return Histogram{Edges: edges, Counts: counts}, nil
}

package render

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/raspy-go/raspy/internal/grid"
	"github.com/raspy-go/raspy/internal/model"
)

// HistogramOptions controls the HTML histogram page.
type HistogramOptions struct {
	Title    string
	Subtitle string
	Bins     int
}

// DefaultBins is the bin count used when HistogramOptions.Bins is zero.
const DefaultBins = 50

// WriteHistogram renders a bar chart of the valid cells of g as a
// standalone HTML page.
func WriteHistogram(w io.Writer, g *grid.Grid, o HistogramOptions) error {
	bins := o.Bins
	if bins == 0 {
		bins = DefaultBins
	}
	h, err := grid.ComputeHistogram(g, bins)
	if err != nil {
		return err
	}

	labels := make([]string, len(h.Counts))
	data := make([]opts.BarData, len(h.Counts))
	for i, c := range h.Counts {
		mid := (h.Edges[i] + h.Edges[i+1]) / 2
		labels[i] = strconv.FormatFloat(mid, 'g', 6, 64)
		data[i] = opts.BarData{
			Value: c,
			Name:  fmt.Sprintf("[%g, %g)", h.Edges[i], h.Edges[i+1]),
		}
	}

	title := o.Title
	if title == "" {
		title = "Histogram"
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: o.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Value", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Cells"}),
	)
	bar.SetXAxis(labels).AddSeries("cells", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("%w: render histogram: %v", model.ErrIO, err)
	}
	return nil
}

// SaveHistogram writes the histogram page to path.
func SaveHistogram(path string, g *grid.Grid, o HistogramOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", model.ErrIO, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %v", model.ErrIO, path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return WriteHistogram(f, g, o)
}

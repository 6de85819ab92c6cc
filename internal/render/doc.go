// Package render draws grids to image files: PNG maps with gonum/plot and
// HTML histograms with go-echarts.
package render

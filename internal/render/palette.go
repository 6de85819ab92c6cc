package render

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/raspy-go/raspy/internal/model"
)

// DefaultPalette is used when no palette is named or the named one is unknown.
const DefaultPalette = "kindlmann"

// continuousSteps is the number of colours sampled from a smooth colour map.
const continuousSteps = 256

var colorMaps = map[string]func() palette.ColorMap{
	"kindlmann":           moreland.Kindlmann,
	"extended-kindlmann":  moreland.ExtendedKindlmann,
	"blackbody":           moreland.BlackBody,
	"extended-blackbody":  moreland.ExtendedBlackBody,
	"smooth-blue-red":     func() palette.ColorMap { return moreland.SmoothBlueRed() },
	"smooth-green-purple": func() palette.ColorMap { return moreland.SmoothGreenPurple() },
}

// PaletteNames lists the smooth colour maps. ColorBrewer scheme names
// (Greens, RdYlBu, ...) are accepted as well.
func PaletteNames() []string {
	names := make([]string, 0, len(colorMaps))
	for name := range colorMaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPalette resolves a palette by name. Smooth colour maps are matched
// case-insensitively; ColorBrewer names use their usual spelling ("RdYlBu").
func LookupPalette(name string) (palette.Palette, error) {
	if mk, ok := colorMaps[strings.ToLower(name)]; ok {
		return mk().Palette(continuousSteps), nil
	}
	// Brewer schemes come in a fixed set of sizes; take the largest.
	for n := 12; n >= 3; n-- {
		if p, err := brewer.GetPalette(brewer.TypeAny, name, n); err == nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not a palette option", model.ErrInvalidArgument, name)
}

// PaletteOrDefault resolves name, falling back to DefaultPalette when it is
// unknown. fellBack reports whether the fallback was taken so the caller can
// warn.
func PaletteOrDefault(name string) (p palette.Palette, fellBack bool) {
	if name != "" {
		if p, err := LookupPalette(name); err == nil {
			return p, false
		}
	}
	p, _ = LookupPalette(DefaultPalette)
	return p, name != "" && !strings.EqualFold(name, DefaultPalette)
}

// ClassTable maps integer cell values to colours for categorical maps.
// Values are kept sorted.
type ClassTable struct {
	values []int
	colors []color.Color
}

// NewClassTable parses every colour of classes.
func NewClassTable(classes map[int]string) (*ClassTable, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: class table is empty", model.ErrInvalidArgument)
	}
	t := &ClassTable{values: make([]int, 0, len(classes))}
	for v := range classes {
		t.values = append(t.values, v)
	}
	sort.Ints(t.values)
	for _, v := range t.values {
		c, err := ParseColour(classes[v])
		if err != nil {
			return nil, fmt.Errorf("class %d: %w", v, err)
		}
		t.colors = append(t.colors, c)
	}
	return t, nil
}

// Len returns the number of classes.
func (t *ClassTable) Len() int { return len(t.values) }

// Values returns the class values in ascending order.
func (t *ClassTable) Values() []int { return t.values }

// Colors implements palette.Palette.
func (t *ClassTable) Colors() []color.Color { return t.colors }

// Index returns the class a cell value falls into. Class i covers
// [values[i]-0.5, values[i+1]-0.5); values outside the table clamp to the
// first or last class.
func (t *ClassTable) Index(v float64) int {
	i := sort.Search(len(t.values), func(i int) bool {
		return float64(t.values[i])-0.5 > v
	})
	if i == 0 {
		return 0
	}
	return i - 1
}

package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/raspy-go/raspy/internal/model"
)

// Comparison is the result of a cell-by-cell comparison of two grids.
type Comparison struct {
	// Same is the number of cells with identical values.
	Same int `json:"same"`

	// Total is the number of cells compared.
	Total int `json:"total"`

	// Percent is Same/Total*100 rounded to two decimals.
	Percent float64 `json:"percent"`
}

// String renders the comparison the way the compare tool prints it. The
// percentage always carries a decimal point ("75.0%", "33.33%").
func (c Comparison) String() string {
	pct := strconv.FormatFloat(c.Percent, 'f', -1, 64)
	if !strings.Contains(pct, ".") {
		pct += ".0"
	}
	return fmt.Sprintf("%s%% of pixels are identical (%d/%d pixels)", pct, c.Same, c.Total)
}

// Compare counts the cells where a and b hold the same value. Both grids
// must have the same shape. Nodata is not treated specially: two nodata
// cells with the same value are identical. NaN never equals NaN.
func Compare(a, b *Grid) (Comparison, error) {
	if !a.SameShape(b) {
		ar, ac := a.Dims()
		br, bc := b.Dims()
		return Comparison{}, fmt.Errorf("%w: inputs must have the same dimensions (%dx%d vs %dx%d)",
			model.ErrShapeMismatch, ar, ac, br, bc)
	}

	same := 0
	ad, bd := a.Data(), b.Data()
	for i := range ad {
		if ad[i] == bd[i] {
			same++
		}
	}
	total := len(ad)
	c := Comparison{Same: same, Total: total}
	if total > 0 {
		c.Percent = math.Round(float64(same)/float64(total)*100*100) / 100
	}
	return c, nil
}

package segmenting

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"github.com/pkg/errors"
)

const bins = 4

// ErrDegenerateBins is returned when quartile edges are not strictly increasing,
// which happens when the column has too few distinct values.
var ErrDegenerateBins = errors.New("bin edges must be unique")

// flatBin is the bin every value lands in when the column has a single value:
// the value sits on the midpoint of its padded range, closing the second bin.
const flatBin = 1

var (
	ascendingLabels  = [bins]int{1, 2, 3, 4}
	descendingLabels = [bins]int{4, 3, 2, 1}
)

// quartileBins assigns each value to one of four equal-population bins.
// Edges are the 0, .25, .5, .75 and 1 quantiles; the first bin is closed on
// both sides, the others on the right only.
func quartileBins(xs []float64) ([]int, error) {
	if len(xs) == 0 {
		return []int{}, nil
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = quantile(sorted, float64(i)/bins)
	}

	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, errors.Wrapf(ErrDegenerateBins, "edges %v", edges)
		}
	}

	return assign(xs, edges), nil
}

// equalWidthBins splits [min, max] into four intervals of equal width. The
// lowest edge is pulled down by 0.1% of the range so the minimum falls in the
// first bin. A column with a single value puts every row in flatBin.
func equalWidthBins(xs []float64) []int {
	if len(xs) == 0 {
		return []int{}
	}

	lo, hi := stats.Bounds(xs)
	if lo == hi {
		out := make([]int, len(xs))
		for i := range out {
			out[i] = flatBin
		}
		return out
	}

	width := (hi - lo) / bins
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi
	edges[0] -= (hi - lo) * 0.001

	return assign(xs, edges)
}

// quantile interpolates linearly between the closest ranks of a sorted sample.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	h := float64(len(sorted)-1) * q
	lower := math.Floor(h)
	i := int(lower)
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}

	return sorted[i] + (h-lower)*(sorted[i+1]-sorted[i])
}

// assign returns the right-closed bin of each value. Values at or below the
// first inner edge land in bin 0.
func assign(xs []float64, edges []float64) []int {
	inner := edges[1:]
	out := make([]int, len(xs))
	for i, x := range xs {
		b := sort.SearchFloat64s(inner, x)
		if b >= bins {
			b = bins - 1
		}
		out[i] = b
	}
	return out
}

func label(binsOf []int, labels [bins]int) []*int {
	out := make([]*int, len(binsOf))
	for i, b := range binsOf {
		score := labels[b]
		out[i] = &score
	}
	return out
}

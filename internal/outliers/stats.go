package outliers

import (
	"sort"

	"hfmetrics/internal/dataset"
)

// collectNonNull gathers the non-null values of series at the given
// row indices.
func collectNonNull(series []float64, rows []int) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v := series[r]; !dataset.IsNull(v) {
			out = append(out, v)
		}
	}
	return out
}

// percentile returns the p-th percentile (0-100) of sorted values by
// linear interpolation at position p/100*(n-1).
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p / 100 * float64(n-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// quartiles returns the linearly interpolated first and third
// quartiles of sorted values.
func quartiles(sorted []float64) (q1, q3 float64) {
	return percentile(sorted, 25), percentile(sorted, 75)
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentile(sorted, 50)
}

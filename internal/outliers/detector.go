package outliers

import (
	"sort"

	"hfmetrics/internal/dataset"
	apperrors "hfmetrics/internal/errors"
	"hfmetrics/pkg/contracts/domain"
)

// Defaults for detection parameters.
const (
	DefaultIQRMultiplier = 1.5
	DefaultMinGroupSize  = 3
)

// Bounds are the Tukey fences computed for one group: values strictly
// outside [Lower, Upper] are outliers.
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Detection holds the per-row outlier flags for one numeric column,
// the fences of every evaluated group, and the groups skipped for
// insufficient data. Rows of skipped groups are never flagged.
type Detection struct {
	Column  string
	Flags   []bool
	Bounds  map[string]Bounds
	Skipped []domain.SkippedGroup

	skippedKeys map[string]bool
}

// IsSkipped reports whether the given group was left unevaluated for
// insufficient non-null observations.
func (d *Detection) IsSkipped(key string) bool {
	return d.skippedKeys[key]
}

// Detect flags outliers in one numeric column, independently per
// group. Fences are computed only from non-null values; null values
// are never flagged. Groups with fewer than minGroup non-null
// observations are skipped and recorded as diagnostics.
func Detect(column string, series []float64, groups *dataset.GroupIndex, k float64, minGroup int) (*Detection, error) {
	if k <= 0 {
		return nil, apperrors.NewConfig("detection.iqr_multiplier", "multiplier must be positive", k)
	}
	if minGroup < 1 {
		return nil, apperrors.NewConfig("detection.min_group_size", "minimum group size must be at least 1", minGroup)
	}

	det := &Detection{
		Column:      column,
		Flags:       make([]bool, len(series)),
		Bounds:      make(map[string]Bounds, groups.Len()),
		skippedKeys: make(map[string]bool),
	}

	for _, key := range groups.Keys() {
		rows := groups.Rows(key)
		clean := collectNonNull(series, rows)
		if len(clean) < minGroup {
			det.skippedKeys[key] = true
			det.Skipped = append(det.Skipped, domain.SkippedGroup{
				Column:       column,
				Key:          key,
				Observations: len(clean),
				MinRequired:  minGroup,
			})
			continue
		}

		sort.Float64s(clean)
		q1, q3 := quartiles(clean)
		iqr := q3 - q1
		bounds := Bounds{Lower: q1 - k*iqr, Upper: q3 + k*iqr}
		det.Bounds[key] = bounds

		for _, r := range rows {
			v := series[r]
			if dataset.IsNull(v) {
				continue
			}
			if v < bounds.Lower || v > bounds.Upper {
				det.Flags[r] = true
			}
		}
	}

	return det, nil
}

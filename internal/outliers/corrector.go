package outliers

import (
	"sort"

	"hfmetrics/internal/dataset"
	apperrors "hfmetrics/internal/errors"
	"hfmetrics/pkg/contracts/domain"
)

// Defaults for correction parameters.
const (
	DefaultWindow          = 5
	DefaultLowerPercentile = 5.0
	DefaultUpperPercentile = 95.0
)

// Params is the tagged correction variant: the method plus the
// parameters the method consumes. Window applies to the moving
// average only; the percentiles to winsorization only.
type Params struct {
	Method          domain.CorrectionMethod
	Window          int
	LowerPercentile float64
	UpperPercentile float64
}

// DefaultParams returns median correction with the default moving
// average window and winsorization percentiles filled in.
func DefaultParams() Params {
	return Params{
		Method:          domain.MethodMedian,
		Window:          DefaultWindow,
		LowerPercentile: DefaultLowerPercentile,
		UpperPercentile: DefaultUpperPercentile,
	}
}

// Validate checks the parameter domain of the selected method. Every
// violation is a fatal ConfigError.
func (p Params) Validate() error {
	switch p.Method {
	case domain.MethodMean, domain.MethodMedian:
		return nil
	case domain.MethodMovingAverage:
		if p.Window < 1 {
			return apperrors.NewConfig("correction.window", "window must be at least 1", p.Window)
		}
		if p.Window%2 == 0 {
			return apperrors.NewConfig("correction.window", "window must be odd", p.Window)
		}
		return nil
	case domain.MethodWinsorize:
		if p.LowerPercentile < 0 || p.LowerPercentile >= 50 {
			return apperrors.NewConfig("correction.lower_percentile", "lower percentile must be in [0, 50)", p.LowerPercentile)
		}
		if p.UpperPercentile <= 50 || p.UpperPercentile > 100 {
			return apperrors.NewConfig("correction.upper_percentile", "upper percentile must be in (50, 100]", p.UpperPercentile)
		}
		return nil
	default:
		return apperrors.NewConfig("correction.method", "unknown correction method", string(p.Method))
	}
}

// CorrectionResult is the corrected series plus the flag counts for
// one numeric column. Series has the same length and row order as the
// input. For winsorization Flagged counts capped values.
type CorrectionResult struct {
	Column         string
	Series         []float64
	Flagged        int
	FlaggedByGroup map[string]int
	FlaggedPercent float64
	Skipped        []domain.SkippedGroup
}

// Correct applies the selected strategy to the detector's flags (or,
// for winsorization, to the raw group distributions) and returns a
// fresh corrected series. The input series is never mutated.
func Correct(det *Detection, series []float64, groups *dataset.GroupIndex, p Params) (*CorrectionResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, len(series))
	copy(out, series)

	res := &CorrectionResult{
		Column:         det.Column,
		Series:         out,
		FlaggedByGroup: make(map[string]int),
		Skipped:        append([]domain.SkippedGroup(nil), det.Skipped...),
	}

	switch p.Method {
	case domain.MethodMean, domain.MethodMedian:
		correctByGroupStat(det, series, groups, p.Method, res)
	case domain.MethodMovingAverage:
		correctMovingAverage(det, series, groups, p.Window, res)
	case domain.MethodWinsorize:
		winsorize(det, series, groups, p, res)
	}

	nonNull := 0
	for _, v := range series {
		if !dataset.IsNull(v) {
			nonNull++
		}
	}
	if nonNull > 0 {
		res.FlaggedPercent = float64(res.Flagged) / float64(nonNull) * 100
	}
	return res, nil
}

// correctByGroupStat replaces each flagged value with the mean or
// median of the non-flagged non-null values of its group. A group
// whose flagged values have no donors left is soft-skipped.
func correctByGroupStat(det *Detection, series []float64, groups *dataset.GroupIndex, method domain.CorrectionMethod, res *CorrectionResult) {
	for _, key := range groups.Keys() {
		rows := groups.Rows(key)

		var donors []float64
		flagged := 0
		for _, r := range rows {
			v := series[r]
			if dataset.IsNull(v) {
				continue
			}
			if det.Flags[r] {
				flagged++
			} else {
				donors = append(donors, v)
			}
		}
		if flagged == 0 {
			continue
		}
		res.Flagged += flagged
		res.FlaggedByGroup[key] = flagged

		if len(donors) == 0 {
			res.Skipped = append(res.Skipped, domain.SkippedGroup{
				Column:       det.Column,
				Key:          key,
				Observations: 0,
				MinRequired:  1,
			})
			continue
		}

		replacement := mean(donors)
		if method == domain.MethodMedian {
			replacement = median(donors)
		}
		for _, r := range rows {
			if det.Flags[r] {
				res.Series[r] = replacement
			}
		}
	}
}

// correctMovingAverage replaces each flagged value with a centered
// rolling mean over the entire ordered series. Grouping does not
// shape the window; it only attributes flag counts. Windows clip at
// the series boundaries and a flagged value always contributes itself,
// so at least one sample is present.
func correctMovingAverage(det *Detection, series []float64, groups *dataset.GroupIndex, window int, res *CorrectionResult) {
	half := window / 2
	for i, flagged := range det.Flags {
		if !flagged {
			continue
		}
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(series)-1 {
			hi = len(series) - 1
		}

		sum, count := 0.0, 0
		for j := lo; j <= hi; j++ {
			if v := series[j]; !dataset.IsNull(v) {
				sum += v
				count++
			}
		}
		res.Series[i] = sum / float64(count)
		res.Flagged++
	}

	for _, key := range groups.Keys() {
		n := 0
		for _, r := range groups.Rows(key) {
			if det.Flags[r] {
				n++
			}
		}
		if n > 0 {
			res.FlaggedByGroup[key] = n
		}
	}
}

// winsorize caps every value outside its group's percentile bounds.
// The detector's flags play no part; only its insufficient-data skips
// carry over so the same small groups stay untouched.
func winsorize(det *Detection, series []float64, groups *dataset.GroupIndex, p Params, res *CorrectionResult) {
	for _, key := range groups.Keys() {
		if det.IsSkipped(key) {
			continue
		}
		rows := groups.Rows(key)
		clean := collectNonNull(series, rows)
		if len(clean) == 0 {
			continue
		}

		sorted := make([]float64, len(clean))
		copy(sorted, clean)
		sort.Float64s(sorted)
		lower := percentile(sorted, p.LowerPercentile)
		upper := percentile(sorted, p.UpperPercentile)

		capped := 0
		for _, r := range rows {
			v := series[r]
			if dataset.IsNull(v) {
				continue
			}
			switch {
			case v < lower:
				res.Series[r] = lower
				capped++
			case v > upper:
				res.Series[r] = upper
				capped++
			}
		}
		if capped > 0 {
			res.Flagged += capped
			res.FlaggedByGroup[key] = capped
		}
	}
}

package domain

// CorrectionMethod selects the replacement strategy applied to values
// flagged by the outlier detector. Like Policy, the set is closed and
// matched exhaustively; an unknown method is a configuration error.
type CorrectionMethod string

const (
	// MethodMean replaces a flagged value with the mean of the
	// non-flagged values in its group.
	MethodMean CorrectionMethod = "mean"

	// MethodMedian replaces a flagged value with the median of the
	// non-flagged values in its group.
	MethodMedian CorrectionMethod = "median"

	// MethodMovingAverage replaces a flagged value with a centered
	// rolling mean over the whole ordered series, ignoring grouping.
	MethodMovingAverage CorrectionMethod = "moving_average"

	// MethodWinsorize caps values outside configured percentile
	// bounds of their group's distribution, independent of the
	// detector's flags.
	MethodWinsorize CorrectionMethod = "winsorize"
)

// IsValid reports whether m is a known correction method.
func (m CorrectionMethod) IsValid() bool {
	switch m {
	case MethodMean, MethodMedian, MethodMovingAverage, MethodWinsorize:
		return true
	}
	return false
}

// String returns the method name.
func (m CorrectionMethod) String() string {
	return string(m)
}

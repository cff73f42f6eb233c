// Package outliers implements group-aware IQR outlier detection and
// the four correction strategies applied to flagged values.
//
// Detection computes Tukey fences per group: lower = Q1 - k*IQR and
// upper = Q3 + k*IQR over the group's non-null values, with quartiles
// linearly interpolated. A non-null value strictly outside the fences
// is flagged. Groups with fewer than the minimum number of non-null
// observations are skipped whole: their values stay unflagged and the
// skip is recorded as a diagnostic, never an error.
//
// Correction is selected by a closed method set (mean, median,
// moving average, winsorize) and validated before any value is
// touched, so an invalid configuration aborts with no partial output.
// Winsorization stands apart from the other strategies: it caps the
// raw distribution at percentile bounds and does not consult the
// detector's flags.
package outliers

package reporting

import (
	"hfmetrics/internal/dataset"
	apperrors "hfmetrics/internal/errors"
	"hfmetrics/pkg/contracts/domain"
)

// Defaults for classification parameters.
const (
	DefaultSilenceWindow    = 6
	DefaultQualityThreshold = 0.25
)

// Classifier evaluates facility reported series against the three
// inclusion policies. It is stateless between calls and safe for
// concurrent use.
type Classifier struct {
	silenceWindow    int
	qualityThreshold float64
}

// NewClassifier creates a Classifier. silenceWindow is the trailing
// window of the Ousmane policy in months; qualityThreshold is the
// minimum overall reporting rate of the Mohamed policy.
func NewClassifier(silenceWindow int, qualityThreshold float64) (*Classifier, error) {
	if silenceWindow < 1 {
		return nil, apperrors.NewConfig("reporting.silence_window", "window must be at least 1 month", silenceWindow)
	}
	if qualityThreshold < 0 || qualityThreshold > 1 {
		return nil, apperrors.NewConfig("reporting.quality_threshold", "threshold must be in [0, 1]", qualityThreshold)
	}
	return &Classifier{silenceWindow: silenceWindow, qualityThreshold: qualityThreshold}, nil
}

// Classify computes the facility-month states of one facility under
// one policy. The series must be dense over the axis. Policies that
// exclude the facility for part or all of its history emit no rows
// for those months.
func (c *Classifier) Classify(policy domain.Policy, series dataset.FacilitySeries, axis []domain.YearMonth) ([]domain.FacilityMonthState, error) {
	switch policy {
	case domain.PolicyWHO:
		return c.classifyWHO(series, axis), nil
	case domain.PolicyOusmane:
		return c.classifyOusmane(series, axis), nil
	case domain.PolicyMohamed:
		return c.classifyMohamed(series, axis), nil
	default:
		return nil, apperrors.NewConfig("reporting.policy", "unknown classification policy", string(policy))
	}
}

// ClassifyAll classifies every facility under one policy, in series
// order, concatenating the per-facility states.
func (c *Classifier) ClassifyAll(policy domain.Policy, series []dataset.FacilitySeries, axis []domain.YearMonth) ([]domain.FacilityMonthState, error) {
	var states []domain.FacilityMonthState
	for _, fs := range series {
		s, err := c.Classify(policy, fs, axis)
		if err != nil {
			return nil, err
		}
		states = append(states, s...)
	}
	return states, nil
}

// classifyWHO implements monotonic activation: Pending until the
// first reported month, Active forever after. Activation is the only
// transition, so inclusion never decreases over time.
func (c *Classifier) classifyWHO(series dataset.FacilitySeries, axis []domain.YearMonth) []domain.FacilityMonthState {
	first := firstReported(series.Reported)
	if first < 0 {
		return nil
	}

	states := make([]domain.FacilityMonthState, 0, len(axis)-first)
	for i := first; i < len(axis); i++ {
		states = append(states, domain.FacilityMonthState{
			Facility: series.Facility,
			Period:   axis[i],
			Included: true,
			Reported: series.Reported[i],
		})
	}
	return states
}

// classifyOusmane implements the trailing silence window. A row is
// emitted for every axis month; exclusion applies only when the whole
// trailing window is silent, and only once a full window of history
// exists.
func (c *Classifier) classifyOusmane(series dataset.FacilitySeries, axis []domain.YearMonth) []domain.FacilityMonthState {
	states := make([]domain.FacilityMonthState, 0, len(axis))
	for i := range axis {
		included := true
		if i >= c.silenceWindow-1 {
			silent := true
			for j := i - c.silenceWindow + 1; j <= i; j++ {
				if series.Reported[j] {
					silent = false
					break
				}
			}
			included = !silent
		}
		states = append(states, domain.FacilityMonthState{
			Facility: series.Facility,
			Period:   axis[i],
			Included: included,
			Reported: series.Reported[i],
		})
	}
	return states
}

// classifyMohamed implements quality-gated single activation: the
// facility enters at its first reported month only when its reporting
// rate over the span from that month to the end of the axis reaches
// the threshold, boundary inclusive. Otherwise it emits nothing.
func (c *Classifier) classifyMohamed(series dataset.FacilitySeries, axis []domain.YearMonth) []domain.FacilityMonthState {
	first := firstReported(series.Reported)
	if first < 0 {
		return nil
	}

	span := len(axis) - first
	reportedCount := 0
	for i := first; i < len(axis); i++ {
		if series.Reported[i] {
			reportedCount++
		}
	}
	rate := float64(reportedCount) / float64(span)
	if rate < c.qualityThreshold {
		return nil
	}

	states := make([]domain.FacilityMonthState, 0, span)
	for i := first; i < len(axis); i++ {
		states = append(states, domain.FacilityMonthState{
			Facility: series.Facility,
			Period:   axis[i],
			Included: true,
			Reported: series.Reported[i],
		})
	}
	return states
}

func firstReported(reported []bool) int {
	for i, r := range reported {
		if r {
			return i
		}
	}
	return -1
}

package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hfmetrics/internal/dataset"
	apperrors "hfmetrics/internal/errors"
	"hfmetrics/pkg/contracts/domain"
)

// monthAxis builds n consecutive months starting at 2024-01.
func monthAxis(n int) []domain.YearMonth {
	axis := make([]domain.YearMonth, n)
	current := domain.NewYearMonth(2024, time.January)
	for i := 0; i < n; i++ {
		axis[i] = current
		current = current.Next()
	}
	return axis
}

func series(facility string, reported ...bool) dataset.FacilitySeries {
	return dataset.FacilitySeries{Facility: facility, Reported: reported}
}

func defaultClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(DefaultSilenceWindow, DefaultQualityThreshold)
	require.NoError(t, err)
	return c
}

func TestNewClassifierValidation(t *testing.T) {
	_, err := NewClassifier(0, 0.25)
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))

	_, err = NewClassifier(6, 1.5)
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))

	_, err = NewClassifier(6, -0.1)
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))
}

func TestClassifyUnknownPolicy(t *testing.T) {
	c := defaultClassifier(t)
	_, err := c.Classify(domain.Policy("dhis2"), series("F1", true), monthAxis(1))
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))
}

func TestWHOPolicy(t *testing.T) {
	c := defaultClassifier(t)
	axis := monthAxis(6)

	t.Run("activation is permanent across later gaps", func(t *testing.T) {
		states, err := c.Classify(domain.PolicyWHO, series("F1", false, true, false, false, true, false), axis)
		require.NoError(t, err)
		require.Len(t, states, 5, "no row before activation")

		assert.Equal(t, axis[1], states[0].Period)
		for _, st := range states {
			assert.True(t, st.Included, "month %s", st.Period)
		}
		assert.True(t, states[0].Reported)
		assert.False(t, states[1].Reported)
		assert.True(t, states[3].Reported)
	})

	t.Run("inclusion is monotonic non-decreasing", func(t *testing.T) {
		states, err := c.Classify(domain.PolicyWHO, series("F1", false, false, true, false, true, false), axis)
		require.NoError(t, err)
		activated := false
		for _, st := range states {
			if st.Included {
				activated = true
			}
			assert.Equal(t, activated, st.Included)
		}
	})

	t.Run("never-reporting facility emits nothing", func(t *testing.T) {
		states, err := c.Classify(domain.PolicyWHO, series("F1", false, false, false, false, false, false), axis)
		require.NoError(t, err)
		assert.Empty(t, states)
	})
}

func TestOusmanePolicy(t *testing.T) {
	c := defaultClassifier(t)

	t.Run("included unconditionally before a full window exists", func(t *testing.T) {
		axis := monthAxis(5)
		states, err := c.Classify(domain.PolicyOusmane, series("F1", false, false, false, false, false), axis)
		require.NoError(t, err)
		require.Len(t, states, 5, "a row is emitted for every axis month")
		for _, st := range states {
			assert.True(t, st.Included, "month %s precedes six months of history", st.Period)
		}
	})

	t.Run("excluded at the sixth silent month and re-included on resumption", func(t *testing.T) {
		// Reports in month 1, silent 2-7, resumes in month 8.
		axis := monthAxis(9)
		reported := []bool{true, false, false, false, false, false, false, true, false}
		states, err := c.Classify(domain.PolicyOusmane, series("F1", reported...), axis)
		require.NoError(t, err)
		require.Len(t, states, 9)

		included := make([]bool, len(states))
		for i, st := range states {
			included[i] = st.Included
		}
		// Index 6 is the first month whose trailing 6-month window
		// (months 2-7) is entirely silent.
		assert.Equal(t, []bool{true, true, true, true, true, true, false, true, true}, included)
	})

	t.Run("toggles out again after a later silence run", func(t *testing.T) {
		axis := monthAxis(14)
		reported := []bool{true, false, false, false, false, false, false, true, false, false, false, false, false, false}
		states, err := c.Classify(domain.PolicyOusmane, series("F1", reported...), axis)
		require.NoError(t, err)

		assert.False(t, states[6].Included, "six silent months behind month 7")
		assert.True(t, states[7].Included, "reporting resumed")
		assert.True(t, states[12].Included, "window still contains the month-8 report")
		assert.False(t, states[13].Included, "months 9-14 are silent again")
	})
}

func TestMohamedPolicy(t *testing.T) {
	c := defaultClassifier(t)

	t.Run("boundary rate of exactly 0.25 is included", func(t *testing.T) {
		// First report at month 1 of 8: span 8, one report -> hits
		// 0.25 only with a second report. Use 2 reports in span 8.
		axis := monthAxis(8)
		reported := []bool{true, false, false, false, true, false, false, false} // 2/8 = 0.25
		states, err := c.Classify(domain.PolicyMohamed, series("F1", reported...), axis)
		require.NoError(t, err)
		require.Len(t, states, 8)
		for _, st := range states {
			assert.True(t, st.Included)
		}
	})

	t.Run("rate below the boundary excludes the facility entirely", func(t *testing.T) {
		axis := monthAxis(9)
		reported := []bool{true, false, false, false, true, false, false, false, false} // 2/9 < 0.25
		states, err := c.Classify(domain.PolicyMohamed, series("F1", reported...), axis)
		require.NoError(t, err)
		assert.Empty(t, states)
	})

	t.Run("span starts at the first reported month", func(t *testing.T) {
		// First report at index 4: span 4, two reports -> 0.5.
		axis := monthAxis(8)
		reported := []bool{false, false, false, false, true, false, true, false}
		states, err := c.Classify(domain.PolicyMohamed, series("F1", reported...), axis)
		require.NoError(t, err)
		require.Len(t, states, 4)
		assert.Equal(t, axis[4], states[0].Period)
		assert.True(t, states[0].Reported)
		assert.False(t, states[1].Reported)
	})

	t.Run("never-reporting facility emits nothing", func(t *testing.T) {
		axis := monthAxis(4)
		states, err := c.Classify(domain.PolicyMohamed, series("F1", false, false, false, false), axis)
		require.NoError(t, err)
		assert.Empty(t, states)
	})
}

// Facility F1 reports in months 1,3,5,7 of an 8-month axis.
func TestAlternatingReporterScenario(t *testing.T) {
	c := defaultClassifier(t)
	axis := monthAxis(8)
	reported := []bool{true, false, true, false, true, false, true, false}
	fs := series("F1", reported...)

	t.Run("who", func(t *testing.T) {
		states, err := c.Classify(domain.PolicyWHO, fs, axis)
		require.NoError(t, err)
		require.Len(t, states, 8)
		for i, st := range states {
			assert.True(t, st.Included)
			assert.Equal(t, reported[i], st.Reported)
		}
	})

	t.Run("ousmane", func(t *testing.T) {
		states, err := c.Classify(domain.PolicyOusmane, fs, axis)
		require.NoError(t, err)
		require.Len(t, states, 8)
		for _, st := range states {
			assert.True(t, st.Included, "no six-month silence run occurs")
		}
	})

	t.Run("mohamed", func(t *testing.T) {
		states, err := c.Classify(domain.PolicyMohamed, fs, axis)
		require.NoError(t, err)
		require.Len(t, states, 8, "rate 4/8 clears the threshold")
		for i, st := range states {
			assert.True(t, st.Included)
			assert.Equal(t, reported[i], st.Reported)
		}
	})
}

func TestClassifyAll(t *testing.T) {
	c := defaultClassifier(t)
	axis := monthAxis(3)
	all := []dataset.FacilitySeries{
		series("F1", true, false, true),
		series("F2", false, false, false),
		series("F3", false, true, true),
	}

	states, err := c.ClassifyAll(domain.PolicyWHO, all, axis)
	require.NoError(t, err)
	require.Len(t, states, 5, "3 rows for F1, none for F2, 2 for F3")
	assert.Equal(t, "F1", states[0].Facility)
	assert.Equal(t, "F3", states[3].Facility)
}

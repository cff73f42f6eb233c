package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// runMetrics holds the engine's Prometheus collectors. A nil
// *runMetrics is valid and records nothing, so instrumentation stays
// optional.
type runMetrics struct {
	runsTotal       prometheus.Counter
	rowsProcessed   prometheus.Counter
	outliersFlagged prometheus.Counter
	groupsSkipped   prometheus.Counter
	runDuration     prometheus.Histogram
}

func newRunMetrics(reg prometheus.Registerer) *runMetrics {
	m := &runMetrics{
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hfmetrics",
			Name:      "runs_total",
			Help:      "Completed engine runs.",
		}),
		rowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hfmetrics",
			Name:      "rows_processed_total",
			Help:      "Input rows processed across all runs.",
		}),
		outliersFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hfmetrics",
			Name:      "outliers_flagged_total",
			Help:      "Values flagged or capped by correction across all runs.",
		}),
		groupsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hfmetrics",
			Name:      "groups_skipped_total",
			Help:      "Groups skipped for insufficient non-null observations.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hfmetrics",
			Name:      "run_duration_seconds",
			Help:      "Wall time of an engine run.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.runsTotal, m.rowsProcessed, m.outliersFlagged, m.groupsSkipped, m.runDuration)
	return m
}

func (m *runMetrics) observeRun(d time.Duration, rows, flagged, skipped int) {
	if m == nil {
		return
	}
	m.runsTotal.Inc()
	m.rowsProcessed.Add(float64(rows))
	m.outliersFlagged.Add(float64(flagged))
	m.groupsSkipped.Add(float64(skipped))
	m.runDuration.Observe(d.Seconds())
}

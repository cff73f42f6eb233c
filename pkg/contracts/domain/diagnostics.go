package domain

import "time"

// SkippedGroup records a group that was left untouched by outlier
// detection or correction because it held too few non-null
// observations. Skips are diagnostics, never errors: the group's
// values pass through unflagged and unmodified.
type SkippedGroup struct {
	Column       string `json:"column" validate:"required"`
	Key          string `json:"key"`
	Observations int    `json:"observations" validate:"min=0"`
	MinRequired  int    `json:"min_required" validate:"min=1"`
}

// Diagnostics accumulates the soft findings of a single engine run.
// It is returned alongside the primary output and never aborts one.
type Diagnostics struct {
	RunID         string         `json:"run_id" validate:"required,uuid"`
	RowsProcessed int            `json:"rows_processed" validate:"min=0"`
	SkippedGroups []SkippedGroup `json:"skipped_groups,omitempty"`
	StartedAt     time.Time      `json:"started_at"`
	Duration      time.Duration  `json:"duration"`
}

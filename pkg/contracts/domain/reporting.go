package domain

// FacilityMonthState is the classifier's atomic output: one decision
// per (facility, month, policy). Policies that exclude a facility for
// part or all of its history simply emit no row for those months.
type FacilityMonthState struct {
	Facility string    `json:"facility" validate:"required"`
	Period   YearMonth `json:"period" validate:"required"`
	Included bool      `json:"included"`
	Reported bool      `json:"reported"`
}

// MonthlyRate is the aggregated reporting rate for one policy and one
// month of the global axis. Rate is nil when the denominator is zero;
// a nil rate is distinct from a computed 0%.
type MonthlyRate struct {
	Policy      Policy    `json:"policy" validate:"required"`
	Period      YearMonth `json:"period" validate:"required"`
	Denominator int       `json:"denominator" validate:"min=0"`
	Numerator   int       `json:"numerator" validate:"min=0,ltefield=Denominator"`
	Rate        *float64  `json:"rate"`
}

package domain

// Policy defines how a facility-month enters the reporting-rate
// denominator. The set is closed: every consumer switches over it
// exhaustively and rejects anything else as a configuration error.
type Policy string

const (
	// PolicyWHO includes a facility permanently from its first
	// reported month onward, regardless of later silence.
	PolicyWHO Policy = "who"

	// PolicyOusmane excludes a facility only while its entire
	// trailing silence window has no reported month; inclusion may
	// toggle over the facility's lifetime.
	PolicyOusmane Policy = "ousmane"

	// PolicyMohamed includes a facility from its first reported
	// month only when its overall reporting rate from that month to
	// the end of the axis clears a quality threshold.
	PolicyMohamed Policy = "mohamed"
)

// AllPolicies returns the closed set of classification policies in
// evaluation order.
func AllPolicies() []Policy {
	return []Policy{PolicyWHO, PolicyOusmane, PolicyMohamed}
}

// IsValid reports whether p is a known policy.
func (p Policy) IsValid() bool {
	switch p {
	case PolicyWHO, PolicyOusmane, PolicyMohamed:
		return true
	}
	return false
}

// String returns the policy name.
func (p Policy) String() string {
	return string(p)
}

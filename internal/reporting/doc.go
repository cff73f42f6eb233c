// Package reporting classifies facility-months into reporting-rate
// denominators under three non-interchangeable temporal policies and
// aggregates the result into per-month rate tables.
//
// Every policy is evaluated against the same global month axis (the
// sorted union of all months observed in the input), never against a
// per-facility axis, so rates are comparable across policies.
//
// The policies:
//
//   - WHO: a facility activates permanently on its first reported
//     month. Every month from activation onward is in the
//     denominator, silence gaps included; months before activation
//     emit no row at all.
//
//   - Ousmane: a facility leaves the denominator only while its
//     trailing window (default 6 months, current month inclusive) is
//     entirely silent, and re-enters the month reporting resumes.
//     Before a full window of history exists the facility is included
//     unconditionally. Inclusion is deliberately non-monotonic.
//
//   - Mohamed: a facility activates on its first reported month only
//     if its overall reporting rate from that month to the end of the
//     axis reaches the quality threshold (default 0.25, boundary
//     inclusive). Below the threshold the facility emits no rows.
//
// Classification is a pure function of the reported series, the axis
// and the policy: identical inputs always produce the identical state
// set, so facilities can be classified in parallel and merged.
package reporting

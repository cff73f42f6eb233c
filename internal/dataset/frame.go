package dataset

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "hfmetrics/internal/errors"
	"hfmetrics/pkg/contracts/domain"
)

// Frame is the typed, validated materialization of a Table under a
// Schema. Numeric columns use NaN for null cells. The Frame is
// immutable after Build: computations return fresh slices.
type Frame struct {
	schema     Schema
	facilities []string
	periods    []domain.YearMonth
	groups     map[string][]string
	numeric    map[string][]float64
	reported   []bool
}

// FacilitySeries is one facility's dense reported series over the
// global month axis: exactly one flag per axis month.
type FacilitySeries struct {
	Facility string
	Reported []bool
}

// Null marks a missing numeric observation inside a Frame column.
func Null() float64 {
	return math.NaN()
}

// IsNull reports whether v is a missing observation.
func IsNull(v float64) bool {
	return math.IsNaN(v)
}

// Build materializes a Frame from a raw table. Schema violations are
// fatal SchemaErrors. Cells that cannot be interpreted under their
// declared role become located ComputationErrors; every bad cell in
// the table is collected before Build returns, joined into one error.
func Build(t *Table, s Schema) (*Frame, error) {
	if err := s.Validate(t); err != nil {
		return nil, err
	}

	n := t.NumRows()
	f := &Frame{
		schema:     s,
		facilities: make([]string, n),
		periods:    make([]domain.YearMonth, n),
		groups:     make(map[string][]string, len(s.GroupColumns)),
		numeric:    make(map[string][]float64, len(s.NumericColumns)),
		reported:   make([]bool, n),
	}
	for _, name := range s.GroupColumns {
		f.groups[name] = make([]string, n)
	}
	for _, name := range s.NumericColumns {
		f.numeric[name] = make([]float64, n)
	}

	facilityCol, _ := t.Column(s.FacilityColumn)
	var cellErrs []error

	for i := 0; i < n; i++ {
		row := i + 1 // 1-based for error reporting
		f.facilities[i] = strings.TrimSpace(t.Cell(i, facilityCol))

		period, err := parsePeriod(t, s, i)
		if err != nil {
			cellErrs = append(cellErrs, err)
		} else {
			f.periods[i] = period
		}

		for _, name := range s.GroupColumns {
			col, _ := t.Column(name)
			f.groups[name][i] = strings.TrimSpace(t.Cell(i, col))
		}

		for _, name := range s.NumericColumns {
			col, _ := t.Column(name)
			raw := strings.TrimSpace(t.Cell(i, col))
			v, err := parseNumeric(raw)
			if err != nil {
				cellErrs = append(cellErrs, apperrors.NewComputation(name, row, raw, "not a numeric value"))
				continue
			}
			f.numeric[name][i] = v
		}

		for _, name := range s.IndicatorColumns {
			col, _ := t.Column(name)
			raw := strings.TrimSpace(t.Cell(i, col))
			active, err := parseIndicator(raw)
			if err != nil {
				cellErrs = append(cellErrs, apperrors.NewComputation(name, row, raw, "not a boolean-convertible value"))
				continue
			}
			if active {
				f.reported[i] = true
			}
		}
	}

	if len(cellErrs) > 0 {
		return nil, errors.Join(cellErrs...)
	}
	return f, nil
}

// nullTokens are cell values read as a missing numeric observation.
var nullTokens = map[string]bool{
	"": true, "na": true, "n/a": true, "nan": true, "null": true,
}

func parseNumeric(raw string) (float64, error) {
	if nullTokens[strings.ToLower(raw)] {
		return Null(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errors.New("not numeric")
	}
	return v, nil
}

func parseIndicator(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "", "na", "n/a", "null":
		return false, nil
	case "true", "yes":
		return true, nil
	case "false", "no":
		return false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return false, errors.New("not boolean-convertible")
	}
	return v > 0, nil
}

func parsePeriod(t *Table, s Schema, i int) (domain.YearMonth, error) {
	row := i + 1
	if s.PeriodColumn != "" {
		col, _ := t.Column(s.PeriodColumn)
		raw := strings.TrimSpace(t.Cell(i, col))
		ym, err := domain.ParseYearMonth(raw)
		if err != nil {
			return domain.YearMonth{}, apperrors.NewComputation(s.PeriodColumn, row, raw, "not a valid period")
		}
		return ym, nil
	}

	yearCol, _ := t.Column(s.YearColumn)
	monthCol, _ := t.Column(s.MonthColumn)
	rawYear := strings.TrimSpace(t.Cell(i, yearCol))
	rawMonth := strings.TrimSpace(t.Cell(i, monthCol))

	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return domain.YearMonth{}, apperrors.NewComputation(s.YearColumn, row, rawYear, "not a valid year")
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil || month < 1 || month > 12 {
		return domain.YearMonth{}, apperrors.NewComputation(s.MonthColumn, row, rawMonth, "not a valid month (1-12)")
	}
	return domain.NewYearMonth(year, time.Month(month)), nil
}

// Schema returns the schema the frame was built under.
func (f *Frame) Schema() Schema {
	return f.schema
}

// NumRows returns the number of rows in the frame.
func (f *Frame) NumRows() int {
	return len(f.facilities)
}

// Facility returns the facility id of row i.
func (f *Frame) Facility(i int) string {
	return f.facilities[i]
}

// Period returns the period of row i.
func (f *Frame) Period(i int) domain.YearMonth {
	return f.periods[i]
}

// NumericColumns returns the declared numeric column names in order.
func (f *Frame) NumericColumns() []string {
	return f.schema.NumericColumns
}

// Numeric returns the parsed values of a declared numeric column.
// Null cells are NaN. The returned slice is shared; callers must not
// mutate it.
func (f *Frame) Numeric(name string) ([]float64, bool) {
	v, ok := f.numeric[name]
	return v, ok
}

// Reported returns whether row i had any indicator value above zero.
func (f *Frame) Reported(i int) bool {
	return f.reported[i]
}

// MonthAxis returns the sorted union of all periods observed in the
// frame. The axis is global: every classifier policy is evaluated
// against this same axis so cross-policy aggregation stays comparable.
func (f *Frame) MonthAxis() []domain.YearMonth {
	seen := make(map[int]domain.YearMonth)
	for _, p := range f.periods {
		seen[p.Ordinal()] = p
	}
	axis := make([]domain.YearMonth, 0, len(seen))
	for _, p := range seen {
		axis = append(axis, p)
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i].Before(axis[j]) })
	return axis
}

// GroupBy partitions the frame's rows by the given group columns,
// which must be declared in the schema. With no columns the whole
// frame is a single group under the empty key.
func (f *Frame) GroupBy(cols ...string) (*GroupIndex, error) {
	for _, name := range cols {
		if _, ok := f.groups[name]; !ok {
			return nil, apperrors.NewSchema(name, "column not declared as a group column")
		}
	}

	idx := newGroupIndex()
	if len(cols) == 0 {
		for i := 0; i < f.NumRows(); i++ {
			idx.add("", i)
		}
		return idx, nil
	}

	parts := make([]string, len(cols))
	for i := 0; i < f.NumRows(); i++ {
		for j, name := range cols {
			parts[j] = f.groups[name][i]
		}
		idx.add(strings.Join(parts, "|"), i)
	}
	return idx, nil
}

// FacilitySeries derives one dense reported series per facility over
// the given axis. Months a facility has no row for read as
// reported=false; multiple rows in the same facility-month OR
// together. Facilities are returned in sorted id order.
func (f *Frame) FacilitySeries(axis []domain.YearMonth) []FacilitySeries {
	position := make(map[int]int, len(axis))
	for i, p := range axis {
		position[p.Ordinal()] = i
	}

	byFacility := make(map[string][]bool)
	for i := 0; i < f.NumRows(); i++ {
		id := f.facilities[i]
		series, ok := byFacility[id]
		if !ok {
			series = make([]bool, len(axis))
			byFacility[id] = series
		}
		if pos, ok := position[f.periods[i].Ordinal()]; ok && f.reported[i] {
			series[pos] = true
		}
	}

	ids := make([]string, 0, len(byFacility))
	for id := range byFacility {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]FacilitySeries, len(ids))
	for i, id := range ids {
		out[i] = FacilitySeries{Facility: id, Reported: byFacility[id]}
	}
	return out
}

package dataset

import (
	apperrors "hfmetrics/internal/errors"
)

// Table is the raw in-memory input table: a header and rows of string
// cells, the shape a CSV reader or spreadsheet extractor produces.
// The core owns no file or wire format; collaborators build Tables.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// NewTable creates a Table from a header and data rows. Ragged rows
// are tolerated; missing trailing cells read as empty strings.
func NewTable(header []string, rows [][]string) *Table {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	return &Table{header: header, index: index, rows: rows}
}

// Header returns the column names in table order.
func (t *Table) Header() []string {
	return t.header
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, bool) {
	idx, ok := t.index[name]
	return idx, ok
}

// Cell returns the raw cell at (row, col), or "" when the row is
// shorter than the header.
func (t *Table) Cell(row, col int) string {
	r := t.rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Schema declares the semantic role of each column the core consumes.
// The period is given either as a single PeriodColumn ("YYYY-MM") or
// as a YearColumn plus MonthColumn pair.
type Schema struct {
	FacilityColumn   string   `json:"facility_column" validate:"required"`
	GroupColumns     []string `json:"group_columns,omitempty"`
	PeriodColumn     string   `json:"period_column,omitempty"`
	YearColumn       string   `json:"year_column,omitempty"`
	MonthColumn      string   `json:"month_column,omitempty"`
	NumericColumns   []string `json:"numeric_columns" validate:"min=1"`
	IndicatorColumns []string `json:"indicator_columns,omitempty"`
}

// Validate checks the schema against the table header. Every failure
// is a fatal SchemaError: a missing declaration, a column absent from
// the table, or one column declared under two roles.
func (s Schema) Validate(t *Table) error {
	if s.FacilityColumn == "" {
		return apperrors.NewSchema("facility", "no facility column declared")
	}
	if len(s.NumericColumns) == 0 {
		return apperrors.NewSchema("numeric", "at least one numeric column must be declared")
	}

	switch {
	case s.PeriodColumn != "" && (s.YearColumn != "" || s.MonthColumn != ""):
		return apperrors.NewSchema(s.PeriodColumn, "period column conflicts with year/month columns")
	case s.PeriodColumn == "" && (s.YearColumn == "" || s.MonthColumn == ""):
		return apperrors.NewSchema("period", "either a period column or both year and month columns must be declared")
	}

	roles := make(map[string]string)
	declare := func(name, role string) error {
		if name == "" {
			return nil
		}
		if _, ok := t.Column(name); !ok {
			return apperrors.NewSchema(name, "column not found in table header")
		}
		if prev, ok := roles[name]; ok {
			return apperrors.NewSchema(name, "column declared as both "+prev+" and "+role)
		}
		roles[name] = role
		return nil
	}

	if err := declare(s.FacilityColumn, "facility"); err != nil {
		return err
	}
	if err := declare(s.PeriodColumn, "period"); err != nil {
		return err
	}
	if err := declare(s.YearColumn, "year"); err != nil {
		return err
	}
	if err := declare(s.MonthColumn, "month"); err != nil {
		return err
	}
	for _, name := range s.GroupColumns {
		if err := declare(name, "group"); err != nil {
			return err
		}
	}
	for _, name := range s.NumericColumns {
		if err := declare(name, "numeric"); err != nil {
			return err
		}
	}
	for _, name := range s.IndicatorColumns {
		if err := declare(name, "indicator"); err != nil {
			return err
		}
	}
	return nil
}

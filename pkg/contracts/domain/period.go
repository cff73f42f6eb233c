package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// YearMonth identifies a calendar month at year-month granularity.
// It is the atomic time unit for reporting classification: all input
// periods are normalized to a YearMonth before any computation runs.
type YearMonth struct {
	Year  int        `json:"year" validate:"required,min=1900,max=2200"`
	Month time.Month `json:"month" validate:"required,min=1,max=12"`
}

// NewYearMonth creates a YearMonth from a year and month.
func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

// ParseYearMonth parses a period in "YYYY-MM" form. Full dates
// ("YYYY-MM-DD") are accepted and truncated to month granularity.
func ParseYearMonth(s string) (YearMonth, error) {
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return YearMonth{Year: t.Year(), Month: t.Month()}, nil
		}
	}
	return YearMonth{}, fmt.Errorf("invalid period %q: expected YYYY-MM", s)
}

// Ordinal returns the number of months since year zero. It gives
// YearMonth a total order and makes window arithmetic a subtraction.
func (ym YearMonth) Ordinal() int {
	return ym.Year*12 + int(ym.Month) - 1
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Ordinal() < other.Ordinal()
}

// After reports whether ym is strictly later than other.
func (ym YearMonth) After(other YearMonth) bool {
	return ym.Ordinal() > other.Ordinal()
}

// Next returns the following calendar month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// IsZero reports whether ym is the zero value.
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// String formats the period as "YYYY-MM".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MarshalJSON encodes the period as its "YYYY-MM" string form.
func (ym YearMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(ym.String())
}

// UnmarshalJSON decodes a period from its "YYYY-MM" string form.
func (ym *YearMonth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseYearMonth(s)
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

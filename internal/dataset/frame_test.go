package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hfmetrics/internal/errors"
	"hfmetrics/pkg/contracts/domain"
)

func testSchema() Schema {
	return Schema{
		FacilityColumn:   "facility_id",
		GroupColumns:     []string{"district"},
		PeriodColumn:     "period",
		NumericColumns:   []string{"penta1"},
		IndicatorColumns: []string{"penta1_reported"},
	}
}

func testRows() [][]string {
	return [][]string{
		{"F1", "north", "2024-01", "10", "1"},
		{"F1", "north", "2024-02", "", "0"},
		{"F2", "south", "2024-03", "25.5", "12"},
		{"F2", "south", "2024-01", "NA", "true"},
	}
}

func testTable() *Table {
	return NewTable(
		[]string{"facility_id", "district", "period", "penta1", "penta1_reported"},
		testRows(),
	)
}

func TestBuild(t *testing.T) {
	frame, err := Build(testTable(), testSchema())
	require.NoError(t, err)
	require.Equal(t, 4, frame.NumRows())

	assert.Equal(t, "F1", frame.Facility(0))
	assert.Equal(t, domain.NewYearMonth(2024, time.February), frame.Period(1))

	penta, ok := frame.Numeric("penta1")
	require.True(t, ok)
	assert.Equal(t, 10.0, penta[0])
	assert.True(t, IsNull(penta[1]), "empty cell should be null")
	assert.Equal(t, 25.5, penta[2])
	assert.True(t, IsNull(penta[3]), "NA token should be null")

	assert.True(t, frame.Reported(0), "indicator 1 means reported")
	assert.False(t, frame.Reported(1), "indicator 0 means not reported")
	assert.True(t, frame.Reported(2))
	assert.True(t, frame.Reported(3), "indicator true means reported")
}

func TestBuildYearMonthColumns(t *testing.T) {
	table := NewTable(
		[]string{"facility_id", "year", "month", "penta1"},
		[][]string{{"F1", "2023", "12", "5"}, {"F1", "2024", "1", "7"}},
	)
	schema := Schema{
		FacilityColumn: "facility_id",
		YearColumn:     "year",
		MonthColumn:    "month",
		NumericColumns: []string{"penta1"},
	}

	frame, err := Build(table, schema)
	require.NoError(t, err)
	assert.Equal(t, domain.NewYearMonth(2023, time.December), frame.Period(0))
	assert.Equal(t, domain.NewYearMonth(2024, time.January), frame.Period(1))
}

func TestBuildLocatedErrors(t *testing.T) {
	t.Run("non-numeric value reports column and row", func(t *testing.T) {
		rows := testRows()
		rows[2][3] = "twenty"
		table := NewTable([]string{"facility_id", "district", "period", "penta1", "penta1_reported"}, rows)

		_, err := Build(table, testSchema())
		require.Error(t, err)
		assert.True(t, apperrors.IsComputation(err))
		assert.Contains(t, err.Error(), `"penta1"`)
		assert.Contains(t, err.Error(), "row 3")
		assert.Contains(t, err.Error(), `"twenty"`)
	})

	t.Run("all bad cells are collected in one pass", func(t *testing.T) {
		rows := testRows()
		rows[0][3] = "x"
		rows[1][2] = "not-a-period"
		rows[3][4] = "maybe"
		table := NewTable([]string{"facility_id", "district", "period", "penta1", "penta1_reported"}, rows)

		_, err := Build(table, testSchema())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 1")
		assert.Contains(t, err.Error(), "row 2")
		assert.Contains(t, err.Error(), "row 4")
	})

	t.Run("invalid month", func(t *testing.T) {
		table := NewTable(
			[]string{"facility_id", "year", "month", "penta1"},
			[][]string{{"F1", "2024", "13", "5"}},
		)
		schema := Schema{
			FacilityColumn: "facility_id",
			YearColumn:     "year",
			MonthColumn:    "month",
			NumericColumns: []string{"penta1"},
		}
		_, err := Build(table, schema)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1-12")
	})
}

func TestMonthAxis(t *testing.T) {
	frame, err := Build(testTable(), testSchema())
	require.NoError(t, err)

	axis := frame.MonthAxis()
	require.Len(t, axis, 3)
	assert.Equal(t, "2024-01", axis[0].String())
	assert.Equal(t, "2024-02", axis[1].String())
	assert.Equal(t, "2024-03", axis[2].String())
}

func TestGroupBy(t *testing.T) {
	frame, err := Build(testTable(), testSchema())
	require.NoError(t, err)

	t.Run("by district", func(t *testing.T) {
		idx, err := frame.GroupBy("district")
		require.NoError(t, err)
		assert.Equal(t, []string{"north", "south"}, idx.Keys())
		assert.Equal(t, []int{0, 1}, idx.Rows("north"))
		assert.Equal(t, []int{2, 3}, idx.Rows("south"))
	})

	t.Run("no columns yields a single group", func(t *testing.T) {
		idx, err := frame.GroupBy()
		require.NoError(t, err)
		require.Equal(t, 1, idx.Len())
		assert.Equal(t, []int{0, 1, 2, 3}, idx.Rows(""))
	})

	t.Run("undeclared column", func(t *testing.T) {
		_, err := frame.GroupBy("region")
		require.Error(t, err)
		assert.True(t, apperrors.IsSchema(err))
	})
}

func TestFacilitySeries(t *testing.T) {
	frame, err := Build(testTable(), testSchema())
	require.NoError(t, err)

	axis := frame.MonthAxis()
	series := frame.FacilitySeries(axis)
	require.Len(t, series, 2)

	assert.Equal(t, "F1", series[0].Facility)
	assert.Equal(t, []bool{true, false, false}, series[0].Reported,
		"F1 reported in 2024-01 only; 2024-03 has no row and reads false")

	assert.Equal(t, "F2", series[1].Facility)
	assert.Equal(t, []bool{true, false, true}, series[1].Reported)
}

func TestFacilitySeriesMultipleRowsOrTogether(t *testing.T) {
	table := NewTable(
		[]string{"facility_id", "period", "penta1", "penta1_reported"},
		[][]string{
			{"F1", "2024-01", "1", "0"},
			{"F1", "2024-01", "2", "1"},
		},
	)
	schema := Schema{
		FacilityColumn:   "facility_id",
		PeriodColumn:     "period",
		NumericColumns:   []string{"penta1"},
		IndicatorColumns: []string{"penta1_reported"},
	}
	frame, err := Build(table, schema)
	require.NoError(t, err)

	series := frame.FacilitySeries(frame.MonthAxis())
	require.Len(t, series, 1)
	assert.Equal(t, []bool{true}, series[0].Reported)
}

// ratecalc runs the full health-facility analytics pipeline over a
// CSV extract: outlier detection and correction on every numeric
// column, then reporting-rate classification and aggregation under
// all three policies. The core consumes an in-memory table; this
// command owns all file and CSV handling.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"hfmetrics/internal/config"
	"hfmetrics/internal/dataset"
	"hfmetrics/internal/engine"
	"hfmetrics/pkg/contracts"
	"hfmetrics/pkg/contracts/domain"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional, env vars override)")
	inputPath := flag.String("input", "", "path to input CSV (required)")
	outputDir := flag.String("out", "reports", "output directory for result CSVs")
	facilityCol := flag.String("facility-col", "facility", "facility id column")
	groupCols := flag.String("group-cols", "", "comma-separated grouping columns for outlier detection")
	periodCol := flag.String("period-col", "", "period column (YYYY-MM); mutually exclusive with year/month columns")
	yearCol := flag.String("year-col", "", "year column (used with -month-col)")
	monthCol := flag.String("month-col", "", "month column (used with -year-col)")
	numericCols := flag.String("numeric-cols", "", "comma-separated numeric columns (required)")
	indicatorCols := flag.String("indicator-cols", "", "comma-separated reporting indicator columns")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logging.Logger(os.Stderr)

	if *inputPath == "" {
		logger.Error("No input file specified", "hint", "pass -input path/to/data.csv")
		os.Exit(1)
	}
	if *numericCols == "" {
		logger.Error("No numeric columns specified", "hint", "pass -numeric-cols count1,count2")
		os.Exit(1)
	}

	schema := dataset.Schema{
		FacilityColumn:   *facilityCol,
		GroupColumns:     splitCols(*groupCols),
		PeriodColumn:     *periodCol,
		YearColumn:       *yearCol,
		MonthColumn:      *monthCol,
		NumericColumns:   splitCols(*numericCols),
		IndicatorColumns: splitCols(*indicatorCols),
	}

	logger.Info("Loading input table", "path", *inputPath)
	table, err := loadTable(*inputPath)
	if err != nil {
		logger.Error("Failed to load input table", "error", err)
		os.Exit(1)
	}
	logger.Info("Loaded input table", "rows", table.NumRows(), "columns", len(table.Header()))

	eng := engine.New(cfg, logger)
	result, err := eng.Run(context.Background(), table, schema)
	if err != nil {
		logger.Error("Analytics run failed", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		logger.Error("Failed to create output directory", "error", err)
		os.Exit(1)
	}

	correctedPath := filepath.Join(*outputDir, "corrected.csv")
	if err := writeCorrected(correctedPath, table, schema, result); err != nil {
		logger.Error("Failed to write corrected data", "error", err)
		os.Exit(1)
	}

	statesPath := filepath.Join(*outputDir, "facility_states.csv")
	if err := writeStates(statesPath, result); err != nil {
		logger.Error("Failed to write facility states", "error", err)
		os.Exit(1)
	}

	ratesPath := filepath.Join(*outputDir, "monthly_rates.csv")
	if err := writeRates(ratesPath, result); err != nil {
		logger.Error("Failed to write monthly rates", "error", err)
		os.Exit(1)
	}

	flagged := 0
	for _, corr := range result.Corrections {
		flagged += corr.Flagged
	}
	logger.Info("Analytics run completed",
		"run_id", result.RunID,
		"corrected", correctedPath,
		"states", statesPath,
		"rates", ratesPath,
		"outliers_flagged", flagged,
		"groups_skipped", len(result.Diagnostics.SkippedGroups),
		"duration", result.Diagnostics.Duration)

	for _, sg := range result.Diagnostics.SkippedGroups {
		logger.Warn("Group skipped for insufficient observations",
			"column", sg.Column,
			"group", sg.Key,
			"observations", sg.Observations,
			"min_required", sg.MinRequired)
	}
}

func splitCols(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadTable(path string) (*dataset.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // the core tolerates ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV file: %s", path)
	}
	return dataset.NewTable(records[0], records[1:]), nil
}

// writeCorrected echoes the input table with every numeric column
// replaced by its corrected series. Null observations stay empty.
func writeCorrected(path string, table *dataset.Table, schema dataset.Schema, result *engine.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	corrected := make(map[int][]float64)
	for _, name := range schema.NumericColumns {
		col, _ := table.Column(name)
		corrected[col] = result.Corrections[name].Series
	}

	w := csv.NewWriter(file)
	if err := w.Write(table.Header()); err != nil {
		return err
	}
	record := make([]string, len(table.Header()))
	for i := 0; i < table.NumRows(); i++ {
		for col := range record {
			if series, ok := corrected[col]; ok {
				record[col] = formatCell(series[i])
			} else {
				record[col] = table.Cell(i, col)
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatCell(v float64) string {
	if dataset.IsNull(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeStates(path string, result *engine.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"policy", "facility", "period", "included", "reported"}); err != nil {
		return err
	}
	for _, policy := range domain.AllPolicies() {
		for _, st := range result.States[policy] {
			record := []string{
				policy.String(),
				st.Facility,
				st.Period.String(),
				strconv.FormatBool(st.Included),
				strconv.FormatBool(st.Reported),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func writeRates(path string, result *engine.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"policy", "period", "denominator", "numerator", "rate_percent"}); err != nil {
		return err
	}
	for _, r := range result.Rates {
		rate := ""
		if r.Rate != nil {
			rate = strconv.FormatFloat(*r.Rate, 'f', 2, 64)
		}
		record := []string{
			r.Policy.String(),
			r.Period.String(),
			strconv.Itoa(r.Denominator),
			strconv.Itoa(r.Numerator),
			rate,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

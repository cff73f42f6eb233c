package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"hfmetrics/internal/config"
	"hfmetrics/internal/dataset"
	"hfmetrics/internal/outliers"
	"hfmetrics/internal/reporting"
	"hfmetrics/pkg/contracts/domain"
)

// Engine runs the full analytics pipeline over one in-memory table.
type Engine struct {
	cfg            *config.Config
	logger         *slog.Logger
	tracer         trace.Tracer
	metrics        *runMetrics
	maxConcurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry enables Prometheus instrumentation, registering the
// engine's collectors with reg.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.metrics = newRunMetrics(reg)
	}
}

// WithMaxConcurrency bounds the number of columns corrected in
// parallel.
func WithMaxConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrency = n
		}
	}
}

// New creates an Engine with the given configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		cfg:            cfg,
		logger:         logger,
		tracer:         otel.Tracer("hfmetrics/engine"),
		maxConcurrency: 4,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the complete output of one run: the corrected series per
// numeric column, the facility-month states per policy, the monthly
// rate table across all policies, and the run diagnostics.
type Result struct {
	RunID       string
	Axis        []domain.YearMonth
	Corrections map[string]*outliers.CorrectionResult
	States      map[domain.Policy][]domain.FacilityMonthState
	Rates       []domain.MonthlyRate
	Diagnostics *domain.Diagnostics
}

// Run executes the pipeline. Configuration and schema failures abort
// before any computation; located cell errors abort after parsing
// with every bad cell reported. Soft findings accumulate into
// Result.Diagnostics.
func (e *Engine) Run(ctx context.Context, table *dataset.Table, schema dataset.Schema) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID)

	ctx, span := e.tracer.Start(ctx, "engine.Run")
	defer span.End()

	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	params := outliers.Params{
		Method:          domain.CorrectionMethod(e.cfg.Correction.Method),
		Window:          e.cfg.Correction.Window,
		LowerPercentile: e.cfg.Correction.LowerPercentile,
		UpperPercentile: e.cfg.Correction.UpperPercentile,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	classifier, err := reporting.NewClassifier(e.cfg.Reporting.SilenceWindow, e.cfg.Reporting.QualityThreshold)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "starting analytics run",
		"rows", table.NumRows(),
		"correction_method", e.cfg.Correction.Method,
	)

	frame, err := e.buildFrame(ctx, table, schema)
	if err != nil {
		logger.ErrorContext(ctx, "frame build failed", "error", err)
		return nil, err
	}

	corrections, err := e.correctColumns(ctx, frame, schema, params)
	if err != nil {
		return nil, err
	}

	axis := frame.MonthAxis()
	states, rates, err := e.classify(ctx, classifier, frame, axis)
	if err != nil {
		return nil, err
	}

	diagnostics := &domain.Diagnostics{
		RunID:         runID,
		RowsProcessed: frame.NumRows(),
		StartedAt:     start,
		Duration:      time.Since(start),
	}
	flagged := 0
	for _, name := range frame.NumericColumns() {
		res := corrections[name]
		flagged += res.Flagged
		diagnostics.SkippedGroups = append(diagnostics.SkippedGroups, res.Skipped...)
	}

	e.metrics.observeRun(diagnostics.Duration, frame.NumRows(), flagged, len(diagnostics.SkippedGroups))
	logger.InfoContext(ctx, "analytics run completed",
		"duration", diagnostics.Duration,
		"months", len(axis),
		"outliers_flagged", flagged,
		"groups_skipped", len(diagnostics.SkippedGroups),
	)

	return &Result{
		RunID:       runID,
		Axis:        axis,
		Corrections: corrections,
		States:      states,
		Rates:       rates,
		Diagnostics: diagnostics,
	}, nil
}

func (e *Engine) buildFrame(ctx context.Context, table *dataset.Table, schema dataset.Schema) (*dataset.Frame, error) {
	_, span := e.tracer.Start(ctx, "engine.buildFrame")
	defer span.End()
	return dataset.Build(table, schema)
}

// correctColumns detects and corrects every numeric column. Columns
// are independent, so each goroutine fills its own slot and the map
// is assembled after the wait.
func (e *Engine) correctColumns(ctx context.Context, frame *dataset.Frame, schema dataset.Schema, params outliers.Params) (map[string]*outliers.CorrectionResult, error) {
	ctx, span := e.tracer.Start(ctx, "engine.correctColumns")
	defer span.End()

	groups, err := frame.GroupBy(schema.GroupColumns...)
	if err != nil {
		return nil, err
	}

	columns := frame.NumericColumns()
	slots := make([]*outliers.CorrectionResult, len(columns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrency)
	for i, name := range columns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			series, ok := frame.Numeric(name)
			if !ok {
				return fmt.Errorf("numeric column %q missing from frame", name)
			}
			det, err := outliers.Detect(name, series, groups, e.cfg.Detection.IQRMultiplier, e.cfg.Detection.MinGroupSize)
			if err != nil {
				return fmt.Errorf("detect %s: %w", name, err)
			}
			res, err := outliers.Correct(det, series, groups, params)
			if err != nil {
				return fmt.Errorf("correct %s: %w", name, err)
			}
			slots[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	corrections := make(map[string]*outliers.CorrectionResult, len(columns))
	for i, name := range columns {
		corrections[name] = slots[i]
	}
	return corrections, nil
}

// classify evaluates all three policies over the same global axis,
// one goroutine per policy, and aggregates each into monthly rates.
func (e *Engine) classify(ctx context.Context, classifier *reporting.Classifier, frame *dataset.Frame, axis []domain.YearMonth) (map[domain.Policy][]domain.FacilityMonthState, []domain.MonthlyRate, error) {
	ctx, span := e.tracer.Start(ctx, "engine.classify")
	defer span.End()

	series := frame.FacilitySeries(axis)
	policies := domain.AllPolicies()
	stateSlots := make([][]domain.FacilityMonthState, len(policies))
	rateSlots := make([][]domain.MonthlyRate, len(policies))

	g, gctx := errgroup.WithContext(ctx)
	for i, policy := range policies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			states, err := classifier.ClassifyAll(policy, series, axis)
			if err != nil {
				return fmt.Errorf("classify %s: %w", policy, err)
			}
			stateSlots[i] = states
			rateSlots[i] = reporting.Aggregate(policy, states, axis)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	states := make(map[domain.Policy][]domain.FacilityMonthState, len(policies))
	var rates []domain.MonthlyRate
	for i, policy := range policies {
		states[policy] = stateSlots[i]
		rates = append(rates, rateSlots[i]...)
	}
	return states, rates, nil
}

package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"arcli/internal/analytics"
	"arcli/internal/calendar"
	"arcli/internal/forecast"
	"arcli/internal/timeseries"
)

// GranularityReport bundles everything computed for one granularity.
type GranularityReport struct {
	Granularity timeseries.Granularity     `json:"granularity"`
	Series      timeseries.CompletedSeries `json:"series"`
	Analysis    analytics.Result           `json:"analysis"`
	Forecast    forecast.Result            `json:"forecast"`
}

// Bundle is the complete output of one report run.
type Bundle struct {
	RunID        string                 `json:"run_id"`
	Generated    time.Time              `json:"generated"`
	PeriodCounts []calendar.PeriodCount `json:"period_counts"`
	Exclusions   timeseries.Exclusions  `json:"exclusions"`
	Reports      []GranularityReport    `json:"reports"`
}

// ReportFor returns the report at the given granularity.
func (b *Bundle) ReportFor(g timeseries.Granularity) (GranularityReport, bool) {
	for _, r := range b.Reports {
		if r.Granularity == g {
			return r, true
		}
	}
	return GranularityReport{}, false
}

// Service runs the full analysis pipeline over a calendar and observations.
type Service struct {
	classifier *calendar.Classifier
	analyzer   *analytics.Analyzer
	engine     *forecast.Engine
	tracer     *Tracer
	logger     *slog.Logger
}

// NewService wires the pipeline components. A nil tracer disables
// instrumentation; a nil logger falls back to the default.
func NewService(engine *forecast.Engine, tracer *Tracer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = forecast.NewEngine(forecast.Config{}, logger)
	}
	return &Service{
		classifier: calendar.NewClassifier(logger),
		analyzer:   analytics.NewAnalyzer(logger),
		engine:     engine,
		tracer:     tracer,
		logger:     logger,
	}
}

// Generate classifies the calendar once, completes the daily series, then
// analyzes and forecasts every granularity concurrently. The daily series is
// the single source for all roll-ups, so totals agree across granularities.
func (s *Service) Generate(ctx context.Context, model calendar.Model, registry calendar.Registry, observations []timeseries.Observation) (*Bundle, error) {
	runID := uuid.New().String()
	started := time.Now()

	var genErr error
	if s.tracer != nil {
		tctx, span := s.tracer.TraceRun(ctx, runID)
		ctx = tctx
		defer func() { EndSpan(span, genErr) }()
	}

	s.logger.InfoContext(ctx, "report run started",
		slog.String("run_id", runID),
		slog.Int("observations", len(observations)))

	byDate := s.classifier.Classify(model, registry)
	if len(byDate) == 0 {
		genErr = fmt.Errorf("calendar produced no collection days")
		return nil, genErr
	}
	days := calendar.NewDays(model, byDate)

	completer := timeseries.NewCompleter(byDate, s.logger)
	daily, exclusions := completer.Complete(observations)
	if s.tracer != nil {
		s.tracer.RecordExclusions(ctx, exclusions.Files)
	}

	granularities := timeseries.AllGranularities()
	reports := make([]GranularityReport, len(granularities))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, gran := range granularities {
		i, gran := i, gran
		g.Go(func() error {
			rep, err := s.analyzeGranularity(gctx, daily, gran)
			if err != nil {
				return err
			}
			mu.Lock()
			reports[i] = rep
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		genErr = fmt.Errorf("granularity analysis failed: %w", err)
		return nil, genErr
	}

	bundle := &Bundle{
		RunID:        runID,
		Generated:    started,
		PeriodCounts: days.AllPeriodCounts(),
		Exclusions:   exclusions,
		Reports:      reports,
	}

	s.logger.InfoContext(ctx, "report run finished",
		slog.String("run_id", runID),
		slog.Int("collection_days", daily.Len()),
		slog.Int("excluded_files", exclusions.Files),
		slog.Duration("elapsed", time.Since(started)))
	return bundle, nil
}

// analyzeGranularity rolls the daily series up, analyzes it, and forecasts it.
func (s *Service) analyzeGranularity(ctx context.Context, daily timeseries.CompletedSeries, gran timeseries.Granularity) (GranularityReport, error) {
	if err := ctx.Err(); err != nil {
		return GranularityReport{}, err
	}

	if s.tracer != nil {
		tctx, span := s.tracer.TraceGranularity(ctx, gran.String())
		ctx = tctx
		defer EndSpan(span, nil)
	}

	series := timeseries.Aggregate(daily, gran)

	maxLag := 0
	for _, lag := range gran.DefaultLags() {
		if lag > maxLag {
			maxLag = lag
		}
	}
	analysis := s.analyzer.Analyze(series, maxLag)
	fc := s.engine.Forecast(ctx, series, 0)

	if s.tracer != nil {
		s.tracer.RecordForecastMethod(ctx, gran.String(), fc.MethodUsed.String(),
			fc.MethodUsed != forecast.MethodARIMA)
	}

	return GranularityReport{
		Granularity: gran,
		Series:      series,
		Analysis:    analysis,
		Forecast:    fc,
	}, nil
}

package report

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "arcli.report"

// Tracer provides OpenTelemetry instrumentation for report runs.
type Tracer struct {
	tracer trace.Tracer
	meter  metric.Meter

	runsTotal         metric.Int64Counter
	excludedFiles     metric.Int64Counter
	forecastFallbacks metric.Int64Counter
}

// NewTracer creates a report tracer against the global otel providers.
func NewTracer() (*Tracer, error) {
	meter := otel.Meter(tracerName)

	runsTotal, err := meter.Int64Counter("report.runs.total",
		metric.WithDescription("Total report generation runs"))
	if err != nil {
		return nil, fmt.Errorf("failed to create runs counter: %w", err)
	}
	excludedFiles, err := meter.Int64Counter("report.excluded.files",
		metric.WithDescription("Observed files excluded for falling outside collection days"))
	if err != nil {
		return nil, fmt.Errorf("failed to create exclusions counter: %w", err)
	}
	forecastFallbacks, err := meter.Int64Counter("report.forecast.fallbacks",
		metric.WithDescription("Forecasts that degraded below the primary model"))
	if err != nil {
		return nil, fmt.Errorf("failed to create fallback counter: %w", err)
	}

	return &Tracer{
		tracer:            otel.Tracer(tracerName),
		meter:             meter,
		runsTotal:         runsTotal,
		excludedFiles:     excludedFiles,
		forecastFallbacks: forecastFallbacks,
	}, nil
}

// TraceRun starts the span covering one full report run.
func (t *Tracer) TraceRun(ctx context.Context, runID string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "report.generate",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("report.run_id", runID)),
	)
	t.runsTotal.Add(ctx, 1)
	return ctx, span
}

// TraceGranularity starts the span covering one granularity's analysis.
func (t *Tracer) TraceGranularity(ctx context.Context, granularity string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "report.granularity."+granularity,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("report.granularity", granularity)),
	)
}

// RecordExclusions counts files dropped by the completer.
func (t *Tracer) RecordExclusions(ctx context.Context, files int) {
	if files > 0 {
		t.excludedFiles.Add(ctx, int64(files))
	}
}

// RecordForecastMethod counts degraded forecasts by method and granularity.
func (t *Tracer) RecordForecastMethod(ctx context.Context, granularity, method string, degraded bool) {
	if degraded {
		t.forecastFallbacks.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("granularity", granularity),
				attribute.String("method", method),
			))
	}
}

// EndSpan finalizes a span with error status when err is non-nil.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

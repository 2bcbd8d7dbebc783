package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"trainingreports/internal/infrastructure"
)

const (
	TracerName = "trainingreports.operation"
)

// OperationTracer provides OpenTelemetry instrumentation for pipeline runs.
// A zero tracer is usable and records nothing.
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.RunMetrics
}

// NewOperationTracer creates a tracer backed by the process providers
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	if providers == nil {
		return &OperationTracer{tracer: tracenoop.NewTracerProvider().Tracer(TracerName)}, nil
	}

	metrics, err := infrastructure.CreateRunMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create run metrics: %w", err)
	}

	return &OperationTracer{
		tracer:  providers.Tracer,
		metrics: metrics,
	}, nil
}

// Metrics returns the run metrics; nil when telemetry is off
func (pt *OperationTracer) Metrics() *infrastructure.RunMetrics {
	if pt == nil {
		return nil
	}
	return pt.metrics
}

func (pt *OperationTracer) spanTracer() trace.Tracer {
	if pt == nil || pt.tracer == nil {
		return tracenoop.NewTracerProvider().Tracer(TracerName)
	}
	return pt.tracer
}

// TraceOperationExecution creates a span for the entire run
func (pt *OperationTracer) TraceOperationExecution(ctx context.Context, runID string, req RunRequest) (context.Context, trace.Span) {
	return pt.spanTracer().Start(ctx, "operation.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.period", req.Period),
			attribute.Bool("run.interactive", req.Interactive),
		),
	)
}

// TraceStageExecution creates a span for one Step
func (pt *OperationTracer) TraceStageExecution(ctx context.Context, runID, stepID string) (context.Context, trace.Span) {
	return pt.spanTracer().Start(ctx, fmt.Sprintf("operation.step.%s", stepID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStageCompletion closes a Step span and records its metrics
func (pt *OperationTracer) RecordStageCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.Float64("step.duration_seconds", duration.Seconds()),
		attribute.Bool("step.success", err == nil),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "step completed")
	}
	span.End()

	pt.Metrics().RecordStep(ctx, stepID, duration, err == nil)
}

// RecordOperationCompletion closes the run span and records its metrics
func (pt *OperationTracer) RecordOperationCompletion(ctx context.Context, span trace.Span, period string, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.String("run.selected_period", period),
		attribute.Float64("run.duration_seconds", duration.Seconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "run completed")
	}
	span.End()

	pt.Metrics().RecordRun(ctx, period, duration, err)
}

// RecordRecords counts rows read from an input table
func (pt *OperationTracer) RecordRecords(ctx context.Context, input string, rows int) {
	trace.SpanFromContext(ctx).AddEvent("input.read", trace.WithAttributes(
		attribute.String("input", input),
		attribute.Int("rows", rows),
	))
	pt.Metrics().RecordRecords(ctx, input, rows)
}

// RecordFlags counts raised flags per code
func (pt *OperationTracer) RecordFlags(ctx context.Context, counts map[string]int) {
	pt.Metrics().RecordFlags(ctx, counts)
}

package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RunMetrics holds the pipeline metrics
type RunMetrics struct {
	RunsTotal      metric.Int64Counter
	RunDuration    metric.Float64Histogram
	StepsTotal     metric.Int64Counter
	StepDuration   metric.Float64Histogram
	ErrorsTotal    metric.Int64Counter
	RecordsRead    metric.Int64Counter
	FlagsRaised    metric.Int64Counter
	TablesExported metric.Int64Counter
	RowsExported   metric.Int64Counter
	ExportDuration metric.Float64Histogram
}

// CreateRunMetrics registers the pipeline instruments on meter
func CreateRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	runsTotal, err := meter.Int64Counter(
		"pipeline_runs_total",
		metric.WithDescription("Total number of pipeline runs"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"pipeline_run_duration_seconds",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stepsTotal, err := meter.Int64Counter(
		"pipeline_steps_total",
		metric.WithDescription("Total number of pipeline steps executed"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"pipeline_step_duration_seconds",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	errorsTotal, err := meter.Int64Counter(
		"pipeline_errors_total",
		metric.WithDescription("Total number of pipeline errors"),
	)
	if err != nil {
		return nil, err
	}

	recordsRead, err := meter.Int64Counter(
		"pipeline_records_read_total",
		metric.WithDescription("Rows read from the input tables"),
	)
	if err != nil {
		return nil, err
	}

	flagsRaised, err := meter.Int64Counter(
		"pipeline_flags_raised_total",
		metric.WithDescription("Data quality flags raised on training records"),
	)
	if err != nil {
		return nil, err
	}

	tablesExported, err := meter.Int64Counter(
		"export_tables_total",
		metric.WithDescription("Output tables written per export format"),
	)
	if err != nil {
		return nil, err
	}

	rowsExported, err := meter.Int64Counter(
		"export_rows_total",
		metric.WithDescription("Rows written per export format"),
	)
	if err != nil {
		return nil, err
	}

	exportDuration, err := meter.Float64Histogram(
		"export_duration_seconds",
		metric.WithDescription("Duration of one table export in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		RunsTotal:      runsTotal,
		RunDuration:    runDuration,
		StepsTotal:     stepsTotal,
		StepDuration:   stepDuration,
		ErrorsTotal:    errorsTotal,
		RecordsRead:    recordsRead,
		FlagsRaised:    flagsRaised,
		TablesExported: tablesExported,
		RowsExported:   rowsExported,
		ExportDuration: exportDuration,
	}, nil
}

func statusAttr(success bool) attribute.KeyValue {
	if success {
		return attribute.String("status", "success")
	}
	return attribute.String("status", "failure")
}

// RecordRun records the outcome of one pipeline run
func (m *RunMetrics) RecordRun(ctx context.Context, period string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("period", period), statusAttr(err == nil))
	m.RunsTotal.Add(ctx, 1, attrs)
	m.RunDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		m.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("scope", "run")))
	}
}

// RecordStep records the outcome of one pipeline step
func (m *RunMetrics) RecordStep(ctx context.Context, stepID string, duration time.Duration, success bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("step_id", stepID), statusAttr(success))
	m.StepsTotal.Add(ctx, 1, attrs)
	m.StepDuration.Record(ctx, duration.Seconds(), attrs)
	if !success {
		m.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("scope", "step"), attribute.String("step_id", stepID)))
	}
}

// RecordRecords counts rows read from one input table
func (m *RunMetrics) RecordRecords(ctx context.Context, input string, rows int) {
	if m == nil {
		return
	}
	m.RecordsRead.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("input", input)))
}

// RecordFlags counts raised flags per code
func (m *RunMetrics) RecordFlags(ctx context.Context, counts map[string]int) {
	if m == nil {
		return
	}
	for code, n := range counts {
		m.FlagsRaised.Add(ctx, int64(n), metric.WithAttributes(attribute.String("code", code)))
	}
}

// RecordExport records one table written in one format
func (m *RunMetrics) RecordExport(ctx context.Context, format, table string, rows int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("format", format),
		attribute.String("table", table),
		statusAttr(err == nil),
	)
	m.TablesExported.Add(ctx, 1, attrs)
	m.ExportDuration.Record(ctx, duration.Seconds(), attrs)
	if err == nil {
		m.RowsExported.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("format", format), attribute.String("table", table)))
	} else {
		m.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("scope", "export"), attribute.String("format", format)))
	}
}

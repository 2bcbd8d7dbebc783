package infrastructure

import (
	"context"
	"runtime"

	"go.opentelemetry.io/otel/metric"
)

// SystemMetrics samples Go runtime state; a batch run records it once
// before the metrics file is written
type SystemMetrics struct {
	goRoutines      metric.Int64Gauge
	memoryAllocated metric.Int64Gauge
	memorySystem    metric.Int64Gauge
	gcCount         metric.Int64Gauge
}

// NewSystemMetrics creates a new system metrics collector
func NewSystemMetrics(meter metric.Meter) (*SystemMetrics, error) {
	goRoutines, err := meter.Int64Gauge(
		"system_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, err
	}

	memoryAllocated, err := meter.Int64Gauge(
		"system_memory_allocated_bytes",
		metric.WithDescription("Total bytes allocated by the Go runtime during the run"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	memorySystem, err := meter.Int64Gauge(
		"system_memory_system_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"system_gc_count",
		metric.WithDescription("Number of completed garbage collections"),
	)
	if err != nil {
		return nil, err
	}

	return &SystemMetrics{
		goRoutines:      goRoutines,
		memoryAllocated: memoryAllocated,
		memorySystem:    memorySystem,
		gcCount:         gcCount,
	}, nil
}

// Collect records the current runtime state
func (s *SystemMetrics) Collect(ctx context.Context) {
	if s == nil {
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s.goRoutines.Record(ctx, int64(runtime.NumGoroutine()))
	s.memoryAllocated.Record(ctx, int64(m.TotalAlloc))
	s.memorySystem.Record(ctx, int64(m.Sys))
	s.gcCount.Record(ctx, int64(m.NumGC))
}

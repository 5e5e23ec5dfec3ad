package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "plotkeep"

// Metrics holds all OTEL metric instruments for plotkeep.
// All counters are cumulative (monotonic).
type Metrics struct {
	// Capture counters (partitioned by trigger: display, close, close_all, final)
	Captures        metric.Int64Counter
	CaptureFailures metric.Int64Counter

	// Script run counters (partitioned by outcome: ok, error)
	Runs        metric.Int64Counter
	RunDuration metric.Float64Histogram
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Captures, err = meter.Int64Counter("captures.total",
		metric.WithDescription("Total figure captures written, partitioned by trigger"))
	if err != nil {
		return nil, err
	}

	m.CaptureFailures, err = meter.Int64Counter("captures.failed",
		metric.WithDescription("Figure captures that failed to render or write, partitioned by trigger"))
	if err != nil {
		return nil, err
	}

	m.Runs, err = meter.Int64Counter("runs.total",
		metric.WithDescription("Target script executions, partitioned by outcome"))
	if err != nil {
		return nil, err
	}

	m.RunDuration, err = meter.Float64Histogram("run.duration",
		metric.WithDescription("Wall-clock duration of target script execution"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordCapture records a successful figure capture.
func (m *Metrics) RecordCapture(ctx context.Context, trigger string) {
	if m == nil {
		return
	}
	m.Captures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("capture.trigger", trigger),
	))
}

// RecordCaptureFailure records a failed figure capture.
func (m *Metrics) RecordCaptureFailure(ctx context.Context, trigger string) {
	if m == nil {
		return
	}
	m.CaptureFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("capture.trigger", trigger),
	))
}

// RecordRun records a target script execution and its duration.
func (m *Metrics) RecordRun(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("run.outcome", outcome))
	m.Runs.Add(ctx, 1, attrs)
	m.RunDuration.Record(ctx, d.Seconds(), attrs)
}

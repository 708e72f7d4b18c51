package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "workmux"

// Metrics holds all OTEL metric instruments for workmux.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Multiplexer control commands (partitioned by backend + op via attributes)
	MuxCommands      metric.Int64Counter
	MuxCommandErrors metric.Int64Counter

	// Agent registry
	StateUpserts metric.Int64Counter

	// Status updates (partitioned by status), plus indicator render
	// failures that were swallowed as best-effort
	StatusUpdates     metric.Int64Counter
	IndicatorFailures metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.MuxCommands, err = meter.Int64Counter("mux.commands",
		metric.WithDescription("Multiplexer control commands issued, partitioned by backend and op"))
	if err != nil {
		return nil, err
	}

	m.MuxCommandErrors, err = meter.Int64Counter("mux.command.errors",
		metric.WithDescription("Multiplexer control commands that failed, partitioned by backend and op"))
	if err != nil {
		return nil, err
	}

	m.StateUpserts, err = meter.Int64Counter("state.upserts",
		metric.WithDescription("Agent registry upserts"))
	if err != nil {
		return nil, err
	}

	m.StatusUpdates, err = meter.Int64Counter("status.updates",
		metric.WithDescription("Agent status updates, partitioned by status"))
	if err != nil {
		return nil, err
	}

	m.IndicatorFailures, err = meter.Int64Counter("status.indicator_failures",
		metric.WithDescription("Best-effort status indicator renders that failed and were skipped"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordCommand records one multiplexer control command and its outcome.
func (m *Metrics) RecordCommand(ctx context.Context, backend, op string, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("mux.backend", backend),
		attribute.String("mux.op", op),
	)
	m.MuxCommands.Add(ctx, 1, attrs)
	if err != nil {
		m.MuxCommandErrors.Add(ctx, 1, attrs)
	}
}

// RecordUpsert records one registry upsert.
func (m *Metrics) RecordUpsert(ctx context.Context) {
	if m == nil {
		return
	}
	m.StateUpserts.Add(ctx, 1)
}

// RecordStatusUpdate records one agent status update.
func (m *Metrics) RecordStatusUpdate(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.StatusUpdates.Add(ctx, 1, metric.WithAttributes(
		attribute.String("agent.status", status),
	))
}

// RecordIndicatorFailure records a swallowed indicator render failure.
func (m *Metrics) RecordIndicatorFailure(ctx context.Context, backend string) {
	if m == nil {
		return
	}
	m.IndicatorFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mux.backend", backend),
	))
}

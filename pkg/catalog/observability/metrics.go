package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Mutation operation names used as the "operation" metric attribute.
const (
	OpRegister   = "register"
	OpUnregister = "unregister"
	OpReset      = "reset"
)

// MetricsRecorder records registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordPopulate records a population attempt with its duration,
	// the number of items committed and its error status.
	RecordPopulate(ctx context.Context, registry string, duration time.Duration, items int, err error)

	// RecordMutation records a register, unregister or reset.
	RecordMutation(ctx context.Context, registry, op string, err error)

	// RecordLookup records a keyed lookup and whether it found an item.
	RecordLookup(ctx context.Context, registry string, hit bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	populations     metric.Int64Counter
	populateLatency metric.Float64Histogram
	populateErrors  metric.Int64Counter
	populateItems   metric.Int64Histogram
	mutations       metric.Int64Counter
	mutationErrors  metric.Int64Counter
	lookups         metric.Int64Counter
	lookupMisses    metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("catalog")

	populations, err := meter.Int64Counter("catalog.populate.count",
		metric.WithDescription("Number of registry population attempts"),
	)
	if err != nil {
		return nil, err
	}

	populateLatency, err := meter.Float64Histogram("catalog.populate.latency_ms",
		metric.WithDescription("Registry population latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	populateErrors, err := meter.Int64Counter("catalog.populate.errors",
		metric.WithDescription("Number of failed registry populations"),
	)
	if err != nil {
		return nil, err
	}

	populateItems, err := meter.Int64Histogram("catalog.populate.items",
		metric.WithDescription("Number of items committed by a population"),
	)
	if err != nil {
		return nil, err
	}

	mutations, err := meter.Int64Counter("catalog.mutations",
		metric.WithDescription("Number of register, unregister and reset operations"),
	)
	if err != nil {
		return nil, err
	}

	mutationErrors, err := meter.Int64Counter("catalog.mutation.errors",
		metric.WithDescription("Number of rejected register, unregister and reset operations"),
	)
	if err != nil {
		return nil, err
	}

	lookups, err := meter.Int64Counter("catalog.lookups",
		metric.WithDescription("Number of keyed lookups"),
	)
	if err != nil {
		return nil, err
	}

	lookupMisses, err := meter.Int64Counter("catalog.lookup.misses",
		metric.WithDescription("Number of keyed lookups that found no item"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		populations:     populations,
		populateLatency: populateLatency,
		populateErrors:  populateErrors,
		populateItems:   populateItems,
		mutations:       mutations,
		mutationErrors:  mutationErrors,
		lookups:         lookups,
		lookupMisses:    lookupMisses,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordPopulate records a population attempt.
func (m *otelMetrics) RecordPopulate(ctx context.Context, registry string, duration time.Duration, items int, err error) {
	attrs := metric.WithAttributes(
		attribute.String("registry", registry),
		attribute.Bool("success", err == nil),
	)
	m.populations.Add(ctx, 1, attrs)
	m.populateLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		m.populateErrors.Add(ctx, 1, attrs)
		return
	}
	m.populateItems.Record(ctx, int64(items), attrs)
}

// RecordMutation records a mutating operation.
func (m *otelMetrics) RecordMutation(ctx context.Context, registry, op string, err error) {
	attrs := metric.WithAttributes(
		attribute.String("registry", registry),
		attribute.String("operation", op),
	)
	m.mutations.Add(ctx, 1, attrs)
	if err != nil {
		m.mutationErrors.Add(ctx, 1, attrs)
	}
}

// RecordLookup records a keyed lookup.
func (m *otelMetrics) RecordLookup(ctx context.Context, registry string, hit bool) {
	attrs := metric.WithAttributes(attribute.String("registry", registry))
	m.lookups.Add(ctx, 1, attrs)
	if !hit {
		m.lookupMisses.Add(ctx, 1, attrs)
	}
}

package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricCallTotal    = "camhal.call.total"
	MetricCallErrors   = "camhal.call.errors"
	MetricCallDuration = "camhal.call.duration_ms"
	MetricInfoLookups  = "camhal.info.lookups"
)

// Metrics records hardware module call metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records a module call with duration and result.
	RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error)

	// RecordInfoLookup records a device info lookup served from (hit) or
	// populated into (miss) the info cache.
	RecordInfoLookup(ctx context.Context, meta CallMeta, hit bool)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	lookupCount  metric.Int64Counter
}

// NewMetrics creates Metrics backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		MetricCallTotal,
		metric.WithDescription("Total number of hardware module calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		MetricCallErrors,
		metric.WithDescription("Total number of failed hardware module calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		MetricCallDuration,
		metric.WithDescription("Hardware module call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	lookupCount, err := meter.Int64Counter(
		MetricInfoLookups,
		metric.WithDescription("Device info lookups by cache outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		lookupCount:  lookupCount,
	}, nil
}

// RecordCall records metrics for a module call.
func (m *metricsImpl) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
	attrs := meta.attributes()
	attrs = append(attrs, attribute.String(KeyStatus, statusName(err)))
	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

// RecordInfoLookup counts a cache lookup. Device ids are left out to keep
// cardinality bounded.
func (m *metricsImpl) RecordInfoLookup(ctx context.Context, meta CallMeta, hit bool) {
	attrs := []attribute.KeyValue{attribute.Bool(KeyCacheHit, hit)}
	if meta.Module != "" {
		attrs = append(attrs, attribute.String(KeyModule, meta.Module))
	}
	m.lookupCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

type noopMetrics struct{}

// NoopMetrics returns Metrics that record nothing.
func NoopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordCall(context.Context, CallMeta, time.Duration, error) {}
func (noopMetrics) RecordInfoLookup(context.Context, CallMeta, bool)           {}

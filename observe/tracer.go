package observe

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/camhal/hal"
)

// Attribute and log field keys.
const (
	KeyOperation = "camera.op"
	KeyDeviceID  = "camera.id"
	KeyModule    = "module.name"
	KeyStatus    = "camera.status"
	KeyError     = "camera.error"
	KeyCacheHit  = "cache.hit"
)

// CallMeta describes one call into a hardware module.
type CallMeta struct {
	Operation string // e.g. "camera_info", "open", "set_torch_mode" (required)
	DeviceID  string // device identifier, empty for module-wide calls
	Module    string // hardware module name (optional)
}

// Device returns a copy of m scoped to an integer device id.
func (m CallMeta) Device(id int) CallMeta {
	m.DeviceID = strconv.Itoa(id)
	return m
}

// SpanName returns the deterministic span name for this call.
// Format: camhal.<operation>
func (m CallMeta) SpanName() string {
	return "camhal." + m.Operation
}

// Validate checks the required fields.
func (m CallMeta) Validate() error {
	if m.Operation == "" {
		return ErrMissingOperation
	}
	return nil
}

func (m CallMeta) fields() []Field {
	fields := []Field{{Key: KeyOperation, Value: m.Operation}}
	if m.DeviceID != "" {
		fields = append(fields, Field{Key: KeyDeviceID, Value: m.DeviceID})
	}
	if m.Module != "" {
		fields = append(fields, Field{Key: KeyModule, Value: m.Module})
	}
	return fields
}

func (m CallMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(KeyOperation, m.Operation)}
	if m.DeviceID != "" {
		attrs = append(attrs, attribute.String(KeyDeviceID, m.DeviceID))
	}
	if m.Module != "" {
		attrs = append(attrs, attribute.String(KeyModule, m.Module))
	}
	return attrs
}

// statusName returns the hardware status carried by err, "OK" for nil and
// "unknown" for errors that carry no status.
func statusName(err error) string {
	s, ok := hal.StatusOf(err)
	if !ok {
		return "unknown"
	}
	return s.String()
}

// Tracer wraps OpenTelemetry tracing with call-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a module call.
	StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with call metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(meta.attributes()...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	span.SetAttributes(attribute.String(KeyStatus, statusName(err)))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

// NoopTracer returns a Tracer that records nothing.
func NoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ error) {
	span.End()
}

package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/camhal/hal"
)

func newRecordingTracer() (Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewTracer(tp.Tracer("test")), recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestCallMeta_SpanName(t *testing.T) {
	meta := CallMeta{Operation: "set_torch_mode", DeviceID: "0"}
	if got := meta.SpanName(); got != "camhal.set_torch_mode" {
		t.Errorf("expected camhal.set_torch_mode, got %q", got)
	}
}

func TestCallMeta_Device(t *testing.T) {
	base := CallMeta{Operation: "camera_info", Module: "sim"}
	scoped := base.Device(3)
	if scoped.DeviceID != "3" {
		t.Errorf("expected DeviceID=3, got %q", scoped.DeviceID)
	}
	if base.DeviceID != "" {
		t.Error("Device must not modify the receiver")
	}
}

func TestCallMeta_Validate(t *testing.T) {
	if err := (CallMeta{}).Validate(); !errors.Is(err, ErrMissingOperation) {
		t.Errorf("expected ErrMissingOperation, got %v", err)
	}
	if err := (CallMeta{Operation: "open"}).Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

// TestTracer_SpanAttributes verifies call attributes are present on the span.
func TestTracer_SpanAttributes(t *testing.T) {
	tr, recorder := newRecordingTracer()
	meta := CallMeta{Operation: "open", DeviceID: "1", Module: "sim"}

	_, span := tr.StartSpan(context.Background(), meta)
	tr.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]

	if s.Name() != "camhal.open" {
		t.Errorf("expected span name camhal.open, got %q", s.Name())
	}
	for key, want := range map[string]string{
		KeyOperation: "open",
		KeyDeviceID:  "1",
		KeyModule:    "sim",
		KeyStatus:    "OK",
	} {
		v, ok := spanAttr(s, key)
		if !ok || v.AsString() != want {
			t.Errorf("expected %s=%q, got %q (present=%v)", key, want, v.AsString(), ok)
		}
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("expected Ok status, got %v", s.Status().Code)
	}
}

// TestTracer_ErrorRecorded verifies a failing call marks the span as errored.
func TestTracer_ErrorRecorded(t *testing.T) {
	tr, recorder := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), CallMeta{Operation: "open", DeviceID: "2"})
	tr.EndSpan(span, hal.StatusNoDevice)

	s := recorder.Ended()[0]
	if s.Status().Code != codes.Error {
		t.Errorf("expected Error status, got %v", s.Status().Code)
	}
	if v, _ := spanAttr(s, KeyStatus); v.AsString() != "ENODEV" {
		t.Errorf("expected status ENODEV, got %q", v.AsString())
	}
	if len(s.Events()) == 0 {
		t.Error("expected an exception event")
	}
}

// TestTracer_UnknownErrorStatus verifies errors without a status are labelled unknown.
func TestTracer_UnknownErrorStatus(t *testing.T) {
	tr, recorder := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), CallMeta{Operation: "set_callbacks"})
	tr.EndSpan(span, errors.New("vendor failure"))

	if v, _ := spanAttr(recorder.Ended()[0], KeyStatus); v.AsString() != "unknown" {
		t.Errorf("expected status unknown, got %q", v.AsString())
	}
}

func traceSpanValid(ctx context.Context) bool {
	return trace.SpanContextFromContext(ctx).IsValid()
}

package observe

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/jonwraymond/camhal/hal"
)

func newTestMiddleware(t *testing.T, buf *bytes.Buffer) (*Middleware, *sdkmetric.ManualReader, func() int) {
	t.Helper()
	tracer, recorder := newRecordingTracer()
	metrics, reader := newTestMetrics(t)
	mw := NewMiddleware(tracer, metrics, NewLoggerWithWriter("debug", buf))
	return mw, reader, func() int { return len(recorder.Ended()) }
}

// TestMiddleware_SuccessPath verifies a successful call records telemetry.
func TestMiddleware_SuccessPath(t *testing.T) {
	var buf bytes.Buffer
	mw, reader, spanCount := newTestMiddleware(t, &buf)

	called := false
	err := mw.Call(context.Background(), CallMeta{Operation: "open", DeviceID: "0"}, func(ctx context.Context, meta CallMeta) error {
		called = true
		if meta.DeviceID != "0" {
			t.Errorf("expected meta to be passed through, got %+v", meta)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !called {
		t.Fatal("wrapped call was not invoked")
	}

	if spanCount() != 1 {
		t.Errorf("expected 1 span, got %d", spanCount())
	}
	rm := collect(t, reader)
	if got := sumValue(t, rm, MetricCallTotal); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}

	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0]["level"] != "debug" || entries[0]["msg"] != "camera call completed" {
		t.Errorf("unexpected log output: %v", entries)
	}
	if entries[0][KeyStatus] != "OK" {
		t.Errorf("expected status OK, got %v", entries[0][KeyStatus])
	}
}

// TestMiddleware_ErrorPath verifies errors are recorded and returned unchanged.
func TestMiddleware_ErrorPath(t *testing.T) {
	var buf bytes.Buffer
	mw, reader, _ := newTestMiddleware(t, &buf)

	wrapped := mw.Wrap(func(context.Context, CallMeta) error {
		return hal.StatusUsers
	})
	err := wrapped(context.Background(), CallMeta{Operation: "open", DeviceID: "1"})
	if !errors.Is(err, hal.StatusUsers) {
		t.Fatalf("expected StatusUsers, got %v", err)
	}

	rm := collect(t, reader)
	if got := sumValue(t, rm, MetricCallErrors); got != 1 {
		t.Errorf("expected 1 error, got %d", got)
	}

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0]["level"] != "warn" || entries[0][KeyStatus] != "EUSERS" {
		t.Errorf("unexpected log entry: %v", entries[0])
	}
	if entries[0][KeyError] != "hal: EUSERS" {
		t.Errorf("expected error field, got %v", entries[0][KeyError])
	}
}

// TestMiddleware_PropagatesSpanContext verifies the wrapped call sees the span.
func TestMiddleware_PropagatesSpanContext(t *testing.T) {
	var buf bytes.Buffer
	mw, _, _ := newTestMiddleware(t, &buf)

	_ = mw.Call(context.Background(), CallMeta{Operation: "camera_info"}, func(ctx context.Context, _ CallMeta) error {
		if !traceSpanValid(ctx) {
			t.Error("expected a valid span in context")
		}
		return nil
	})
}

// TestNoopMiddleware verifies the no-op middleware only invokes the call.
func TestNoopMiddleware(t *testing.T) {
	mw := NoopMiddleware()
	start := time.Now()
	err := mw.Call(context.Background(), CallMeta{Operation: "x"}, func(context.Context, CallMeta) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("no-op middleware should not block")
	}
	if mw.Logger() == nil || mw.Metrics() == nil {
		t.Error("accessors should return no-op components")
	}
}

package exporters

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func noEnv(string) string { return "" }

// TestExporter_UnknownName verifies unknown exporter names fail for both kinds.
func TestExporter_UnknownName(t *testing.T) {
	ctx := context.Background()

	if _, err := NewSpanExporter(ctx, "zipkin", Options{}); !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("NewSpanExporter(zipkin) = %v, want ErrUnknownExporter", err)
	}
	if _, err := NewMetricReader(ctx, "statsd", Options{}); !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("NewMetricReader(statsd) = %v, want ErrUnknownExporter", err)
	}
}

// TestExporter_None verifies "none" and "" disable export.
func TestExporter_None(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"none", ""} {
		exp, err := NewSpanExporter(ctx, name, Options{})
		if err != nil || exp != nil {
			t.Errorf("NewSpanExporter(%q) = %v, %v; want nil, nil", name, exp, err)
		}
		reader, err := NewMetricReader(ctx, name, Options{})
		if err != nil || reader != nil {
			t.Errorf("NewMetricReader(%q) = %v, %v; want nil, nil", name, reader, err)
		}
	}
}

// TestExporter_Stdout verifies stdout exporters honor the configured writer.
func TestExporter_Stdout(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Writer: &buf}

	exp, err := NewSpanExporter(context.Background(), "stdout", opts)
	if err != nil {
		t.Fatalf("failed to create stdout span exporter: %v", err)
	}
	if exp == nil {
		t.Fatal("expected non-nil exporter")
	}

	reader, err := NewMetricReader(context.Background(), "stdout", opts)
	if err != nil {
		t.Fatalf("failed to create stdout metric reader: %v", err)
	}
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
}

// TestExporter_OtlpMissingEndpoint verifies OTLP without endpoint env fails.
func TestExporter_OtlpMissingEndpoint(t *testing.T) {
	opts := Options{Getenv: noEnv}

	if _, err := NewSpanExporter(context.Background(), "otlp", opts); !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("otlp spans = %v, want ErrEndpointNotConfigured", err)
	}
	if _, err := NewSpanExporter(context.Background(), "jaeger", opts); !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("jaeger spans = %v, want ErrEndpointNotConfigured", err)
	}
	if _, err := NewMetricReader(context.Background(), "otlp", opts); !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("otlp metrics = %v, want ErrEndpointNotConfigured", err)
	}
}

// TestExporter_OtlpWithEndpoint verifies OTLP with an endpoint configured succeeds.
func TestExporter_OtlpWithEndpoint(t *testing.T) {
	opts := Options{Getenv: func(key string) string {
		if key == "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT" {
			return "localhost:4317"
		}
		return ""
	}}

	exp, err := NewSpanExporter(context.Background(), "otlp", opts)
	if err != nil {
		t.Fatalf("failed to create OTLP span exporter: %v", err)
	}
	_ = exp.Shutdown(context.Background())
}

// TestExporter_PrometheusCustomRegistry verifies the collector lands in the given registry.
func TestExporter_PrometheusCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	reader, err := NewMetricReader(context.Background(), "prometheus", Options{Registerer: reg})
	if err != nil {
		t.Fatalf("failed to create Prometheus reader: %v", err)
	}
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
}

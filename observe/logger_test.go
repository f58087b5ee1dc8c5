package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/jonwraymond/camhal/hal"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, line)
		}
		entries = append(entries, entry)
	}
	return entries
}

// TestLogger_IncludesCallFields verifies call fields are present in log output.
func TestLogger_IncludesCallFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CallMeta{Operation: "open", DeviceID: "1", Module: "sim"}
	logger.WithCall(meta).Info(context.Background(), "test message")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]

	if entry[KeyOperation] != "open" {
		t.Errorf("expected %s=open, got %v", KeyOperation, entry[KeyOperation])
	}
	if entry[KeyDeviceID] != "1" {
		t.Errorf("expected %s=1, got %v", KeyDeviceID, entry[KeyDeviceID])
	}
	if entry[KeyModule] != "sim" {
		t.Errorf("expected %s=sim, got %v", KeyModule, entry[KeyModule])
	}
	if entry["msg"] != "test message" || entry["level"] != "info" {
		t.Errorf("unexpected msg/level: %v", entry)
	}
	if _, ok := entry["timestamp"].(string); !ok {
		t.Error("expected timestamp field")
	}
}

// TestLogger_OmitsEmptyCallFields verifies module-wide calls carry no device id.
func TestLogger_OmitsEmptyCallFields(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithWriter("info", &buf).WithCall(CallMeta{Operation: "number_of_cameras"}).Info(context.Background(), "m")

	entry := decodeLines(t, &buf)[0]
	if _, ok := entry[KeyDeviceID]; ok {
		t.Errorf("did not expect %s field", KeyDeviceID)
	}
	if _, ok := entry[KeyModule]; ok {
		t.Errorf("did not expect %s field", KeyModule)
	}
}

// TestLogger_LevelFiltering verifies messages below the level are dropped.
func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0]["level"] != "warn" || entries[1]["level"] != "error" {
		t.Errorf("unexpected levels: %v, %v", entries[0]["level"], entries[1]["level"])
	}
}

// TestLogger_ErrorFieldsRendered verifies error values are logged as strings.
func TestLogger_ErrorFieldsRendered(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithWriter("debug", &buf).Error(context.Background(), "failed",
		Field{Key: "err", Value: hal.StatusBusy})

	entry := decodeLines(t, &buf)[0]
	if entry["err"] != "hal: EBUSY" {
		t.Errorf("expected err=hal: EBUSY, got %v", entry["err"])
	}
}

// TestLogger_WithCallDoesNotMutateParent verifies derived loggers are independent.
func TestLogger_WithCallDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	root := NewLoggerWithWriter("info", &buf)
	_ = root.WithCall(CallMeta{Operation: "open", DeviceID: "0"})

	root.Info(context.Background(), "root")
	entry := decodeLines(t, &buf)[0]
	if _, ok := entry[KeyOperation]; ok {
		t.Error("root logger should not carry call fields")
	}
}

// TestLogger_ConcurrentWrites verifies derived loggers never interleave lines.
func TestLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	root := NewLoggerWithWriter("info", &buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l := root.WithCall(CallMeta{Operation: "camera_info"}.Device(i))
			for j := 0; j < 10; j++ {
				l.Info(context.Background(), "line")
			}
		}(i)
	}
	wg.Wait()

	if got := len(decodeLines(t, &buf)); got != 200 {
		t.Errorf("expected 200 lines, got %d", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"":      LevelInfo,
		"bogus": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

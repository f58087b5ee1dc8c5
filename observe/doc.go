// Package observe provides observability primitives for hardware module calls.
//
// It is a pure instrumentation library: tracing spans, OpenTelemetry metrics
// and a JSON structured logger, plus a Middleware that wraps a single call
// with all three. The module adapter owns the wiring; this package never
// talks to a hardware module itself.
package observe

package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/camhal/resilience"
)

// SlotSource reports device slot usage. *resilience.Bulkhead implements it.
type SlotSource interface {
	Metrics() resilience.BulkheadMetrics
}

// CapacityCheckerConfig configures the capacity checker.
type CapacityCheckerConfig struct {
	// WarningThreshold is the share of slots in use that reports degraded.
	// Value should be between 0 and 1. Default: 0.8
	WarningThreshold float64

	// CriticalThreshold is the share of slots in use that reports unhealthy.
	// Value should be between 0 and 1. Default: 1.0
	CriticalThreshold float64
}

// CapacityChecker reports how many device slots are taken.
type CapacityChecker struct {
	source SlotSource
	config CapacityCheckerConfig
}

// NewCapacityChecker creates a new capacity checker.
func NewCapacityChecker(source SlotSource, config CapacityCheckerConfig) *CapacityChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold > 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold > 1 {
		config.CriticalThreshold = 1
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = config.WarningThreshold
	}
	return &CapacityChecker{source: source, config: config}
}

// Name returns the name of this checker.
func (c *CapacityChecker) Name() string { return "capacity" }

// Check performs the capacity check.
func (c *CapacityChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	m := c.source.Metrics()
	if m.MaxConcurrent <= 0 {
		return Healthy("no device slots configured")
	}

	usage := float64(m.Active) / float64(m.MaxConcurrent)
	details := map[string]any{
		"open":          m.Active,
		"max_open":      m.MaxConcurrent,
		"peak_open":     m.MaxActive,
		"rejected":      m.Rejected,
		"usage_percent": usage * 100,
	}

	switch {
	case usage >= c.config.CriticalThreshold:
		return Unhealthy(fmt.Sprintf("device slot usage critical: %d/%d", m.Active, m.MaxConcurrent), ErrCheckFailed).WithDetails(details)
	case usage >= c.config.WarningThreshold:
		return Degraded(fmt.Sprintf("device slots nearly exhausted: %d/%d", m.Active, m.MaxConcurrent)).WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("device slots in use: %d/%d", m.Active, m.MaxConcurrent)).WithDetails(details)
	}
}

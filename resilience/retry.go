package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonwraymond/camhal/hal"
)

// BackoffStrategy defines how delays increase between attempts.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay each attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear increases the delay linearly.
	BackoffLinear
	// BackoffConstant uses the same delay for every attempt.
	BackoffConstant
)

// RetryConfig configures Retry.
type RetryConfig struct {
	// MaxAttempts is the number of attempts including the first.
	// Default: 3
	MaxAttempts int

	// InitialDelay is the delay before the second attempt.
	// Default: 50ms
	InitialDelay time.Duration

	// MaxDelay caps the delay between attempts.
	// Default: 2s
	MaxDelay time.Duration

	// Multiplier is the factor for BackoffExponential.
	// Default: 2.0
	Multiplier float64

	// Strategy is the backoff strategy.
	Strategy BackoffStrategy

	// Jitter adds up to 25% random delay.
	Jitter bool

	// RetryIf decides whether err is worth another attempt.
	// Default: RetryableStatus
	RetryIf func(err error) bool

	// OnRetry is called before each retry.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// RetryableStatus reports whether err carries a status that may clear on
// its own: hal.StatusBusy (device held by another client) or
// hal.StatusUsers (too many devices open).
func RetryableStatus(err error) bool {
	s, ok := hal.StatusOf(err)
	if !ok {
		return false
	}
	return s == hal.StatusBusy || s == hal.StatusUsers
}

// Retry re-runs failed operations with backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 50 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 2 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = RetryableStatus
	}

	return &Retry{config: config}
}

// Execute runs op until it succeeds, returns a non-retryable error or
// runs out of attempts. The last error is returned unchanged.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.config.RetryIf(err) || attempt == r.config.MaxAttempts {
			break
		}

		delay := r.delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

func (r *Retry) delay(attempt int) time.Duration {
	var delay time.Duration

	switch r.config.Strategy {
	case BackoffConstant:
		delay = r.config.InitialDelay
	case BackoffLinear:
		delay = r.config.InitialDelay * time.Duration(attempt)
	default:
		multiplier := math.Pow(r.config.Multiplier, float64(attempt-1))
		delay = time.Duration(float64(r.config.InitialDelay) * multiplier)
	}

	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}

	if r.config.Jitter && delay >= 4 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int64N(int64(delay / 4)))
	}

	return delay
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}

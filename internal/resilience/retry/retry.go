// Package retry is a generic exponential-backoff-with-jitter engine for
// asynchronous calls, notably outbound network requests. It is independent
// of the file-system classifier: retryability is decided from transport
// errors alone.
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/blushlabs/resilience/internal/resilience/metrics"
)

// Config defines retry behavior for a single call.
type Config struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int
	// InitialDelay seeds the exponential backoff.
	InitialDelay time.Duration
	// MaxDelay caps the backoff before jitter is applied.
	MaxDelay time.Duration
	// OnRetry, if set, observes every scheduled retry.
	OnRetry func(attempt int, delay time.Duration, err error)
	// Rand is the jitter source in [0,1). Nil uses math/rand; inject a
	// seeded source for deterministic delay tests.
	Rand func() float64
}

// DefaultConfig provides sensible defaults for network calls.
var DefaultConfig = Config{
	MaxRetries:   3,
	InitialDelay: 1 * time.Second,
	MaxDelay:     30 * time.Second,
}

// Do attempts fn up to 1+MaxRetries times. Non-retryable errors abort after
// exactly one attempt. Between retryable failures it sleeps
// min(InitialDelay*2^(attempt-1), MaxDelay) scaled by a jitter factor in
// [0.8, 1.2): network congestion benefits from attempt desynchronization.
// Exhausting MaxRetries returns the last observed error unchanged, so
// callers can inspect the original transport failure.
func Do[T any](ctx context.Context, cfg Config, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = DefaultConfig.InitialDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultConfig.MaxDelay
	}
	random := cfg.Rand
	if random == nil {
		random = rand.Float64
	}

	var lastErr error
	attempts := cfg.MaxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		metrics.RetryAttempts.Inc()
		value, err := fn(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}

		delay := jitteredDelay(attempt, cfg.InitialDelay, cfg.MaxDelay, random)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay, err)
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	return zero, lastErr
}

func jitteredDelay(attempt int, initial, max time.Duration, random func() float64) time.Duration {
	delay := float64(initial) * math.Pow(2, float64(attempt-1))
	if delay > float64(max) {
		delay = float64(max)
	}
	factor := 0.8 + 0.4*random()
	return time.Duration(delay * factor)
}

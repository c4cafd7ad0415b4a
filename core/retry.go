package core

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryPolicy decides whether and when a failed request should be retried.
// The engine never retries on its own; callers wrap engine calls with
// [Retry] (or their own loop) and a policy.
type RetryPolicy interface {
	// NextDelay returns the pause before the next attempt and whether to
	// retry at all. attempt is the number of attempts completed so far;
	// the first call after the initial failure passes 1.
	NextDelay(attempt int, err error) (delay time.Duration, ok bool)
}

// RetryConfig configures the built-in retry policy.
type RetryConfig struct {
	// MaxAttempts is the total attempt ceiling, including the initial
	// call (default: 3).
	MaxAttempts int

	// BaseDelay is the pause before the first retry (default: 1s).
	BaseDelay time.Duration

	// MaxDelay caps the computed delay (default: 30s). A per-error
	// suggested backoff is honored even above this cap.
	MaxDelay time.Duration

	// Exponential selects exponential backoff (BaseDelay doubling per
	// attempt) over a fixed BaseDelay pause.
	Exponential bool
}

// DefaultRetryPolicy returns the policy used when callers have no special
// requirements: exponential backoff, 3 attempts, 1s base, 30s cap.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Exponential: true,
	})
}

// NewRetryPolicy creates a retry policy from cfg, filling zero fields with
// defaults.
func NewRetryPolicy(cfg RetryConfig) RetryPolicy {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	return &backoffPolicy{cfg: cfg}
}

type backoffPolicy struct {
	cfg RetryConfig
}

func (p *backoffPolicy) NextDelay(attempt int, err error) (time.Duration, bool) {
	if attempt >= p.cfg.MaxAttempts {
		return 0, false
	}
	if !IsRetryable(err) {
		return 0, false
	}

	delay := float64(p.cfg.BaseDelay)
	if p.cfg.Exponential {
		delay *= math.Pow(2, float64(attempt-1))
	}
	if delay > float64(p.cfg.MaxDelay) {
		delay = float64(p.cfg.MaxDelay)
	}

	// The classification table's suggested backoff is a floor: a 60s
	// rate-limit hint wins over a shorter computed delay and the cap.
	if suggested := SuggestedBackoff(err); float64(suggested) > delay {
		return suggested, true
	}
	return time.Duration(delay), true
}

// IsRetryable reports whether err is worth retrying. Context cancellation
// and deadline expiry are never retryable; classified errors answer from
// the taxonomy table.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return false
}

// SuggestedBackoff returns the classified error's backoff hint, or zero
// when err carries none.
func SuggestedBackoff(err error) time.Duration {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.SuggestedBackoff()
	}
	return 0
}

// Retry runs fn until it succeeds, the policy declines, or ctx is done.
// A nil policy means a single attempt. The last error is returned as-is;
// waiting is interrupted by context cancellation.
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if policy == nil {
		return fn(ctx)
	}
	for attempt := 1; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		delay, ok := policy.NextDelay(attempt, err)
		if !ok {
			return zero, err
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}
}

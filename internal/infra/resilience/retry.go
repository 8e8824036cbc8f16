// Package resilience retries fallible calls with bounded exponential backoff.
//
// A call is attempted at most Policy.MaxAttempts times. Failures that the
// policy's RetryCondition rejects end the call immediately. The error handed
// back to the caller is always the one returned by the last attempt.
package resilience

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/vietddude/console/internal/metrics"
)

// Policy defines retry behavior for a single call.
type Policy struct {
	// MaxAttempts is the total attempt budget, including the first call.
	MaxAttempts int
	// RetryDelay is the base backoff unit. Attempt k failing waits RetryDelay * 2^(k-1).
	RetryDelay time.Duration
	// RetryCondition decides which failures consume budget and which fail fast.
	RetryCondition func(err error) bool
}

// DefaultPolicy returns the policy used when callers supply no override.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		RetryDelay:     1 * time.Second,
		RetryCondition: IsRetryableStatus,
	}
}

func (p Policy) normalize() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.RetryDelay < 0 {
		p.RetryDelay = 0
	}
	if p.RetryCondition == nil {
		p.RetryCondition = IsRetryableStatus
	}
	return p
}

// Backoff returns the wait scheduled after the given attempt (1-based) fails.
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 1 || p.RetryDelay <= 0 {
		return 0
	}
	shift := attempt - 1
	if shift >= 62 || p.RetryDelay > time.Duration(math.MaxInt64>>shift) {
		return time.Duration(math.MaxInt64)
	}
	return p.RetryDelay << shift
}

// SleepFunc blocks for d or until ctx is done, returning ctx.Err() in the latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Executor runs operations under a retry policy.
// An Executor holds no per-call state and is safe for concurrent use.
type Executor struct {
	policy Policy
	sleep  SleepFunc
	log    *slog.Logger
	name   string
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used to report retries.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithSleep replaces the backoff wait. Tests use it to observe delays without waiting.
func WithSleep(fn SleepFunc) Option {
	return func(e *Executor) {
		if fn != nil {
			e.sleep = fn
		}
	}
}

// WithName labels the executor's log lines and metrics.
func WithName(name string) Option {
	return func(e *Executor) {
		e.name = name
	}
}

// NewExecutor creates an Executor for the given policy.
func NewExecutor(policy Policy, opts ...Option) *Executor {
	e := &Executor{
		policy: policy.normalize(),
		sleep:  sleepContext,
		log:    slog.Default(),
		name:   "default",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the normalized policy of the executor.
func (e *Executor) Policy() Policy {
	return e.policy
}

// Execute runs op with retries and returns its untyped result.
func (e *Executor) Execute(ctx context.Context, op func(ctx context.Context) (any, error)) (any, error) {
	return Run(ctx, e, op)
}

// Do runs op under policy with a default executor.
func Do[T any](ctx context.Context, policy Policy, op func(ctx context.Context) (T, error)) (T, error) {
	return Run(ctx, NewExecutor(policy), op)
}

// Run runs op with the executor's policy. Attempts are strictly sequential.
//
// If ctx is cancelled while a backoff wait is pending, the pending attempt is
// abandoned and the last operation error is returned.
func Run[T any](ctx context.Context, e *Executor, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	p := e.policy
	var lastErr error

	for attempt := 1; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			metrics.RetryAttempts.WithLabelValues(e.name, metrics.OutcomeSuccess).Inc()
			if attempt > 1 {
				e.log.Debug("Operation succeeded after retry", "operation", e.name, "attempt", attempt)
			}
			return result, nil
		}
		lastErr = err

		if attempt >= p.MaxAttempts {
			metrics.RetryAttempts.WithLabelValues(e.name, metrics.OutcomeExhausted).Inc()
			if p.MaxAttempts > 1 {
				e.log.Warn("Retry budget exhausted",
					"operation", e.name,
					"attempts", attempt,
					"error", lastErr,
				)
			}
			return zero, lastErr
		}

		if !p.RetryCondition(lastErr) {
			metrics.RetryAttempts.WithLabelValues(e.name, metrics.OutcomeNonRetryable).Inc()
			e.log.Debug("Operation failed with non-retryable error",
				"operation", e.name,
				"attempt", attempt,
				"status", StatusCode(lastErr),
				"error", lastErr,
			)
			return zero, lastErr
		}

		delay := p.Backoff(attempt)
		metrics.RetryAttempts.WithLabelValues(e.name, metrics.OutcomeRetry).Inc()
		metrics.RetryBackoff.WithLabelValues(e.name).Observe(delay.Seconds())
		e.log.Warn("Retrying operation",
			"operation", e.name,
			"attempt", attempt,
			"delay", delay,
			"status", StatusCode(lastErr),
			"error", lastErr,
		)

		if err := e.sleep(ctx, delay); err != nil {
			metrics.RetryAttempts.WithLabelValues(e.name, metrics.OutcomeCancelled).Inc()
			return zero, lastErr
		}
	}
}

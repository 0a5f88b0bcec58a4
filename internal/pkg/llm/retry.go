package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultMaxAttempts    = 3
	DefaultAttemptTimeout = 15 * time.Second
	DefaultBackoffStep    = time.Second
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retrier runs an operation with a per-attempt timeout and linear backoff
// (attempt * BackoffStep) between transient failures.
type Retrier struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	BackoffStep    time.Duration
	Limiter        *rate.Limiter
	Sleep          SleepFunc
	Logger         logrus.FieldLogger
}

// ExhaustedError reports the last failure once the retrier gives up.
type ExhaustedError struct {
	Attempts int
	Class    ErrorClass
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempt(s) (%s): %v", e.Attempts, e.Class, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

func (r Retrier) withDefaults() Retrier {
	if r.MaxAttempts <= 0 {
		r.MaxAttempts = DefaultMaxAttempts
	}
	if r.AttemptTimeout <= 0 {
		r.AttemptTimeout = DefaultAttemptTimeout
	}
	if r.BackoffStep <= 0 {
		r.BackoffStep = DefaultBackoffStep
	}
	if r.Sleep == nil {
		r.Sleep = sleepContext
	}
	if r.Logger == nil {
		r.Logger = logrus.StandardLogger()
	}
	return r
}

// Budget is the worst-case wall time of one Do call.
func (r Retrier) Budget() time.Duration {
	r = r.withDefaults()
	n := time.Duration(r.MaxAttempts)
	return n*r.AttemptTimeout + r.BackoffStep*n*(n-1)/2
}

// Do calls fn until it succeeds, fails permanently, or MaxAttempts is reached.
// No sleep follows the final attempt.
func (r Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	r = r.withDefaults()
	log := r.Logger.WithField("op", op)

	var lastErr error
	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		if r.Limiter != nil {
			if err := r.Limiter.Wait(ctx); err != nil {
				return &ExhaustedError{Attempts: attempt - 1, Class: Permanent, Err: err}
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, r.AttemptTimeout)
		err := fn(attemptCtx)
		cancel()
		if err == nil {
			if attempt > 1 {
				log.WithField("attempt", attempt).Info("[LLM] succeeded after retry")
			}
			return nil
		}
		lastErr = err

		class := Classify(err)
		entry := log.WithFields(logrus.Fields{"attempt": attempt, "max_attempts": r.MaxAttempts, "class": class.String()}).WithError(err)
		if class == Permanent {
			entry.Warn("[LLM] permanent failure, not retrying")
			return &ExhaustedError{Attempts: attempt, Class: Permanent, Err: err}
		}
		if attempt == r.MaxAttempts {
			entry.Warn("[LLM] transient failure, attempts exhausted")
			break
		}

		delay := time.Duration(attempt) * r.BackoffStep
		entry.WithField("backoff", delay).Warn("[LLM] transient failure, retrying")
		if err := r.Sleep(ctx, delay); err != nil {
			return &ExhaustedError{Attempts: attempt, Class: Permanent, Err: err}
		}
	}

	return &ExhaustedError{Attempts: r.MaxAttempts, Class: Transient, Err: lastErr}
}

// NewLimiter converts a requests-per-minute budget into a token bucket. rpm <= 0 disables limiting.
func NewLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return nil
	}
	burst := rpm / 10
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

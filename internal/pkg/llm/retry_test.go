package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func newTestRetrier(rec *sleepRecorder) Retrier {
	logger, _ := test.NewNullLogger()
	return Retrier{
		MaxAttempts:    3,
		AttemptTimeout: time.Second,
		BackoffStep:    time.Second,
		Sleep:          rec.sleep,
		Logger:         logger,
	}
}

func TestRetrier_TransientThenSuccess(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0
	err := newTestRetrier(rec).Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("503 overloaded")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d", calls)
	}
	if len(rec.delays) != 2 || rec.delays[0] != time.Second || rec.delays[1] != 2*time.Second {
		t.Fatalf("delays = %v", rec.delays)
	}
}

func TestRetrier_PermanentStopsImmediately(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0
	err := newTestRetrier(rec).Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return errors.New("API key not valid")
	})
	var ex *ExhaustedError
	if !errors.As(err, &ex) || ex.Class != Permanent || ex.Attempts != 1 {
		t.Fatalf("unexpected err: %#v", err)
	}
	if calls != 1 || len(rec.delays) != 0 {
		t.Fatalf("calls=%d delays=%v", calls, rec.delays)
	}
}

func TestRetrier_ExhaustedNoTrailingSleep(t *testing.T) {
	rec := &sleepRecorder{}
	last := errors.New("429 too many requests (3)")
	calls := 0
	err := newTestRetrier(rec).Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		if calls == 3 {
			return last
		}
		return errors.New("429 too many requests")
	})
	var ex *ExhaustedError
	if !errors.As(err, &ex) || ex.Attempts != 3 || ex.Class != Transient {
		t.Fatalf("unexpected err: %#v", err)
	}
	if !errors.Is(err, last) {
		t.Fatalf("expected last error to be wrapped")
	}
	if len(rec.delays) != 2 {
		t.Fatalf("delays = %v", rec.delays)
	}
}

func TestRetrier_AttemptTimeout(t *testing.T) {
	rec := &sleepRecorder{}
	r := newTestRetrier(rec)
	r.AttemptTimeout = 10 * time.Millisecond
	r.MaxAttempts = 2

	calls := 0
	err := r.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		<-ctx.Done()
		return ctx.Err()
	})
	if calls != 2 {
		t.Fatalf("timeouts should be retried, calls = %d", calls)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestRetrier_Budget(t *testing.T) {
	r := Retrier{MaxAttempts: 3, AttemptTimeout: 15 * time.Second, BackoffStep: time.Second}
	if got := r.Budget(); got != 48*time.Second {
		t.Fatalf("Budget = %s", got)
	}
}

func TestNewLimiter(t *testing.T) {
	if NewLimiter(0) != nil {
		t.Fatalf("rpm 0 should disable limiting")
	}
	if l := NewLimiter(60); l == nil || l.Burst() != 6 {
		t.Fatalf("unexpected limiter: %+v", l)
	}
}

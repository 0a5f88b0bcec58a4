package llm

import (
	"context"
	"errors"
	"strings"
)

type ErrorClass int

const (
	Permanent ErrorClass = iota
	Transient
)

func (c ErrorClass) String() string {
	if c == Transient {
		return "transient"
	}
	return "permanent"
}

var ErrNotConfigured = MarkPermanent(errors.New("AI service is not configured"))

type classified struct {
	err   error
	class ErrorClass
}

func (e *classified) Error() string { return e.err.Error() }
func (e *classified) Unwrap() error { return e.err }

// MarkTransient tags err so Classify reports it as retryable regardless of its text.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return &classified{err: err, class: Transient}
}

// MarkPermanent tags err so Classify never retries it.
func MarkPermanent(err error) error {
	if err == nil {
		return nil
	}
	return &classified{err: err, class: Permanent}
}

var transientMarkers = []string{
	"deadline exceeded",
	"timeout",
	"timed out",
	"429",
	"too many requests",
	"rate limit",
	"ratelimit",
	"quota",
	"resource_exhausted",
	"resource exhausted",
	"503",
	"overloaded",
	"service unavailable",
	"unavailable",
}

// Classify maps a generation error to the retry taxonomy. Explicit marks win, then context
// deadlines, then message text. Anything unrecognized is permanent.
func Classify(err error) ErrorClass {
	if err == nil {
		return Permanent
	}
	var c *classified
	if errors.As(err, &c) {
		return c.class
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Transient
	}
	if errors.Is(err, context.Canceled) {
		return Permanent
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return Transient
		}
	}
	return Permanent
}

func IsTransient(err error) bool {
	return Classify(err) == Transient
}

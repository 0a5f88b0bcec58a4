package worker

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_RunsAllJobs(t *testing.T) {
	p := NewPool(3, 0)
	ctx := context.Background()
	results := p.Run(ctx)

	var ran atomic.Int32
	go func() {
		for _, k := range []string{"a", "b", "c", "d"} {
			k := k
			_ = p.Submit(ctx, Job{Key: k, Run: func(ctx context.Context) error {
				ran.Add(1)
				if k == "c" {
					return errors.New("boom")
				}
				return nil
			}})
		}
		p.Close()
	}()

	var keys []string
	failed := 0
	for r := range results {
		keys = append(keys, r.Key)
		if r.Err != nil {
			failed++
		}
	}
	sort.Strings(keys)
	if len(keys) != 4 || keys[0] != "a" || keys[3] != "d" {
		t.Fatalf("keys = %v", keys)
	}
	if failed != 1 || ran.Load() != 4 {
		t.Fatalf("failed=%d ran=%d", failed, ran.Load())
	}
}

func TestPool_SubmitHonorsContext(t *testing.T) {
	p := NewPool(1, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Submit(ctx, Job{Key: "x", Run: func(context.Context) error { return nil }})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error without running workers, got %v", err)
	}
}

func TestPool_RateLimitSpacesJobs(t *testing.T) {
	p := NewPool(1, 2)
	p.SetRateLimit(20)
	ctx := context.Background()

	start := time.Now()
	results := p.Run(ctx)
	for _, k := range []string{"a", "b"} {
		if err := p.Submit(ctx, Job{Key: k, Run: func(context.Context) error { return nil }}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	p.Close()
	for range results {
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Fatalf("two jobs at 20 rps finished in %s", elapsed)
	}
}

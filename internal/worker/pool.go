package worker

import (
	"context"
	"sync"
	"time"
)

// Job is one keyed unit of work.
type Job struct {
	Key string
	Run func(ctx context.Context) error
}

type Result struct {
	Key string
	Err error
}

// Pool runs submitted jobs on a fixed number of goroutines, optionally spacing job starts
// with a requests-per-second ticker.
type Pool struct {
	workers int
	jobs    chan Job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	rate    <-chan time.Time
	ticker  *time.Ticker
}

func NewPool(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, buffer),
	}
}

func (p *Pool) SetRateLimit(rps int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopTickerLocked()
	if rps <= 0 {
		return
	}
	p.ticker = time.NewTicker(time.Second / time.Duration(rps))
	p.rate = p.ticker.C
}

func (p *Pool) stopTickerLocked() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
}

// Submit blocks until a worker or the buffer accepts j, or ctx is done.
func (p *Pool) Submit(ctx context.Context, j Job) error {
	if j.Run == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.jobs <- j:
		return nil
	}
}

// Close stops accepting jobs. Workers drain what was already submitted.
func (p *Pool) Close() {
	close(p.jobs)
}

// Run starts the workers. The returned channel closes after Close has been called and every
// accepted job finished, or ctx is done.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	out := make(chan Result, p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-p.jobs:
					if !ok {
						return
					}
					p.mu.RLock()
					rate := p.rate
					p.mu.RUnlock()
					if rate != nil {
						select {
						case <-ctx.Done():
							return
						case <-rate:
						}
					}
					err := j.Run(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- Result{Key: j.Key, Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		p.mu.Lock()
		p.stopTickerLocked()
		p.mu.Unlock()
		close(out)
	}()

	return out
}

package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"career-crafter/internal/usecase/insight"
	"career-crafter/internal/worker"

	"github.com/sirupsen/logrus"
)

var ErrAlreadyRunning = errors.New("sweep already running")

// Refresher is the part of the insight service the sweep drives.
type Refresher interface {
	ListIndustryKeys(ctx context.Context) ([]string, error)
	Refresh(ctx context.Context, req insight.Request) (insight.Result, error)
}

type Schedule struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

// NextRun returns the first instant at or after now matching s, in now's location.
func NextRun(now time.Time, s Schedule) time.Time {
	hour, minute := s.Hour, s.Minute
	if hour < 0 || hour > 23 {
		hour = 0
	}
	if minute < 0 || minute > 59 {
		minute = 0
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	days := (int(s.Weekday) - int(now.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, days)
	if next.Before(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

type Summary struct {
	Total     int           `json:"total"`
	Refreshed int           `json:"refreshed"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

type Status struct {
	Running     bool      `json:"running"`
	LastRun     time.Time `json:"lastRun"`
	NextRun     time.Time `json:"nextRun"`
	LastSummary Summary   `json:"lastSummary"`
}

// Sweeper force-refreshes every stored industry on a weekly schedule.
type Sweeper struct {
	refresher   Refresher
	schedule    Schedule
	concurrency int
	rps         int
	logger      logrus.FieldLogger
	now         func() time.Time

	mu     sync.Mutex
	status Status
}

func NewSweeper(r Refresher, schedule Schedule, concurrency, rps int, logger logrus.FieldLogger) *Sweeper {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Sweeper{
		refresher:   r,
		schedule:    schedule,
		concurrency: concurrency,
		rps:         rps,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Sweeper) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start runs the sweep loop until ctx is done.
func (s *Sweeper) Start(ctx context.Context) {
	for {
		next := NextRun(s.now(), s.schedule)
		s.mu.Lock()
		s.status.NextRun = next
		s.mu.Unlock()
		s.logger.WithField("next_run", next).Info("[Sweep] scheduled")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("[Sweep] stopped")
			return
		case <-timer.C:
		}

		if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			s.logger.WithError(err).Error("[Sweep] run failed")
		}
		// Step past the minute that just fired.
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Minute):
		}
	}
}

// RunOnce refreshes every known industry key through the pool. Per-key failures are logged
// and counted; stored records are left as they were.
func (s *Sweeper) RunOnce(ctx context.Context) (Summary, error) {
	s.mu.Lock()
	if s.status.Running {
		s.mu.Unlock()
		return Summary{}, ErrAlreadyRunning
	}
	s.status.Running = true
	s.mu.Unlock()

	started := s.now()
	summary, err := s.run(ctx)
	summary.Duration = s.now().Sub(started)

	s.mu.Lock()
	s.status.Running = false
	s.status.LastRun = started
	if err == nil {
		s.status.LastSummary = summary
	}
	s.mu.Unlock()

	if err != nil {
		return summary, err
	}
	s.logger.WithFields(logrus.Fields{
		"total":     summary.Total,
		"refreshed": summary.Refreshed,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
		"duration":  summary.Duration,
	}).Info("[Sweep] completed")
	return summary, nil
}

func (s *Sweeper) run(ctx context.Context) (Summary, error) {
	keys, err := s.refresher.ListIndustryKeys(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Total: len(keys)}
	if len(keys) == 0 {
		return summary, nil
	}

	pool := worker.NewPool(s.concurrency, len(keys))
	pool.SetRateLimit(s.rps)
	results := pool.Run(ctx)

	for _, key := range keys {
		key := key
		err := pool.Submit(ctx, worker.Job{Key: key, Run: func(ctx context.Context) error {
			_, err := s.refresher.Refresh(ctx, insight.Request{IndustryKey: key})
			return err
		}})
		if err != nil {
			break
		}
	}
	pool.Close()

	for r := range results {
		log := s.logger.WithField("industry", r.Key)
		switch {
		case r.Err == nil:
			summary.Refreshed++
		case errors.Is(r.Err, insight.ErrBusy):
			summary.Skipped++
			log.Info("[Sweep] skipped, generation in progress elsewhere")
		default:
			summary.Failed++
			log.WithError(r.Err).Warn("[Sweep] refresh failed, keeping existing record")
		}
	}
	return summary, ctx.Err()
}

package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "career-crafter/internal/domain/insight"
	"career-crafter/internal/pkg/llm"
	"career-crafter/internal/pkg/textutil"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Source tells callers where a record came from.
type Source string

const (
	SourceCache        Source = "cache"
	SourceFresh        Source = "fresh"
	SourceExpiredCache Source = "expired_cache"
	SourcePlaceholder  Source = "placeholder"
)

type Request struct {
	IndustryKey string
	SubIndustry string
	UserSkills  []string
}

func (r Request) normalized() (Request, error) {
	r.IndustryKey = domain.NormalizeKey(r.IndustryKey)
	if r.IndustryKey == "" {
		return Request{}, fmt.Errorf("%w: industry key is required", ErrInvalidInput)
	}
	r.SubIndustry = strings.TrimSpace(r.SubIndustry)
	r.UserSkills = textutil.NormalizeList(r.UserSkills)
	return r, nil
}

type Result struct {
	Record domain.Record
	Source Source
}

// Stale reports whether the record is past its freshness window.
func (r Result) Stale() bool {
	return r.Source == SourceExpiredCache
}

type Policy struct {
	FreshnessWindow   time.Duration
	DefaultGrowthRate float64
	Market            string
	Currency          string
	// AllowPlaceholder serves a labeled placeholder instead of failing when nothing is cached.
	AllowPlaceholder bool
}

func (p Policy) withDefaults() Policy {
	if p.FreshnessWindow <= 0 {
		p.FreshnessWindow = 7 * 24 * time.Hour
	}
	if p.DefaultGrowthRate == 0 {
		p.DefaultGrowthRate = domain.DefaultGrowthRate
	}
	if strings.TrimSpace(p.Market) == "" {
		p.Market = "India"
	}
	if strings.TrimSpace(p.Currency) == "" {
		p.Currency = "INR"
	}
	return p
}

// Locker takes a cross-process "generation in progress" marker.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool)
}

// Notifier is told about every newly generated record.
type Notifier interface {
	InsightsUpdated(industryKey string, source string)
}

type Option func(*Service)

func WithLocker(l Locker) Option {
	return func(s *Service) { s.locker = l }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service is the insight cache refresher.
type Service struct {
	repo     domain.Repository
	gen      llm.TextGenerator
	retrier  llm.Retrier
	policy   Policy
	locker   Locker
	notifier Notifier
	logger   logrus.FieldLogger
	now      func() time.Time

	flights singleflight.Group
}

func NewService(repo domain.Repository, gen llm.TextGenerator, retrier llm.Retrier, policy Policy, logger logrus.FieldLogger, opts ...Option) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if retrier.Logger == nil {
		retrier.Logger = logger
	}
	s := &Service{
		repo:    repo,
		gen:     gen,
		retrier: retrier,
		policy:  policy.withDefaults(),
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) FreshnessWindow() time.Duration {
	return s.policy.FreshnessWindow
}

// GetInsights returns the cached record while it is fresh, otherwise regenerates it. When
// generation fails a stale record is still served; with nothing cached the call fails with
// ErrGenerationUnavailable.
func (s *Service) GetInsights(ctx context.Context, req Request) (Result, error) {
	req, err := req.normalized()
	if err != nil {
		return Result{}, err
	}

	if cached, ok := s.lookup(ctx, req.IndustryKey); ok && cached.IsFresh(s.now(), s.policy.FreshnessWindow) {
		return Result{Record: cached, Source: SourceCache}, nil
	}

	return s.shared(ctx, "get:"+req.IndustryKey, func(fctx context.Context) (Result, error) {
		return s.refreshStale(fctx, req)
	})
}

// flightSlack covers store I/O and limiter waits on top of the retry budget.
const flightSlack = 5 * time.Second

// shared runs fn once per key for all concurrent callers. fn runs on a context detached from
// the caller that started it and bounded by the retry budget. Each caller returns as soon as
// its own ctx is done.
func (s *Service) shared(ctx context.Context, key string, fn func(context.Context) (Result, error)) (Result, error) {
	ch := s.flights.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.retrier.Budget()+flightSlack)
		defer cancel()
		return fn(fctx)
	})
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Result{}, r.Err
		}
		return r.Val.(Result), nil
	}
}

func (s *Service) refreshStale(ctx context.Context, req Request) (Result, error) {
	log := s.logger.WithField("industry", req.IndustryKey)

	// Re-read: a previous flight may have refreshed the key since the caller looked.
	cached, found := s.lookup(ctx, req.IndustryKey)
	if found && cached.IsFresh(s.now(), s.policy.FreshnessWindow) {
		return Result{Record: cached, Source: SourceCache}, nil
	}

	release, ok := s.acquire(ctx, req.IndustryKey)
	if !ok {
		if found {
			log.Info("[Insights] generation in progress elsewhere, serving expired cache")
			return Result{Record: cached, Source: SourceExpiredCache}, nil
		}
		log.Info("[Insights] generation in progress elsewhere, nothing cached, generating anyway")
	}
	defer release()

	rec, genErr := s.generate(ctx, req)
	if genErr != nil {
		if found {
			log.WithError(genErr).Warn("[Insights] generation failed, serving expired cache")
			return Result{Record: cached, Source: SourceExpiredCache}, nil
		}
		if s.policy.AllowPlaceholder {
			log.WithError(genErr).Warn("[Insights] generation failed, serving placeholder")
			return Result{Record: s.Placeholder(req.IndustryKey), Source: SourcePlaceholder}, nil
		}
		log.WithError(genErr).Error("[Insights] generation failed and nothing is cached")
		return Result{}, genErr
	}

	s.persist(ctx, rec)
	return Result{Record: rec, Source: SourceFresh}, nil
}

// Refresh regenerates key regardless of freshness and overwrites the stored record. It returns
// ErrBusy when another instance is already generating the key. Existing records are never
// touched on failure.
func (s *Service) Refresh(ctx context.Context, req Request) (Result, error) {
	req, err := req.normalized()
	if err != nil {
		return Result{}, err
	}

	return s.shared(ctx, "refresh:"+req.IndustryKey, func(fctx context.Context) (Result, error) {
		release, ok := s.acquire(fctx, req.IndustryKey)
		if !ok {
			return Result{}, ErrBusy
		}
		defer release()
		return s.generateAndStore(fctx, req)
	})
}

// Regenerate is the admin override of Refresh: it ignores any generation marker. The stored
// record is only replaced after generation succeeds.
func (s *Service) Regenerate(ctx context.Context, req Request) (Result, error) {
	req, err := req.normalized()
	if err != nil {
		return Result{}, err
	}
	s.logger.WithField("industry", req.IndustryKey).Info("[Insights] forced regeneration")
	return s.generateAndStore(ctx, req)
}

func (s *Service) generateAndStore(ctx context.Context, req Request) (Result, error) {
	rec, err := s.generate(ctx, req)
	if err != nil {
		return Result{}, err
	}
	s.persist(ctx, rec)
	return Result{Record: rec, Source: SourceFresh}, nil
}

func (s *Service) Delete(ctx context.Context, industryKey string) error {
	key := domain.NormalizeKey(industryKey)
	if key == "" {
		return fmt.Errorf("%w: industry key is required", ErrInvalidInput)
	}
	if err := s.repo.DeleteByKey(ctx, key); err != nil {
		return err
	}
	s.logger.WithField("industry", key).Info("[Insights] deleted")
	return nil
}

func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.WithField("count", n).Warn("[Insights] cleared all records")
	return n, nil
}

func (s *Service) ListIndustryKeys(ctx context.Context) ([]string, error) {
	return s.repo.ListKeys(ctx)
}

// Placeholder returns the labeled generic record for label. It is never persisted.
func (s *Service) Placeholder(label string) domain.Record {
	return domain.Placeholder(strings.TrimSpace(label), s.now(), s.policy.FreshnessWindow)
}

func (s *Service) lookup(ctx context.Context, key string) (domain.Record, bool) {
	rec, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WithField("industry", key).WithError(fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)).
				Warn("[Insights] store read failed, treating as miss")
		}
		return domain.Record{}, false
	}
	return rec, true
}

func (s *Service) persist(ctx context.Context, rec domain.Record) {
	if err := s.repo.Upsert(ctx, rec); err != nil {
		s.logger.WithField("industry", rec.IndustryKey).WithError(fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)).
			Warn("[Insights] store write failed, returning unsaved record")
	} else {
		s.logger.WithFields(logrus.Fields{"industry": rec.IndustryKey, "next_update": rec.NextUpdate}).Info("[Insights] refreshed")
	}
	if s.notifier != nil {
		s.notifier.InsightsUpdated(rec.IndustryKey, string(SourceFresh))
	}
}

func (s *Service) acquire(ctx context.Context, key string) (func(), bool) {
	if s.locker == nil {
		return func() {}, true
	}
	release, ok := s.locker.Acquire(ctx, LockKey(key), s.retrier.Budget())
	if release == nil {
		release = func() {}
	}
	return release, ok
}

func LockKey(industryKey string) string {
	return "insights:lock:" + domain.NormalizeKey(industryKey)
}

func (s *Service) generate(ctx context.Context, req Request) (domain.Record, error) {
	prompt := BuildPrompt(req, s.policy)

	var rec domain.Record
	err := s.retrier.Do(ctx, "insights.generate", func(ctx context.Context) error {
		text, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		parsed, err := ParseRecord(text, req.IndustryKey, s.policy.DefaultGrowthRate)
		if err != nil {
			return llm.MarkPermanent(err)
		}
		rec = parsed
		return nil
	})
	if err != nil {
		var ex *llm.ExhaustedError
		if errors.As(err, &ex) {
			return domain.Record{}, fmt.Errorf("%w: %w", ErrGenerationUnavailable, ex.Err)
		}
		return domain.Record{}, fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}

	rec.Stamp(s.now(), s.policy.FreshnessWindow)
	return rec, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"career-crafter/internal/config"
	"career-crafter/internal/database/migration"
	dbpostgres "career-crafter/internal/database/postgres"
	"career-crafter/internal/infrastructure/cache"
	"career-crafter/internal/infrastructure/gemini"
	"career-crafter/internal/pkg/jwt"
	"career-crafter/internal/pkg/llm"
	"career-crafter/internal/repository"
	"career-crafter/internal/scheduler"
	coverletteruc "career-crafter/internal/usecase/coverletter"
	"career-crafter/internal/usecase/insight"
	"career-crafter/internal/usecase/interview"
	resumeuc "career-crafter/internal/usecase/resume"
	useruc "career-crafter/internal/usecase/user"
	"career-crafter/internal/ws"

	"github.com/sirupsen/logrus"
)

// Container owns every long-lived dependency of the process.
type Container struct {
	Config config.Config
	Logger logrus.FieldLogger

	DB        *dbpostgres.Pool
	Redis     *cache.Redis
	Generator llm.TextGenerator
	JWT       *jwt.HMACService
	Hub       *ws.Hub

	Insights     *insight.Service
	Users        *useruc.Service
	Resumes      *resumeuc.Service
	CoverLetters *coverletteruc.Service
	Interviews   *interview.Service
	Sweeper      *scheduler.Sweeper
}

func NewContainer(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Container, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	gen, err := gemini.New(ctx, cfg.GenAI, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	c := &Container{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Redis:     cache.NewRedis(cfg.Redis, logger),
		Generator: gen,
		JWT:       jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiresIn),
		Hub:       ws.NewHub(logger),
	}
	c.wire()
	return c, nil
}

func (c *Container) wire() {
	cfg := c.Config

	// One limiter for the whole process: every feature spends the same provider quota.
	retrier := llm.Retrier{
		MaxAttempts:    cfg.Insights.MaxAttempts,
		AttemptTimeout: cfg.Insights.AttemptTimeout,
		BackoffStep:    cfg.Insights.BackoffStep,
		Limiter:        llm.NewLimiter(cfg.GenAI.RequestsPerMinute),
		Logger:         c.Logger,
	}

	userRepo := repository.NewPostgresUserRepository(c.DB)
	resumeRepo := repository.NewPostgresResumeRepository(c.DB)
	insightRepo := cache.NewInsightRepository(repository.NewPostgresInsightRepository(c.DB), c.Redis, cfg.Redis.TTL, c.Logger)

	c.Insights = insight.NewService(insightRepo, c.Generator, retrier, insight.Policy{
		FreshnessWindow:   cfg.Insights.FreshnessWindow,
		DefaultGrowthRate: cfg.Insights.DefaultGrowthRate,
		Market:            cfg.Insights.Market,
		Currency:          cfg.Insights.Currency,
		AllowPlaceholder:  cfg.Insights.AllowPlaceholder,
	}, c.Logger, insight.WithLocker(c.Redis), insight.WithNotifier(c.Hub))

	c.Users = useruc.NewService(userRepo, c.Insights, c.Logger)
	c.Resumes = resumeuc.NewService(resumeRepo, userRepo, c.Generator, retrier, c.Logger)
	c.CoverLetters = coverletteruc.NewService(repository.NewPostgresCoverLetterRepository(c.DB), userRepo, resumeRepo, c.Generator, retrier, c.Logger)
	c.Interviews = interview.NewService(repository.NewPostgresAssessmentRepository(c.DB), userRepo, c.Generator, retrier, c.Logger)

	c.Sweeper = scheduler.NewSweeper(c.Insights, scheduler.Schedule{
		Weekday: cfg.Sweep.Weekday,
		Hour:    cfg.Sweep.Hour,
		Minute:  cfg.Sweep.Minute,
	}, cfg.Sweep.Concurrency, cfg.Sweep.RequestsPerSecond, c.Logger)
}

// Migrate applies the embedded schema migrations.
func (c *Container) Migrate(ctx context.Context) (int, error) {
	n, err := migration.Runner{FS: migration.Embedded(), Logger: c.Logger}.Run(ctx, c.DB.SQLDB())
	if err != nil {
		return n, fmt.Errorf("run migrations: %w", err)
	}
	return n, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}

package cache

import (
	"context"
	"time"

	"career-crafter/internal/domain/insight"

	"github.com/sirupsen/logrus"
)

const insightKeyPrefix = "insights:record:"

func InsightKey(industryKey string) string {
	return insightKeyPrefix + insight.NormalizeKey(industryKey)
}

// JSONStore is the slice of Redis the insight layer needs. *Redis implements it.
type JSONStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// InsightRepository is a read-through Redis layer in front of the durable insight store.
// Redis failures never fail a call; the inner repository stays the source of truth.
type InsightRepository struct {
	inner  insight.Repository
	redis  JSONStore
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewInsightRepository(inner insight.Repository, redis JSONStore, ttl time.Duration, logger logrus.FieldLogger) *InsightRepository {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &InsightRepository{inner: inner, redis: redis, ttl: ttl, logger: logger}
}

func (c *InsightRepository) FindByKey(ctx context.Context, key string) (insight.Record, error) {
	var rec insight.Record
	if ok, err := c.redis.GetJSON(ctx, InsightKey(key), &rec); err == nil && ok {
		return rec, nil
	}

	rec, err := c.inner.FindByKey(ctx, key)
	if err != nil {
		return insight.Record{}, err
	}
	if err := c.redis.SetJSON(ctx, InsightKey(key), rec, c.ttl); err != nil {
		c.logger.WithField("industry", key).WithError(err).Debug("[Cache] insight write-back failed")
	}
	return rec, nil
}

func (c *InsightRepository) Upsert(ctx context.Context, r insight.Record) error {
	if err := c.inner.Upsert(ctx, r); err != nil {
		_ = c.redis.Delete(ctx, InsightKey(r.IndustryKey))
		return err
	}
	if err := c.redis.SetJSON(ctx, InsightKey(r.IndustryKey), r, c.ttl); err != nil {
		_ = c.redis.Delete(ctx, InsightKey(r.IndustryKey))
	}
	return nil
}

func (c *InsightRepository) DeleteByKey(ctx context.Context, key string) error {
	err := c.inner.DeleteByKey(ctx, key)
	_ = c.redis.Delete(ctx, InsightKey(key))
	return err
}

func (c *InsightRepository) DeleteAll(ctx context.Context) (int64, error) {
	n, err := c.inner.DeleteAll(ctx)
	if derr := c.redis.DeleteByPattern(ctx, insightKeyPrefix+"*"); derr != nil {
		c.logger.WithError(derr).Warn("[Cache] insight invalidation failed")
	}
	return n, err
}

func (c *InsightRepository) ListKeys(ctx context.Context) ([]string, error) {
	return c.inner.ListKeys(ctx)
}

package insight

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("industry insight not found")

type Repository interface {
	FindByKey(ctx context.Context, key string) (Record, error)
	Upsert(ctx context.Context, r Record) error
	DeleteByKey(ctx context.Context, key string) error
	DeleteAll(ctx context.Context) (int64, error)
	ListKeys(ctx context.Context) ([]string, error)
}

package resume

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resume not found")

type Resume struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Content   string
	ATSScore  *float64
	Feedback  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Resume, error)
	Upsert(ctx context.Context, userID uuid.UUID, content string) (Resume, error)
}

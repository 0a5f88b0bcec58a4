package coverletter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("cover letter not found")

const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
)

type CoverLetter struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Content        string
	JobDescription string
	CompanyName    string
	JobTitle       string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Repository interface {
	Create(ctx context.Context, c CoverLetter) (CoverLetter, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]CoverLetter, error)
	// GetForUser returns ErrNotFound when id belongs to another user.
	GetForUser(ctx context.Context, userID, id uuid.UUID) (CoverLetter, error)
}

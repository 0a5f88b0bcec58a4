package user

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrProfileIncomplete means the user has not picked an industry yet.
	ErrProfileIncomplete = errors.New("profile incomplete")
)

type Repository interface {
	GetByExternalID(ctx context.Context, externalID string) (User, error)
	// EnsureByExternalID returns the existing user or creates one from id.
	EnsureByExternalID(ctx context.Context, id Identity) (User, error)
	UpdateProfile(ctx context.Context, externalID string, p ProfileUpdate) (User, error)
}

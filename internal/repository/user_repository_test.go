package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"career-crafter/internal/domain/user"

	"github.com/google/uuid"
)

func userRow(ext string, industry *string) fakeRow {
	now := time.Now()
	return fakeRow{vals: []any{
		uuid.New(), ext, "a@b.c", "Ann", "", industry, "", "", 0, []string{}, now, now,
	}}
}

func TestUserRepository_EnsureByExternalID(t *testing.T) {
	db := &fakeDB{execN: 1, row: userRow("user_1", nil)}
	repo := NewPostgresUserRepository(db)

	u, err := repo.EnsureByExternalID(context.Background(), user.Identity{ExternalUserID: " user_1 ", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.ExternalUserID != "user_1" || u.IsOnboarded() {
		t.Fatalf("unexpected user: %+v", u)
	}
	if !strings.Contains(db.calls[0].query, "on conflict (external_user_id) do nothing") {
		t.Fatalf("insert must be idempotent: %s", db.calls[0].query)
	}
}

func TestUserRepository_UpdateProfileNotFound(t *testing.T) {
	repo := NewPostgresUserRepository(&fakeDB{row: fakeRow{err: errNoRows}})
	_, err := repo.UpdateProfile(context.Background(), "nobody", user.ProfileUpdate{Industry: "tech"})
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_UpdateProfileNilSkills(t *testing.T) {
	industry := "tech"
	db := &fakeDB{row: userRow("user_1", &industry)}
	repo := NewPostgresUserRepository(db)

	u, err := repo.UpdateProfile(context.Background(), "user_1", user.ProfileUpdate{Industry: industry})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !u.IsOnboarded() || u.IndustryKey() != "tech" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if skills, ok := db.lastCall().args[5].([]string); !ok || skills == nil {
		t.Fatalf("skills must be a non-nil slice: %#v", db.lastCall().args[5])
	}
}

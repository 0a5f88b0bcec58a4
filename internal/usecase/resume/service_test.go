package resume

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "career-crafter/internal/domain/resume"
	"career-crafter/internal/domain/user"
	"career-crafter/internal/pkg/llm"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
)

type mockUsers struct {
	users map[string]user.User
}

func (m *mockUsers) GetByExternalID(ctx context.Context, externalID string) (user.User, error) {
	u, ok := m.users[externalID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

type mockResumes struct {
	byUser map[uuid.UUID]domain.Resume
}

func (m *mockResumes) GetByUserID(ctx context.Context, userID uuid.UUID) (domain.Resume, error) {
	r, ok := m.byUser[userID]
	if !ok {
		return domain.Resume{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockResumes) Upsert(ctx context.Context, userID uuid.UUID, content string) (domain.Resume, error) {
	r := m.byUser[userID]
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.UserID = userID
	r.Content = content
	m.byUser[userID] = r
	return r, nil
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func setup(gen llm.TextGenerator) (*Service, *mockResumes, user.User) {
	industry := "tech-software-development"
	u := user.User{ID: uuid.New(), ExternalUserID: "u1", Industry: &industry}
	users := &mockUsers{users: map[string]user.User{"u1": u}}
	resumes := &mockResumes{byUser: map[uuid.UUID]domain.Resume{}}
	logger, _ := test.NewNullLogger()
	svc := NewService(resumes, users, gen, llm.Retrier{Sleep: noSleep}, logger)
	return svc, resumes, u
}

func TestGet_NoResumeReturnsNil(t *testing.T) {
	svc, _, _ := setup(nil)
	r, err := svc.Get(context.Background(), "u1")
	if err != nil || r != nil {
		t.Fatalf("expected nil resume, got %+v, %v", r, err)
	}
}

func TestSave_Upserts(t *testing.T) {
	svc, resumes, u := setup(nil)
	ctx := context.Background()

	first, err := svc.Save(ctx, "u1", "# Ada")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := svc.Save(ctx, "u1", "# Ada Lovelace")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if first.ID != second.ID || resumes.byUser[u.ID].Content != "# Ada Lovelace" {
		t.Fatalf("expected single resume per user, got %+v", resumes.byUser)
	}
	if _, err := svc.Save(ctx, "u1", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Save(ctx, "ghost", "x"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected user.ErrNotFound, got %v", err)
	}
}

func TestImprove_RetriesTransientAndUsesIndustry(t *testing.T) {
	calls := 0
	var prompt string
	gen := llm.GeneratorFunc(func(ctx context.Context, p string) (string, error) {
		calls++
		prompt = p
		if calls == 1 {
			return "", errors.New("503 overloaded")
		}
		return "```\nLed migration of 12 services\n```", nil
	})
	svc, _, _ := setup(gen)

	out, err := svc.Improve(context.Background(), "u1", "did migrations", "experience")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != "Led migration of 12 services" {
		t.Fatalf("out = %q", out)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if !strings.Contains(prompt, "tech-software-development professional") || !strings.Contains(prompt, "experience description") {
		t.Fatalf("prompt missing context: %s", prompt)
	}
}

func TestImprove_SurfacesMisconfiguration(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, p string) (string, error) {
		return "", llm.ErrNotConfigured
	})
	svc, _, _ := setup(gen)
	_, err := svc.Improve(context.Background(), "u1", "x", "summary")
	if !errors.Is(err, llm.ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
}

func TestImprove_Validation(t *testing.T) {
	svc, _, _ := setup(nil)
	if _, err := svc.Improve(context.Background(), "u1", "", "summary"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Improve(context.Background(), "u1", strings.Repeat("a", MaxImproveInput+1), "summary"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for long input, got %v", err)
	}
}

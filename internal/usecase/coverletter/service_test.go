package coverletter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "career-crafter/internal/domain/coverletter"
	"career-crafter/internal/domain/resume"
	"career-crafter/internal/domain/user"
	"career-crafter/internal/pkg/llm"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
)

type mockUsers struct{ users map[string]user.User }

func (m *mockUsers) GetByExternalID(ctx context.Context, externalID string) (user.User, error) {
	u, ok := m.users[externalID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

type mockResumes struct {
	r   resume.Resume
	err error
}

func (m *mockResumes) GetByUserID(ctx context.Context, userID uuid.UUID) (resume.Resume, error) {
	return m.r, m.err
}

type mockLetters struct {
	created []domain.CoverLetter
}

func (m *mockLetters) Create(ctx context.Context, c domain.CoverLetter) (domain.CoverLetter, error) {
	c.ID = uuid.New()
	m.created = append(m.created, c)
	return c, nil
}

func (m *mockLetters) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CoverLetter, error) {
	var out []domain.CoverLetter
	for i := len(m.created) - 1; i >= 0; i-- {
		if m.created[i].UserID == userID {
			out = append(out, m.created[i])
		}
	}
	return out, nil
}

func (m *mockLetters) GetForUser(ctx context.Context, userID, id uuid.UUID) (domain.CoverLetter, error) {
	for _, c := range m.created {
		if c.ID == id && c.UserID == userID {
			return c, nil
		}
	}
	return domain.CoverLetter{}, domain.ErrNotFound
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func fixture(gen llm.TextGenerator, resumes *mockResumes) (*Service, *mockLetters) {
	industry := "tech-software-development"
	users := &mockUsers{users: map[string]user.User{
		"u1": {ID: uuid.New(), ExternalUserID: "u1", Name: "Ada", Industry: &industry, Experience: 5, Skills: []string{"Go", "SQL"}},
		"u2": {ID: uuid.New(), ExternalUserID: "u2"},
	}}
	letters := &mockLetters{}
	var rl ResumeLookup
	if resumes != nil {
		rl = resumes
	}
	logger, _ := test.NewNullLogger()
	svc := NewService(letters, users, rl, gen, llm.Retrier{Sleep: noSleep}, logger)
	svc.now = func() time.Time { return time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC) }
	return svc, letters
}

func validInput() GenerateInput {
	return GenerateInput{
		CompanyName:    "Acme",
		JobTitle:       "Backend Engineer",
		JobDescription: "Build APIs in Go",
		Contact:        ContactInfo{FullName: "Ada Lovelace", Email: "ada@example.com", Phone: " "},
	}
}

func TestContactInfoLines(t *testing.T) {
	got := ContactInfo{FullName: "Ada", Phone: "  ", Email: "a@b.c", LinkedIn: "in/ada"}.Lines()
	want := []string{"Ada", "a@b.c", "in/ada"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Lines = %v, want %v", got, want)
	}
}

func TestGenerate_PromptCarriesContextAndDate(t *testing.T) {
	var prompt string
	gen := llm.GeneratorFunc(func(ctx context.Context, p string) (string, error) {
		prompt = p
		return "Dear Hiring Manager,\n...", nil
	})
	svc, letters := fixture(gen, &mockResumes{r: resume.Resume{Content: "## Summary\nGo developer"}})

	out, err := svc.Generate(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.HasPrefix(out, "Dear Hiring Manager") {
		t.Fatalf("out = %q", out)
	}
	for _, want := range []string{"March 5, 2026", "Ada Lovelace\nada@example.com", "Industry: tech-software-development", "Experience: 5 years", "Go developer", "\"Acme\""} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if len(letters.created) != 0 {
		t.Fatalf("generate must not persist")
	}
}

func TestGenerate_ResumeLookupFailureIsNotFatal(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, p string) (string, error) { return "letter", nil })
	svc, _ := fixture(gen, &mockResumes{err: errors.New("db down")})
	if _, err := svc.Generate(context.Background(), "u1", validInput()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestGenerate_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"bad key", errors.New("Error 400, Message: API key not valid"), llm.ErrMisconfigured},
		{"quota", errors.New("429 quota exceeded"), llm.ErrUnavailable},
	}
	for _, tc := range cases {
		gen := llm.GeneratorFunc(func(ctx context.Context, p string) (string, error) { return "", tc.err })
		svc, _ := fixture(gen, &mockResumes{err: resume.ErrNotFound})
		_, err := svc.Generate(context.Background(), "u1", validInput())
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestGenerate_Validation(t *testing.T) {
	svc, _ := fixture(nil, nil)
	in := validInput()
	in.JobDescription = "  "
	if _, err := svc.Generate(context.Background(), "u1", in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSaveListGet_Ownership(t *testing.T) {
	svc, _ := fixture(nil, nil)
	ctx := context.Background()

	first, err := svc.Save(ctx, "u1", SaveInput{CompanyName: "Acme", JobTitle: "Engineer", Content: "one"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if first.Status != domain.StatusCompleted {
		t.Fatalf("status = %q", first.Status)
	}
	second, _ := svc.Save(ctx, "u1", SaveInput{CompanyName: "Globex", JobTitle: "Engineer", Content: "two"})

	list, err := svc.List(ctx, "u1")
	if err != nil || len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("list = %+v, %v", list, err)
	}

	if _, err := svc.Get(ctx, "u2", first.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("other user's letter should be not found, got %v", err)
	}
	got, err := svc.Get(ctx, "u1", first.ID)
	if err != nil || got.Content != "one" {
		t.Fatalf("get = %+v, %v", got, err)
	}

	if _, err := svc.Save(ctx, "u1", SaveInput{CompanyName: "Acme", JobTitle: "Engineer"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

package resume

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "career-crafter/internal/domain/resume"
	"career-crafter/internal/domain/user"
	"career-crafter/internal/pkg/llm"

	"github.com/sirupsen/logrus"
)

const MaxImproveInput = 4000

var ErrInvalidInput = errors.New("invalid input")

// UserLookup resolves the authenticated caller to a local profile.
type UserLookup interface {
	GetByExternalID(ctx context.Context, externalID string) (user.User, error)
}

type Service struct {
	resumes domain.Repository
	users   UserLookup
	gen     llm.TextGenerator
	retrier llm.Retrier
	logger  logrus.FieldLogger
}

func NewService(resumes domain.Repository, users UserLookup, gen llm.TextGenerator, retrier llm.Retrier, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if retrier.Logger == nil {
		retrier.Logger = logger
	}
	return &Service{resumes: resumes, users: users, gen: gen, retrier: retrier, logger: logger}
}

// Get returns the caller's resume, or nil when none was saved yet.
func (s *Service) Get(ctx context.Context, externalID string) (*domain.Resume, error) {
	usr, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	r, err := s.resumes.GetByUserID(ctx, usr.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (s *Service) Save(ctx context.Context, externalID, content string) (domain.Resume, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Resume{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	usr, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return domain.Resume{}, err
	}
	r, err := s.resumes.Upsert(ctx, usr.ID, content)
	if err != nil {
		return domain.Resume{}, err
	}
	s.logger.WithField("user_id", usr.ID).Info("[Resume] saved")
	return r, nil
}

// Improve rewrites one resume section for the caller's industry.
func (s *Service) Improve(ctx context.Context, externalID, current, sectionType string) (string, error) {
	current = strings.TrimSpace(current)
	sectionType = strings.TrimSpace(sectionType)
	if current == "" || sectionType == "" {
		return "", fmt.Errorf("%w: current and type are required", ErrInvalidInput)
	}
	if len([]rune(current)) > MaxImproveInput {
		return "", fmt.Errorf("%w: content must be at most %d characters", ErrInvalidInput, MaxImproveInput)
	}
	usr, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return "", err
	}

	prompt := improvePrompt(usr.IndustryKey(), sectionType, current)
	var out string
	err = s.retrier.Do(ctx, "resume.improve", func(ctx context.Context) error {
		text, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		out = llm.StripCodeFences(text)
		return nil
	})
	if err != nil {
		return "", llm.Surface(err)
	}
	return out, nil
}

func improvePrompt(industry, sectionType, current string) string {
	if industry == "" {
		industry = "general"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "As an expert resume writer, improve the following %s description for a %s professional.\n", sectionType, industry)
	b.WriteString("Make it more impactful, quantifiable and ATS-friendly, in line with industry standards.\n")
	fmt.Fprintf(&b, "Current content: %q\n\n", current)
	b.WriteString(`Requirements:
1. Use action verbs
2. Use specific numbers and metrics where possible
3. Highlight relevant technical skills and tools
4. Keep it concise
5. Keep the language and tone of the current content
6. Focus on results and achievements rather than responsibilities
7. Use industry specific keywords
8. Do not add information that is not relevant to the role

Return only the improved text.`)
	return b.String()
}

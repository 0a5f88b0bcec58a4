package coverletter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "career-crafter/internal/domain/coverletter"
	"career-crafter/internal/domain/resume"
	"career-crafter/internal/domain/user"
	"career-crafter/internal/pkg/llm"
	"career-crafter/internal/pkg/textutil"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DateLayout          = "January 2, 2006"
	resumeExcerptLength = 600
)

var ErrInvalidInput = errors.New("invalid input")

type UserLookup interface {
	GetByExternalID(ctx context.Context, externalID string) (user.User, error)
}

type ResumeLookup interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (resume.Resume, error)
}

type ContactInfo struct {
	FullName string `json:"fullName"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedIn"`
}

// Lines returns the non-empty contact fields in letterhead order.
func (c ContactInfo) Lines() []string {
	var out []string
	for _, v := range []string{c.FullName, c.Location, c.Phone, c.Email, c.LinkedIn} {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

type GenerateInput struct {
	CompanyName    string
	JobTitle       string
	JobDescription string
	Contact        ContactInfo
}

type SaveInput struct {
	CompanyName    string
	JobTitle       string
	JobDescription string
	Content        string
}

type Service struct {
	letters domain.Repository
	users   UserLookup
	resumes ResumeLookup
	gen     llm.TextGenerator
	retrier llm.Retrier
	logger  logrus.FieldLogger
	now     func() time.Time
}

func NewService(letters domain.Repository, users UserLookup, resumes ResumeLookup, gen llm.TextGenerator, retrier llm.Retrier, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if retrier.Logger == nil {
		retrier.Logger = logger
	}
	return &Service{letters: letters, users: users, resumes: resumes, gen: gen, retrier: retrier, logger: logger, now: time.Now}
}

// Generate drafts a cover letter. Nothing is stored; the client saves the edited text.
func (s *Service) Generate(ctx context.Context, externalID string, in GenerateInput) (string, error) {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	in.JobDescription = strings.TrimSpace(in.JobDescription)
	if in.CompanyName == "" || in.JobTitle == "" || in.JobDescription == "" {
		return "", fmt.Errorf("%w: companyName, jobTitle and jobDescription are required", ErrInvalidInput)
	}

	usr, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return "", err
	}
	excerpt := ""
	if s.resumes != nil {
		r, err := s.resumes.GetByUserID(ctx, usr.ID)
		switch {
		case err == nil:
			excerpt = textutil.Truncate(strings.TrimSpace(r.Content), resumeExcerptLength)
		case !errors.Is(err, resume.ErrNotFound):
			s.logger.WithError(err).WithField("user_id", usr.ID).Warn("[CoverLetter] resume lookup failed, generating without it")
		}
	}

	prompt := buildPrompt(in, usr, excerpt, s.now())
	var letter string
	err = s.retrier.Do(ctx, "coverletter.generate", func(ctx context.Context) error {
		text, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		letter = llm.StripCodeFences(text)
		return nil
	})
	if err != nil {
		return "", llm.Surface(err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": usr.ID, "company": in.CompanyName}).Info("[CoverLetter] generated")
	return letter, nil
}

func (s *Service) Save(ctx context.Context, externalID string, in SaveInput) (domain.CoverLetter, error) {
	if strings.TrimSpace(in.Content) == "" {
		return domain.CoverLetter{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.CompanyName) == "" || strings.TrimSpace(in.JobTitle) == "" {
		return domain.CoverLetter{}, fmt.Errorf("%w: companyName and jobTitle are required", ErrInvalidInput)
	}
	usr, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return domain.CoverLetter{}, err
	}
	return s.letters.Create(ctx, domain.CoverLetter{
		UserID:         usr.ID,
		Content:        in.Content,
		JobDescription: strings.TrimSpace(in.JobDescription),
		CompanyName:    strings.TrimSpace(in.CompanyName),
		JobTitle:       strings.TrimSpace(in.JobTitle),
		Status:         domain.StatusCompleted,
	})
}

func (s *Service) List(ctx context.Context, externalID string) ([]domain.CoverLetter, error) {
	usr, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return s.letters.ListByUser(ctx, usr.ID)
}

func (s *Service) Get(ctx context.Context, externalID string, id uuid.UUID) (domain.CoverLetter, error) {
	usr, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return domain.CoverLetter{}, err
	}
	return s.letters.GetForUser(ctx, usr.ID, id)
}

func buildPrompt(in GenerateInput, usr user.User, resumeExcerpt string, now time.Time) string {
	date := now.Format(DateLayout)
	contact := in.Contact.Lines()

	var b strings.Builder
	b.WriteString("Write a professional, compelling cover letter for the following job application:\n\n")
	fmt.Fprintf(&b, "Company Name: %s\nJob Title: %s\nJob Description:\n%s\n\n", in.CompanyName, in.JobTitle, in.JobDescription)

	if len(contact) > 0 {
		b.WriteString("Contact Information (include these at the top, each on a separate line):\n")
		b.WriteString(strings.Join(contact, "\n"))
		b.WriteString("\n\n")
	}

	b.WriteString("Applicant Background:\n")
	name := strings.TrimSpace(in.Contact.FullName)
	if name == "" {
		name = strings.TrimSpace(usr.Name)
	}
	if name != "" {
		fmt.Fprintf(&b, "Applicant Name: %s\n", name)
	}
	if ind := usr.IndustryKey(); ind != "" {
		fmt.Fprintf(&b, "Industry: %s\n", ind)
	}
	if usr.Experience > 0 {
		fmt.Fprintf(&b, "Experience: %d years\n", usr.Experience)
	}
	if len(usr.Skills) > 0 {
		fmt.Fprintf(&b, "Key Skills: %s\n", strings.Join(usr.Skills, ", "))
	}
	if resumeExcerpt != "" {
		fmt.Fprintf(&b, "Resume Excerpt:\n%s\n", resumeExcerpt)
	}

	b.WriteString("\nRequirements:\n")
	b.WriteString("1. Start with the sender's contact information, each item on its own line.\n")
	fmt.Fprintf(&b, "2. Below it, on its own line, use this exact date: %s. Do not use a placeholder date.\n", date)
	fmt.Fprintf(&b, "3. Recipient block: \"Hiring Manager\" on one line and \"%s\" on the next. No address placeholders.\n", in.CompanyName)
	b.WriteString(`4. Address the letter with "Dear Hiring Manager,"
5. Open with a strong hook that shows enthusiasm for the role
6. Show how the candidate's skills and experience match the job requirements
7. Highlight 2-3 key qualifications from the job description
8. Close professionally with a call to action
9. Keep it between 250 and 400 words
10. Do not use placeholders like [Your Name] or [Company Address]

Generate the cover letter now.`)
	return b.String()
}

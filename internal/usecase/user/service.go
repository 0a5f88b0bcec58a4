package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	domain "career-crafter/internal/domain/user"
	"career-crafter/internal/pkg/textutil"
	"career-crafter/internal/usecase/insight"

	"github.com/sirupsen/logrus"
)

const (
	MaxBioLength  = 500
	MaxExperience = 50
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrProfileIncomplete = domain.ErrProfileIncomplete
)

// InsightWarmer is the part of the insight refresher the profile flow needs.
type InsightWarmer interface {
	GetInsights(ctx context.Context, req insight.Request) (insight.Result, error)
}

type UpdateProfileInput struct {
	Industry    string
	SubIndustry string
	Bio         string
	Experience  int
	Skills      []string
}

// OnboardingStatus is what the client checks before routing to the dashboard.
type OnboardingStatus struct {
	IsOnboarded bool `json:"isOnboarded"`
}

type Service struct {
	users    domain.Repository
	insights InsightWarmer
	logger   logrus.FieldLogger
}

func NewService(users domain.Repository, insights InsightWarmer, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{users: users, insights: insights, logger: logger}
}

// EnsureUser returns the local profile for id, creating it on first sight.
func (s *Service) EnsureUser(ctx context.Context, id domain.Identity) (domain.User, error) {
	id.ExternalUserID = strings.TrimSpace(id.ExternalUserID)
	if id.ExternalUserID == "" {
		return domain.User{}, ErrUnauthenticated
	}
	id.Email = strings.ToLower(strings.TrimSpace(id.Email))
	id.Name = strings.TrimSpace(id.Name)
	return s.users.EnsureByExternalID(ctx, id)
}

func (s *Service) GetMe(ctx context.Context, externalID string) (domain.User, error) {
	if strings.TrimSpace(externalID) == "" {
		return domain.User{}, ErrUnauthenticated
	}
	return s.users.GetByExternalID(ctx, externalID)
}

func (s *Service) OnboardingStatus(ctx context.Context, externalID string) (OnboardingStatus, error) {
	usr, err := s.GetMe(ctx, externalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return OnboardingStatus{}, nil
		}
		return OnboardingStatus{}, err
	}
	return OnboardingStatus{IsOnboarded: usr.IsOnboarded()}, nil
}

// UpdateProfile saves the onboarding form and then warms the insight cache for the chosen
// industry. A warm-up failure is logged and does not fail the update.
func (s *Service) UpdateProfile(ctx context.Context, externalID string, in UpdateProfileInput) (domain.User, error) {
	if strings.TrimSpace(externalID) == "" {
		return domain.User{}, ErrUnauthenticated
	}
	upd, err := validateProfile(in)
	if err != nil {
		return domain.User{}, err
	}

	usr, err := s.users.UpdateProfile(ctx, externalID, upd)
	if err != nil {
		return domain.User{}, err
	}

	log := s.logger.WithFields(logrus.Fields{"user_id": usr.ID, "industry": upd.Industry})
	log.Info("[Profile] updated")

	if s.insights != nil {
		res, err := s.insights.GetInsights(ctx, insightRequest(usr))
		if err != nil {
			log.WithError(err).Warn("[Profile] insight warm-up failed")
		} else {
			log.WithField("source", res.Source).Debug("[Profile] insights warmed")
		}
	}
	return usr, nil
}

// Dashboard returns the insights for the caller's industry.
func (s *Service) Dashboard(ctx context.Context, externalID string) (insight.Result, error) {
	usr, err := s.GetMe(ctx, externalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return insight.Result{}, ErrProfileIncomplete
		}
		return insight.Result{}, err
	}
	if !usr.IsOnboarded() {
		return insight.Result{}, ErrProfileIncomplete
	}
	return s.insights.GetInsights(ctx, insightRequest(usr))
}

func insightRequest(u domain.User) insight.Request {
	return insight.Request{
		IndustryKey: u.IndustryKey(),
		SubIndustry: u.SubIndustry,
		UserSkills:  u.Skills,
	}
}

func validateProfile(in UpdateProfileInput) (domain.ProfileUpdate, error) {
	industry := strings.TrimSpace(in.Industry)
	sub := strings.TrimSpace(in.SubIndustry)
	if industry == "" {
		return domain.ProfileUpdate{}, fmt.Errorf("%w: industry is required", ErrInvalidInput)
	}
	if sub == "" {
		return domain.ProfileUpdate{}, fmt.Errorf("%w: sub-industry is required", ErrInvalidInput)
	}
	bio := strings.TrimSpace(in.Bio)
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return domain.ProfileUpdate{}, fmt.Errorf("%w: bio must be at most %d characters", ErrInvalidInput, MaxBioLength)
	}
	if in.Experience < 0 || in.Experience > MaxExperience {
		return domain.ProfileUpdate{}, fmt.Errorf("%w: experience must be between 0 and %d", ErrInvalidInput, MaxExperience)
	}
	return domain.ProfileUpdate{
		Industry:    IndustryKey(industry, sub),
		SubIndustry: sub,
		Bio:         bio,
		Experience:  in.Experience,
		Skills:      textutil.NormalizeList(in.Skills),
	}, nil
}

// IndustryKey joins an industry id with its sub-industry label, e.g.
// ("tech", "Software Development") -> "tech-software-development".
func IndustryKey(industry, subIndustry string) string {
	industry = strings.ToLower(strings.TrimSpace(industry))
	sub := strings.ToLower(strings.Join(strings.Fields(subIndustry), "-"))
	if sub == "" {
		return industry
	}
	return industry + "-" + sub
}

package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"career-crafter/internal/domain/user"
	"career-crafter/internal/pkg/textutil"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"imageUrl"`
	Industry    *string   `json:"industry"`
	SubIndustry string    `json:"subIndustry"`
	Bio         string    `json:"bio"`
	Experience  int       `json:"experience"`
	Skills      []string  `json:"skills"`
	IsOnboarded bool      `json:"isOnboarded"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewUserProfileResponse(u user.User) UserProfileResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserProfileResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		ImageURL:    u.ImageURL,
		Industry:    u.Industry,
		SubIndustry: u.SubIndustry,
		Bio:         u.Bio,
		Experience:  u.Experience,
		Skills:      skills,
		IsOnboarded: u.IsOnboarded(),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type UpdateProfileRequest struct {
	Industry    string    `json:"industry"`
	SubIndustry string    `json:"subIndustry"`
	Bio         string    `json:"bio"`
	Experience  int       `json:"experience"`
	Skills      SkillList `json:"skills"`
}

// SkillList accepts either "Go, SQL" or ["Go", "SQL"].
type SkillList []string

func (s *SkillList) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "null" {
		*s = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		*s = textutil.SplitSkills(raw)
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var raw []string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		*s = textutil.NormalizeList(raw)
		return nil
	}
	return errors.New("skills must be a string or a list of strings")
}

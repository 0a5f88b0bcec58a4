package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the local profile keyed by the identity provider's subject.
type User struct {
	ID             uuid.UUID
	ExternalUserID string
	Email          string
	Name           string
	ImageURL       string
	Industry       *string
	SubIndustry    string
	Bio            string
	Experience     int
	Skills         []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOnboarded reports whether the user picked an industry.
func (u User) IsOnboarded() bool {
	return u.Industry != nil && strings.TrimSpace(*u.Industry) != ""
}

func (u User) IndustryKey() string {
	if u.Industry == nil {
		return ""
	}
	return strings.TrimSpace(*u.Industry)
}

// Identity is what the identity provider tells us about the caller.
type Identity struct {
	ExternalUserID string
	Email          string
	Name           string
	ImageURL       string
}

type ProfileUpdate struct {
	Industry    string
	SubIndustry string
	Bio         string
	Experience  int
	Skills      []string
}

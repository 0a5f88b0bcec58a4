package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestHMACService_RoundTrip(t *testing.T) {
	s := NewHMACService("secret", "https://clerk.example", time.Hour)

	tok, err := s.GenerateToken("user_2abc", "ann@example.com", "Ann")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	c, err := s.ValidateToken(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.UserID() != "user_2abc" || c.Email != "ann@example.com" || c.Name != "Ann" {
		t.Fatalf("unexpected claims: %+v", c)
	}
}

func TestHMACService_Expired(t *testing.T) {
	s := NewHMACService("secret", "", time.Minute)
	base := time.Now()
	s.now = func() time.Time { return base }

	tok, err := s.GenerateToken("user_1", "", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := s.ValidateToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHMACService_WrongSecretOrIssuer(t *testing.T) {
	tok, err := NewHMACService("other", "", time.Hour).GenerateToken("user_1", "", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewHMACService("secret", "", time.Hour).ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	tok, _ = NewHMACService("secret", "a", time.Hour).GenerateToken("user_1", "", "")
	if _, err := NewHMACService("secret", "b", time.Hour).ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("issuer mismatch should be invalid, got %v", err)
	}
}

func TestHMACService_EmptySubject(t *testing.T) {
	if _, err := NewHMACService("secret", "", time.Hour).GenerateToken(" ", "", ""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

package llm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMisconfigured means the provider rejected our credentials or no key is set.
	ErrMisconfigured = errors.New("AI service misconfigured")
	// ErrUnavailable covers every other generation failure surfaced to callers.
	ErrUnavailable = errors.New("AI service unavailable")
)

var credentialMarkers = []string{
	"api key not valid",
	"api_key_invalid",
	"permission_denied",
	"unauthenticated",
}

// IsMisconfigured reports whether err comes from a missing or rejected API key.
func IsMisconfigured(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotConfigured) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range credentialMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// Surface wraps a failed generation in ErrMisconfigured or ErrUnavailable while keeping the
// original cause in the chain.
func Surface(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMisconfigured) || errors.Is(err, ErrUnavailable) {
		return err
	}
	if IsMisconfigured(err) {
		return fmt.Errorf("%w: %w", ErrMisconfigured, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

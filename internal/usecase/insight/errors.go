package insight

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrGenerationUnavailable means generation was exhausted and nothing was cached for the key.
	ErrGenerationUnavailable = errors.New("insight generation unavailable")
	// ErrPersistenceUnavailable is logged on store failures. The refresher never returns it.
	ErrPersistenceUnavailable = errors.New("insight store unavailable")
	// ErrBusy means another instance holds the generation marker for the key.
	ErrBusy  = errors.New("insight generation already in progress")
	ErrParse = errors.New("unparseable insight payload")
)

package llm

import (
	"errors"
	"testing"
)

func TestSurface(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"no key", ErrNotConfigured, ErrMisconfigured},
		{"rejected key", errors.New("Error 400, Message: API key not valid. Status: INVALID_ARGUMENT"), ErrMisconfigured},
		{"quota", &ExhaustedError{Attempts: 3, Class: Transient, Err: errors.New("429 quota")}, ErrUnavailable},
		{"other", errors.New("boom"), ErrUnavailable},
	}
	for _, tc := range cases {
		got := Surface(tc.err)
		if !errors.Is(got, tc.want) {
			t.Fatalf("%s: Surface = %v, want %v", tc.name, got, tc.want)
		}
		if !errors.Is(got, tc.err) {
			t.Fatalf("%s: cause lost from %v", tc.name, got)
		}
	}
	if Surface(nil) != nil {
		t.Fatalf("Surface(nil) should be nil")
	}
	already := Surface(errors.New("x"))
	if Surface(already) != already {
		t.Fatalf("Surface should not double wrap")
	}
}

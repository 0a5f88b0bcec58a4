package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"deadline", context.DeadlineExceeded, Transient},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), Transient},
		{"canceled", context.Canceled, Permanent},
		{"429", errors.New("Error 429, Message: Resource has been exhausted"), Transient},
		{"quota", errors.New("quota exceeded for model"), Transient},
		{"503", errors.New("got 503 Service Unavailable"), Transient},
		{"overloaded", errors.New("The model is overloaded. Please try again later."), Transient},
		{"auth", errors.New("API key not valid. Please pass a valid API key."), Permanent},
		{"parse", errors.New("invalid character 'x' looking for beginning of value"), Permanent},
		{"marked transient", MarkTransient(errors.New("flaky")), Transient},
		{"marked permanent wins over text", MarkPermanent(errors.New("503 but do not retry")), Permanent},
		{"not configured", ErrNotConfigured, Permanent},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("%s: Classify = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestMarkNil(t *testing.T) {
	if MarkTransient(nil) != nil || MarkPermanent(nil) != nil {
		t.Fatalf("marking nil must stay nil")
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```":     `{"a":1}`,
		"```\n{\"a\":1}```":           `{"a":1}`,
		"  {\"a\":1}  ":               `{"a":1}`,
		"```JSON\r\n{\"a\":1}\r\n```": `{"a":1}`,
	}
	for in, want := range cases {
		if got := StripCodeFences(in); got != want {
			t.Fatalf("StripCodeFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	if got := ExtractJSONObject("Here you go:\n```json\n{\"a\":{\"b\":1}}\n```"); got != `{"a":{"b":1}}` {
		t.Fatalf("ExtractJSONObject = %q", got)
	}
	if got := ExtractJSONArray("```\n[1,2]\n```"); got != "[1,2]" {
		t.Fatalf("ExtractJSONArray = %q", got)
	}
	if got := ExtractJSONObject("no json"); got != "no json" {
		t.Fatalf("ExtractJSONObject passthrough = %q", got)
	}
}

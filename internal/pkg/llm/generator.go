// Package llm holds the model-agnostic pieces of text generation: the generator contract,
// error classification, retry policy and response cleanup.
package llm

import "context"

// TextGenerator sends one prompt and returns the model's raw text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to TextGenerator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

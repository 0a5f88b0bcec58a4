package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"career-crafter/internal/config"
	"career-crafter/internal/pkg/llm"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// Client generates text through the Gemini API.
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      logrus.FieldLogger
}

// New builds the process-wide text generator. Without an API key it returns a generator that
// fails every call with llm.ErrNotConfigured.
func New(ctx context.Context, cfg config.GenAIConfig, logger logrus.FieldLogger) (llm.TextGenerator, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		logger.Warn("[GenAI] GEMINI_API_KEY not set, AI features are disabled")
		return Unconfigured{}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	logger.WithField("model", model).Info("[GenAI] client ready")
	return &Client{client: client, model: model, temperature: cfg.Temperature, logger: logger}, nil
}

func (g *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var genCfg *genai.GenerateContentConfig
	if g.temperature > 0 {
		genCfg = &genai.GenerateContentConfig{Temperature: genai.Ptr(g.temperature)}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", classifyAPIError(err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", llm.MarkTransient(errors.New("empty response from model"))
	}
	return text, nil
}

// classifyAPIError tags HTTP status codes from the API so retry decisions do not depend on
// message wording.
func classifyAPIError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == 429, apiErr.Code == 503, apiErr.Code == 408, apiErr.Code == 504:
		return llm.MarkTransient(err)
	case apiErr.Code >= 400:
		return llm.MarkPermanent(err)
	default:
		return err
	}
}

// Unconfigured is injected when no API key is available.
type Unconfigured struct{}

func (Unconfigured) Generate(context.Context, string) (string, error) {
	return "", llm.ErrNotConfigured
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/genai"

	"github.com/cookiverse/cookiverse/internal/config"
)

// Sampling settings sent with every generation request.
const (
	generationTemperature = 0.7
	generationTopK        = 40
	generationTopP        = 0.95
	generationMaxTokens   = 1024
)

var (
	// ErrGenerationNotConfigured is returned when no upstream has an API key.
	ErrGenerationNotConfigured = errors.New("text generation is not configured")
	// ErrInvalidUpstreamResponse is returned when an upstream answered with
	// a body that could not be decoded or carried no text.
	ErrInvalidUpstreamResponse = errors.New("invalid response from upstream")
)

// UpstreamError is a non-success answer from a generation API.
type UpstreamError struct {
	Provider string
	Status   int
	Message  string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Provider, e.Status, e.Message)
}

// Generator turns a prompt into generated text.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API through the genai SDK.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, cfg *config.Config) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.AITimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: cfg.GeminiModel}, nil
}

func (g *GeminiGenerator) Name() string { return "gemini" }

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](generationTemperature),
		TopK:            genai.Ptr[float32](generationTopK),
		TopP:            genai.Ptr[float32](generationTopP),
		MaxOutputTokens: generationMaxTokens,
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &UpstreamError{Provider: g.Name(), Status: apiErr.Code, Message: apiErr.Message}
		}
		return "", transportError(g.Name(), err)
	}

	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: %w: empty text", ErrInvalidUpstreamResponse)
	}
	return text, nil
}

// OpenAIGenerator calls the chat completions API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

func NewOpenAIGenerator(cfg *config.Config) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(
			option.WithAPIKey(cfg.OpenAIAPIKey),
			option.WithRequestTimeout(cfg.AITimeout),
		),
		model: cfg.OpenAIModel,
	}
}

func (g *OpenAIGenerator) Name() string { return "openai" }

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(generationTemperature),
		TopP:                openai.Float(generationTopP),
		MaxCompletionTokens: openai.Int(generationMaxTokens),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &UpstreamError{Provider: g.Name(), Status: apiErr.StatusCode, Message: apiErr.Message}
		}
		return "", transportError(g.Name(), err)
	}

	if len(res.Choices) == 0 {
		return "", fmt.Errorf("openai: %w: no choices", ErrInvalidUpstreamResponse)
	}
	text := strings.TrimSpace(res.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai: %w: empty text", ErrInvalidUpstreamResponse)
	}
	return text, nil
}

// transportError marks JSON decoding failures as invalid responses and
// wraps everything else as is.
func transportError(provider string, err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%s: %w: %w", provider, ErrInvalidUpstreamResponse, err)
	}
	return fmt.Errorf("%s: %w", provider, err)
}

// GenerationService sends prompts to the primary generator and retries on
// the fallback when the primary is unreachable or failing server-side.
type GenerationService struct {
	primary  Generator
	fallback Generator
}

func NewGenerationService(primary, fallback Generator) *GenerationService {
	return &GenerationService{primary: primary, fallback: fallback}
}

// NewGenerationServiceFromConfig wires the generators that have API keys.
func NewGenerationServiceFromConfig(ctx context.Context, cfg *config.Config) (*GenerationService, error) {
	var gens []Generator
	if cfg.GeminiAPIKey != "" {
		g, err := NewGeminiGenerator(ctx, cfg)
		if err != nil {
			return nil, err
		}
		gens = append(gens, g)
	}
	if cfg.OpenAIAPIKey != "" {
		gens = append(gens, NewOpenAIGenerator(cfg))
	}

	switch len(gens) {
	case 0:
		return NewGenerationService(nil, nil), nil
	case 1:
		return NewGenerationService(gens[0], nil), nil
	default:
		return NewGenerationService(gens[0], gens[1]), nil
	}
}

// Configured reports whether any generator is available.
func (s *GenerationService) Configured() bool {
	return s.primary != nil
}

func (s *GenerationService) Generate(ctx context.Context, prompt string) (string, error) {
	if s.primary == nil {
		return "", ErrGenerationNotConfigured
	}

	text, err := s.primary.Generate(ctx, prompt)
	if err == nil {
		return text, nil
	}
	if s.fallback == nil || !retryable(err) || ctx.Err() != nil {
		return "", err
	}

	slog.WarnContext(ctx, "generator failed, trying fallback",
		"provider", s.primary.Name(), "fallback", s.fallback.Name(), "error", err)
	text, ferr := s.fallback.Generate(ctx, prompt)
	if ferr != nil {
		slog.WarnContext(ctx, "fallback generator also failed", "provider", s.fallback.Name(), "error", ferr)
		return "", err
	}
	return text, nil
}

// retryable is true for transport failures and upstream 5xx or 429 answers.
func retryable(err error) bool {
	var up *UpstreamError
	if errors.As(err, &up) {
		return up.Status >= http.StatusInternalServerError || up.Status == http.StatusTooManyRequests
	}
	return true
}

package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// ErrLLM marks a failed extraction call to the language model.
var ErrLLM = errors.New("extract: llm request failed")

// maxPromptChars caps the document text sent to the model.
const maxPromptChars = 10000

// Strategy is one way of turning document text into structured JSON.
type Strategy interface {
	GenerateJSON(ctx context.Context, systemPrompt, userContent string) ([]byte, error)
}

// StrategyConfig selects and parameterizes a strategy.
type StrategyConfig struct {
	Provider string // openai, ollama, mock
	Model    string
	APIKey   string
	BaseURL  string
}

// defaultOllamaBaseURL is Ollama's OpenAI-compatible endpoint.
const defaultOllamaBaseURL = "http://localhost:11434/v1"

// NewStrategy builds the configured extraction strategy. Ollama reuses the
// OpenAI client pointed at a compatible base URL.
func NewStrategy(cfg StrategyConfig) (Strategy, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIStrategy(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultOllamaBaseURL
		}

		return newOpenAIStrategy(cfg.APIKey, baseURL, cfg.Model), nil
	case "mock":
		return &MockStrategy{}, nil
	default:
		return nil, fmt.Errorf("extract: unsupported llm provider %q", cfg.Provider)
	}
}

// OpenAIStrategy extracts fields via an OpenAI-compatible chat completions
// endpoint with JSON response format.
type OpenAIStrategy struct {
	client openai.Client
	model  string
}

func newOpenAIStrategy(apiKey, baseURL, model string) *OpenAIStrategy {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIStrategy{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (s *OpenAIStrategy) GenerateJSON(ctx context.Context, systemPrompt, userContent string) ([]byte, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userContent),
		},
		Model: openai.ChatModel(s.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLM, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrLLM)
	}

	return []byte(cleanJSONContent(resp.Choices[0].Message.Content)), nil
}

// cleanJSONContent strips markdown code fences some models wrap around
// JSON output despite the response format hint.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	return strings.TrimSpace(content)
}

// MockStrategy returns a canned response. Used in tests and as the "mock"
// provider for offline development.
type MockStrategy struct {
	Response []byte
	Err      error
}

func (s *MockStrategy) GenerateJSON(_ context.Context, _, _ string) ([]byte, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	if s.Response != nil {
		return s.Response, nil
	}

	return []byte(`{}`), nil
}

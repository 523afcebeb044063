package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// GenerationOptions carries the per-call knobs the orchestrator computes from
// the chunk's token budget and priority.
type GenerationOptions struct {
	MaxOutputTokens int
	Temperature     float32
}

// AIClientInterface is the provider capability consumed by the generation
// services. Implementations return the raw JSON content plus the provider's
// reported token usage.
type AIClientInterface interface {
	GenerateItineraryJSON(ctx context.Context, prompt string, opts GenerationOptions) (string, int, error)
	Provider() string
	Close() error
}

// ---------------- Gemini ----------------

type GeminiItineraryClient struct {
	client *genai.Client
	model  string
}

func NewGeminiItineraryClient(apiKey, model string) (AIClientInterface, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Free tier model
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiItineraryClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiItineraryClient) GenerateItineraryJSON(ctx context.Context, prompt string, opts GenerationOptions) (string, int, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", 0, fmt.Errorf("prompt cannot be empty")
	}

	m := c.client.GenerativeModel(c.model)
	// Force JSON-only output so the parser never has to strip prose.
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(opts.Temperature)
	m.SetTopP(0.5)
	m.SetTopK(20)
	if opts.MaxOutputTokens > 0 {
		m.SetMaxOutputTokens(int32(opts.MaxOutputTokens))
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", 0, fmt.Errorf("%w: gemini: %v", ErrProviderFailure, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", 0, fmt.Errorf("%w: no content generated by Gemini", ErrProviderFailure)
	}

	content := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	tokensUsed := 0
	if resp.UsageMetadata != nil {
		tokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return content, tokensUsed, nil
}

func (c *GeminiItineraryClient) Provider() string { return "gemini" }

func (c *GeminiItineraryClient) Close() error { return c.client.Close() }

// ---------------- OpenAI ----------------

type OpenAIItineraryClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIItineraryClient(apiKey, model string) AIClientInterface {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIItineraryClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIItineraryClient) GenerateItineraryJSON(ctx context.Context, prompt string, opts GenerationOptions) (string, int, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", 0, fmt.Errorf("prompt cannot be empty")
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: opts.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if opts.MaxOutputTokens > 0 {
		req.MaxTokens = opts.MaxOutputTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: openai: %v", ErrProviderFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, fmt.Errorf("%w: no content generated by OpenAI", ErrProviderFailure)
	}

	return resp.Choices[0].Message.Content, resp.Usage.TotalTokens, nil
}

func (c *OpenAIItineraryClient) Provider() string { return "openai" }

func (c *OpenAIItineraryClient) Close() error { return nil }

// NewAIClient Factory function to create either OpenAI or Gemini client based on config
func NewAIClient(provider, apiKey, model string) (AIClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIItineraryClient(apiKey, model), nil
	case "gemini":
		return NewGeminiItineraryClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

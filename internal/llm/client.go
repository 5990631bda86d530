package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Chunk is one increment of a streamed generation. A Chunk with a non-nil
// Err is terminal: the channel is closed immediately after it. A channel
// that closes without an error Chunk completed normally.
type Chunk struct {
	Text string
	Err  error
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateJSON performs a one-shot call tuned for structured output.
	// The returned text is untrusted: it may or may not be valid JSON.
	GenerateJSON(ctx context.Context, system, prompt string, tier ModelTier) (string, error)
	// GenerateStream performs a streamed call and returns a channel of text
	// chunks. The channel is closed on completion; mid-stream provider
	// failures surface as a terminal error Chunk.
	GenerateStream(ctx context.Context, system, prompt string, tier ModelTier) (<-chan Chunk, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	// case ProviderOpenAI:
	//     return NewOpenAIClient(ctx, config, apiKey)
	// case ProviderAnthropic:
	//     return NewClaudeClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// model builds a configured generative model for a tier
func (c *GeminiClient) model(tier ModelTier, system string) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}
	if maxTokens := c.config.GetMaxTokens(tier); maxTokens > 0 {
		model.SetMaxOutputTokens(maxTokens)
	}
	return model, nil
}

// GenerateJSON performs a one-shot call tuned for structured output
func (c *GeminiClient) GenerateJSON(ctx context.Context, system, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier, system)
	if err != nil {
		return "", err
	}
	model.SetTemperature(0.1) // Low temperature for consistent extraction
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}

	// Clean any markdown code block wrappers
	return CleanJSONBlock(text), nil
}

// GenerateStream performs a streamed call and relays provider increments
func (c *GeminiClient) GenerateStream(ctx context.Context, system, prompt string, tier ModelTier) (<-chan Chunk, error) {
	model, err := c.model(tier, system)
	if err != nil {
		return nil, err
	}

	iter := model.GenerateContentStream(ctx, genai.Text(prompt))

	out := make(chan Chunk)
	go func() {
		defer close(out)
		for {
			resp, err := iter.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				out <- Chunk{Err: fmt.Errorf("stream failed: %w", err)}
				return
			}
			text, err := extractTextFromResponse(resp)
			if err != nil {
				// Non-text increments (e.g. safety metadata) are skipped
				continue
			}
			out <- Chunk{Text: text}
		}
	}()

	return out, nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

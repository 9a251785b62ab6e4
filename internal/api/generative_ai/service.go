package generativeAI

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"

	"github.com/tripweave/tripweave/app/observability/metrics"
)

// Client is the text-generation contract the planning services depend on.
// GenerateJSON asks the model for structured output (JSON MIME type); callers
// still run the delimiter-scanning parser over the result as a last resort.
type Client interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

var _ Client = (*AIClient)(nil)

type AIClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewAIClient(ctx context.Context, model string, temperature float32) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

func (ai *AIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](ai.temperature),
	}
	return ai.generate(ctx, prompt, config)
}

func (ai *AIClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](ai.temperature),
		ResponseMIMEType: "application/json",
	}
	return ai.generate(ctx, prompt, config)
}

func (ai *AIClient) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	start := time.Now()
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if m := metrics.Get(); m != nil {
		m.AIRequestsTotal.Add(ctx, 1)
		m.AIRequestDuration.Record(ctx, time.Since(start).Seconds())
	}
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return result.Text(), nil
}

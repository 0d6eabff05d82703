package providers

import (
	"context"
	"fmt"
	"net/http"

	"ai-gateway-api/internal/models"
)

// LLaMA models are reached through OpenRouter's OpenAI-compatible API.
const openRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"

type LlamaClient struct {
	apiKey     string
	mock       bool
	endpoint   string
	httpClient *http.Client
}

func NewLlamaClient(apiKey string, mock bool) *LlamaClient {
	return &LlamaClient{
		apiKey:     apiKey,
		mock:       mock,
		endpoint:   openRouterEndpoint,
		httpClient: defaultHTTPClient,
	}
}

func (c *LlamaClient) Family() models.ProviderFamily {
	return models.FamilyLlama
}

func (c *LlamaClient) Generate(ctx context.Context, model, prompt string) (*GenerationResult, error) {
	if c.mock || c.apiKey == "" {
		return &GenerationResult{
			Text:         fmt.Sprintf("[MOCKED %s] LLaMA response for prompt: %q", model, prompt),
			InputTokens:  wordCount(prompt),
			OutputTokens: 20,
		}, nil
	}

	return postChatCompletion(ctx, c.httpClient, models.FamilyLlama, c.endpoint, c.apiKey, model, prompt)
}

package providers

import (
	"context"
	"fmt"
	"net/http"

	"ai-gateway-api/internal/models"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIClient serves the GPT family. Without an API key (or with the mock
// flag set) it answers with a marked placeholder instead of failing, so the
// gateway stays usable without live credentials.
type OpenAIClient struct {
	apiKey     string
	mock       bool
	endpoint   string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey string, mock bool) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     apiKey,
		mock:       mock,
		endpoint:   openAIEndpoint,
		httpClient: defaultHTTPClient,
	}
}

func (c *OpenAIClient) Family() models.ProviderFamily {
	return models.FamilyGPT
}

func (c *OpenAIClient) Generate(ctx context.Context, model, prompt string) (*GenerationResult, error) {
	if c.mock || c.apiKey == "" {
		return &GenerationResult{
			Text:         fmt.Sprintf("[MOCKED %s] You said: %s", model, prompt),
			InputTokens:  5,
			OutputTokens: 10,
		}, nil
	}

	return postChatCompletion(ctx, c.httpClient, models.FamilyGPT, c.endpoint, c.apiKey, model, prompt)
}

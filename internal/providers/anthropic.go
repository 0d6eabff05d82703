package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"ai-gateway-api/internal/models"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
)

type AnthropicClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		apiKey:     apiKey,
		endpoint:   anthropicEndpoint,
		httpClient: defaultHTTPClient,
	}
}

func (c *AnthropicClient) Family() models.ProviderFamily {
	return models.FamilyClaude
}

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (c *AnthropicClient) Generate(ctx context.Context, model, prompt string) (*GenerationResult, error) {
	if c.apiKey == "" {
		return &GenerationResult{
			Text:         fmt.Sprintf("[MOCKED %s] Anthropic API key missing; echo: %s", model, prompt),
			InputTokens:  wordCount(prompt),
			OutputTokens: 6,
		}, nil
	}

	payload := anthropicRequest{
		Model:       model,
		MaxTokens:   100,
		Temperature: 0.7,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Family: models.FamilyClaude, Op: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Family: models.FamilyClaude, Op: "build request", Err: err}
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Family: models.FamilyClaude, Op: "call upstream", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &Error{Family: models.FamilyClaude, Op: "call upstream", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &Error{Family: models.FamilyClaude, Op: "decode response", Err: err}
	}
	if len(parsed.Content) == 0 {
		return nil, &Error{Family: models.FamilyClaude, Op: "decode response", Err: fmt.Errorf("no content blocks in upstream payload")}
	}

	return &GenerationResult{
		Text:         parsed.Content[0].Text,
		InputTokens:  parsed.Usage.InputTokens,
		OutputTokens: parsed.Usage.OutputTokens,
	}, nil
}

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

// OpenAI-style chat completion wire types, shared by the OpenAI and
// OpenRouter (LLaMA) adapters.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// postChatCompletion performs one chat completion round trip against an
// OpenAI-compatible endpoint and maps every failure mode to *Error.
func postChatCompletion(ctx context.Context, client *http.Client, family models.ProviderFamily, endpoint, apiKey, model, prompt string) (*GenerationResult, error) {
	payload := chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   100,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Family: family, Op: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Family: family, Op: "build request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{Family: family, Op: "call upstream", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain without echoing the upstream body; it may reference the request key.
		io.Copy(io.Discard, resp.Body)
		return nil, &Error{Family: family, Op: "call upstream", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &Error{Family: family, Op: "decode response", Err: err}
	}
	if len(parsed.Choices) == 0 {
		return nil, &Error{Family: family, Op: "decode response", Err: fmt.Errorf("no choices in upstream payload")}
	}

	return &GenerationResult{
		Text:         parsed.Choices[0].Message.Content,
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
	}, nil
}

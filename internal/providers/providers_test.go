package providers

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-gateway-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModeWithoutCredentials(t *testing.T) {
	tests := []struct {
		name   string
		client Client
	}{
		{"openai", NewOpenAIClient("", false)},
		{"openai forced mock", NewOpenAIClient("sk-real", true)},
		{"anthropic", NewAnthropicClient("")},
		{"llama", NewLlamaClient("", false)},
		{"llama forced mock", NewLlamaClient("or-real", true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.client.Generate(context.Background(), "some-model", "two words")
			require.NoError(t, err)
			assert.Contains(t, result.Text, "MOCKED")
			assert.Contains(t, result.Text, "some-model")
			assert.Greater(t, result.InputTokens, 0)
			assert.Greater(t, result.OutputTokens, 0)
		})
	}
}

func TestOpenAIGenerateParsesUsage(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "hi there"}},
			},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 34},
		})
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", false)
	client.endpoint = server.URL

	result, err := client.Generate(context.Background(), "gpt-4", "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hi there", result.Text)
	assert.Equal(t, 12, result.InputTokens)
	assert.Equal(t, 34, result.OutputTokens)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "say hi", gotReq.Messages[0].Content)
}

func TestOpenAIGenerateUpstreamFailureIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "invalid key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", false)
	client.endpoint = server.URL

	_, err := client.Generate(context.Background(), "gpt-4", "say hi")
	require.Error(t, err)

	var provErr *Error
	require.True(t, goerrors.As(err, &provErr))
	assert.Equal(t, models.FamilyGPT, provErr.Family)
	// The upstream body and the request key stay out of the error text.
	assert.NotContains(t, provErr.Error(), "sk-test")
	assert.NotContains(t, provErr.Error(), "invalid key")
}

func TestOpenAIGenerateMalformedPayloadIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", false)
	client.endpoint = server.URL

	_, err := client.Generate(context.Background(), "gpt-4", "say hi")
	var provErr *Error
	require.True(t, goerrors.As(err, &provErr))
}

func TestOpenAIGenerateEmptyChoicesIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", false)
	client.endpoint = server.URL

	_, err := client.Generate(context.Background(), "gpt-4", "say hi")
	var provErr *Error
	require.True(t, goerrors.As(err, &provErr))
}

func TestAnthropicGenerateParsesUsage(t *testing.T) {
	var gotKey, gotVersion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{
				{"type": "text", "text": "hello from claude"},
			},
			"usage": map[string]int{"input_tokens": 7, "output_tokens": 21},
		})
	}))
	defer server.Close()

	client := NewAnthropicClient("ak-test")
	client.endpoint = server.URL

	result, err := client.Generate(context.Background(), "claude-3-opus-20240229", "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hello from claude", result.Text)
	assert.Equal(t, 7, result.InputTokens)
	assert.Equal(t, 21, result.OutputTokens)
	assert.Equal(t, "ak-test", gotKey)
	assert.Equal(t, anthropicVersion, gotVersion)
}

func TestAnthropicGenerateUpstreamFailureIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewAnthropicClient("ak-test")
	client.endpoint = server.URL

	_, err := client.Generate(context.Background(), "claude-3-opus-20240229", "say hi")
	var provErr *Error
	require.True(t, goerrors.As(err, &provErr))
	assert.Equal(t, models.FamilyClaude, provErr.Family)
}

func TestLlamaGenerateUsesOpenRouterSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "llama says hi"}},
			},
			"usage": map[string]int{"prompt_tokens": 4, "completion_tokens": 9},
		})
	}))
	defer server.Close()

	client := NewLlamaClient("or-test", false)
	client.endpoint = server.URL

	result, err := client.Generate(context.Background(), "meta-llama/llama-3-8b-instruct", "say hi")
	require.NoError(t, err)
	assert.Equal(t, "llama says hi", result.Text)
	assert.Equal(t, 4, result.InputTokens)
	assert.Equal(t, 9, result.OutputTokens)
}

func TestFamilies(t *testing.T) {
	assert.Equal(t, models.FamilyGPT, NewOpenAIClient("", false).Family())
	assert.Equal(t, models.FamilyClaude, NewAnthropicClient("").Family())
	assert.Equal(t, models.FamilyLlama, NewLlamaClient("", false).Family())
}

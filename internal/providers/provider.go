package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ai-gateway-api/internal/models"
)

// Client is the capability one provider family exposes to the gateway.
// Implementations perform the upstream call (or a mock-mode placeholder) and
// report token consumption; they never panic on upstream failure.
type Client interface {
	Family() models.ProviderFamily
	Generate(ctx context.Context, model, prompt string) (*GenerationResult, error)
}

// GenerationResult carries the upstream completion and its token counts.
type GenerationResult struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Error marks an adapter failure (network, non-2xx, malformed payload). The
// message never includes the upstream credential.
type Error struct {
	Family models.ProviderFamily
	Op     string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Family, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var defaultHTTPClient = &http.Client{
	Timeout: 60 * time.Second,
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

package services

import (
	"context"
	goerrors "errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"ai-gateway-api/internal/models"
	"ai-gateway-api/internal/pkg/errors"
	"ai-gateway-api/internal/providers"

	"golang.org/x/text/unicode/norm"
)

// ModelRouter turns a raw model identifier into a provider family and invokes
// the adapter registered for it.
type ModelRouter interface {
	Normalize(raw string) string
	Classify(model string) (models.ProviderFamily, error)
	Dispatch(ctx context.Context, family models.ProviderFamily, model, prompt string) (*providers.GenerationResult, error)
}

type modelRouter struct {
	adapters map[models.ProviderFamily]providers.Client
	timeout  time.Duration
}

// NewModelRouter builds a router over an adapter table keyed by family. The
// timeout bounds each dispatch call; the router never retries.
func NewModelRouter(adapters map[models.ProviderFamily]providers.Client, timeout time.Duration) ModelRouter {
	return &modelRouter{
		adapters: adapters,
		timeout:  timeout,
	}
}

// Normalize cleans a model identifier: lowercase, trim surrounding space,
// drop non-printable runes, canonical Unicode composition.
func (r *modelRouter) Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = strings.TrimSpace(s)
	s = strings.Map(func(ch rune) rune {
		if unicode.IsPrint(ch) {
			return ch
		}
		return -1
	}, s)
	return norm.NFKC.String(s)
}

func (r *modelRouter) Classify(model string) (models.ProviderFamily, error) {
	family, ok := models.FamilyForModel(model)
	if !ok {
		return "", fmt.Errorf("%w: %q", errors.ErrUnsupportedModel, model)
	}
	return family, nil
}

func (r *modelRouter) Dispatch(ctx context.Context, family models.ProviderFamily, model, prompt string) (*providers.GenerationResult, error) {
	client, ok := r.adapters[family]
	if !ok {
		return nil, &providers.Error{Family: family, Op: "lookup adapter", Err: goerrors.New("no adapter registered")}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := client.Generate(ctx, model, prompt)
	if err != nil {
		var provErr *providers.Error
		if goerrors.As(err, &provErr) {
			return nil, err
		}
		return nil, &providers.Error{Family: family, Op: "generate", Err: err}
	}

	return result, nil
}

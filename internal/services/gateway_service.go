package services

import (
	"context"
	"strings"
	"time"

	"ai-gateway-api/internal/logger"
	"ai-gateway-api/internal/models"

	"github.com/sirupsen/logrus"
)

// GenerateResult is the orchestrator's answer for one generation call.
type GenerateResult struct {
	Response         string
	InputTokens      int
	OutputTokens     int
	EstimatedCostUSD float64
}

// GatewayService composes routing, cost estimation and usage accounting for
// an already-authenticated caller.
type GatewayService interface {
	Generate(ctx context.Context, user *models.User, modelName, prompt string) (*GenerateResult, error)
}

type gatewayService struct {
	router ModelRouter
	costs  CostService
	usage  UsageService
}

func NewGatewayService(router ModelRouter, costs CostService, usage UsageService) GatewayService {
	return &gatewayService{
		router: router,
		costs:  costs,
		usage:  usage,
	}
}

// Generate runs the request through normalize → classify → dispatch → account.
// Classification and dispatch failures stop the flow before any ledger write.
// Once the provider has answered, the usage write is best-effort: a ledger
// fault is logged and never turns the successful generation into a failure.
func (s *gatewayService) Generate(ctx context.Context, user *models.User, modelName, prompt string) (*GenerateResult, error) {
	cleaned := s.router.Normalize(modelName)

	family, err := s.router.Classify(cleaned)
	if err != nil {
		return nil, err
	}

	// The provider call and the ledger write run detached from the caller's
	// cancellation: once upstream tokens are consumed they must be accounted
	// even if the caller has disconnected.
	callCtx := context.WithoutCancel(ctx)

	result, err := s.router.Dispatch(callCtx, family, cleaned, prompt)
	if err != nil {
		return nil, err
	}

	cost := s.costs.Cost(family, result.InputTokens, result.OutputTokens)

	if err := s.usage.Record(callCtx, user.ID, modelName, result.InputTokens, result.OutputTokens, time.Now().UTC()); err != nil {
		logger.LogEvent(logrus.ErrorLevel, "Usage ledger write failed", logrus.Fields{
			"user_id": user.ID.String(),
			"model":   modelName,
			"error":   err.Error(),
		})
	}

	return &GenerateResult{
		Response:         strings.TrimSpace(result.Text),
		InputTokens:      result.InputTokens,
		OutputTokens:     result.OutputTokens,
		EstimatedCostUSD: cost,
	}, nil
}

package services

import (
	"math"

	"ai-gateway-api/internal/models"
)

// CostRate prices one provider family in USD per 1000 tokens.
type CostRate struct {
	InputPer1K  float64
	OutputPer1K float64
}

// CostService estimates the cost of a single generation call. Pure: no I/O,
// deterministic for identical inputs.
type CostService interface {
	Cost(family models.ProviderFamily, inputTokens, outputTokens int) float64
}

type costService struct {
	rates       map[models.ProviderFamily]CostRate
	defaultRate CostRate
}

// NewCostService builds the per-family rate table. An unknown family falls
// back to the default pair instead of failing.
func NewCostService() CostService {
	return &costService{
		rates: map[models.ProviderFamily]CostRate{
			models.FamilyGPT:    {InputPer1K: 0.03, OutputPer1K: 0.06},
			models.FamilyClaude: {InputPer1K: 0.008, OutputPer1K: 0.024},
			models.FamilyLlama:  {InputPer1K: 0.0015, OutputPer1K: 0.002},
		},
		defaultRate: CostRate{InputPer1K: 0.001, OutputPer1K: 0.002},
	}
}

func (s *costService) Cost(family models.ProviderFamily, inputTokens, outputTokens int) float64 {
	rate, ok := s.rates[family]
	if !ok {
		rate = s.defaultRate
	}

	amount := (float64(inputTokens)/1000)*rate.InputPer1K + (float64(outputTokens)/1000)*rate.OutputPer1K
	return roundUSD(amount)
}

// roundUSD rounds to the gateway's fixed 6-decimal cost precision.
func roundUSD(amount float64) float64 {
	return math.Round(amount*1e6) / 1e6
}

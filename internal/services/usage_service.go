package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-gateway-api/internal/logger"
	"ai-gateway-api/internal/models"
	"ai-gateway-api/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// blendedTokenRate is the flat USD-per-token rate behind the summary's cost
// estimate. It deliberately differs from the per-request rate table in
// CostService: the summary is a dashboard approximation over aggregate
// totals, and recomputing history against the table would change reported
// numbers (see DESIGN.md).
const blendedTokenRate = 0.000005

const summaryCacheTTL = 5 * time.Minute

// UsageService is the usage ledger: append-only recording plus per-user
// retrieval and aggregation.
type UsageService interface {
	Record(ctx context.Context, userID uuid.UUID, modelName string, inputTokens, outputTokens int, timestamp time.Time) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.UsageLog, error)
	Summarize(ctx context.Context, userID uuid.UUID) (*models.UsageSummary, error)
}

type usageService struct {
	repo  repository.UsageRepository
	cache CacheService // nil disables summary caching
}

func NewUsageService(repo repository.UsageRepository, cache CacheService) UsageService {
	return &usageService{
		repo:  repo,
		cache: cache,
	}
}

func (s *usageService) Record(ctx context.Context, userID uuid.UUID, modelName string, inputTokens, outputTokens int, timestamp time.Time) error {
	entry := &models.UsageLog{
		UserID:       userID,
		ModelName:    modelName,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Timestamp:    timestamp,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, summaryCacheKey(userID)); err != nil {
			logger.LogEvent(logrus.WarnLevel, "Failed to invalidate usage summary cache", logrus.Fields{
				"user_id": userID.String(),
				"error":   err.Error(),
			})
		}
	}

	return nil
}

func (s *usageService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.UsageLog, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Summarize aggregates totals and per-family buckets over a user's entire
// history. Stored model names are bucketed with the same substring rules the
// router classifies with; names matching no family count toward the totals
// only.
func (s *usageService) Summarize(ctx context.Context, userID uuid.UUID) (*models.UsageSummary, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, summaryCacheKey(userID)); err == nil {
			var summary models.UsageSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.UsageSummary{
		ModelUsage: make(map[models.ProviderFamily]models.FamilyUsage, len(models.AllFamilies)),
	}
	for _, family := range models.AllFamilies {
		summary.ModelUsage[family] = models.FamilyUsage{}
	}

	for _, entry := range entries {
		summary.TotalRequests++
		summary.TotalInputTokens += entry.InputTokens
		summary.TotalOutputTokens += entry.OutputTokens

		family, ok := models.FamilyForModel(strings.ToLower(strings.TrimSpace(entry.ModelName)))
		if !ok {
			continue
		}
		bucket := summary.ModelUsage[family]
		bucket.InputTokens += entry.InputTokens
		bucket.OutputTokens += entry.OutputTokens
		bucket.Requests++
		summary.ModelUsage[family] = bucket
	}

	summary.EstimatedTotalCostUSD = roundUSD(blendedTokenRate * float64(summary.TotalInputTokens+summary.TotalOutputTokens))

	if s.cache != nil {
		if err := s.cache.Set(ctx, summaryCacheKey(userID), summary, summaryCacheTTL); err != nil {
			logger.LogEvent(logrus.WarnLevel, "Failed to cache usage summary", logrus.Fields{
				"user_id": userID.String(),
				"error":   err.Error(),
			})
		}
	}

	return summary, nil
}

func summaryCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("usage:summary:%s", userID)
}

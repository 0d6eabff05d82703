package services

import (
	"context"
	goerrors "errors"
	"sort"
	"testing"
	"time"

	"ai-gateway-api/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsageRepo struct {
	entries    []models.UsageLog
	failCreate bool
}

func (r *fakeUsageRepo) Create(ctx context.Context, entry *models.UsageLog) error {
	if r.failCreate {
		return goerrors.New("connection reset")
	}
	entry.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeUsageRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UsageLog, error) {
	var matched []models.UsageLog
	for _, entry := range r.entries {
		if entry.UserID == userID {
			matched = append(matched, entry)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	return matched, nil
}

func TestRecordThenListRoundTrip(t *testing.T) {
	repo := &fakeUsageRepo{}
	usage := NewUsageService(repo, nil)
	userID := uuid.New()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	err := usage.Record(context.Background(), userID, "gpt-4", 100, 50, ts)
	require.NoError(t, err)

	entries, err := usage.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, userID, entries[0].UserID)
	assert.Equal(t, "gpt-4", entries[0].ModelName)
	assert.Equal(t, 100, entries[0].InputTokens)
	assert.Equal(t, 50, entries[0].OutputTokens)
	assert.True(t, ts.Equal(entries[0].Timestamp))
}

func TestListForUserIsNewestFirst(t *testing.T) {
	repo := &fakeUsageRepo{}
	usage := NewUsageService(repo, nil)
	userID := uuid.New()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, usage.Record(context.Background(), userID, "gpt-4", 1, 1, base))
	require.NoError(t, usage.Record(context.Background(), userID, "gpt-4", 2, 2, base.Add(time.Hour)))
	require.NoError(t, usage.Record(context.Background(), userID, "gpt-4", 3, 3, base.Add(2*time.Hour)))

	entries, err := usage.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 3, entries[0].InputTokens)
	assert.Equal(t, 2, entries[1].InputTokens)
	assert.Equal(t, 1, entries[2].InputTokens)
}

func TestSummarizeBucketsPerFamilyWithoutLeakage(t *testing.T) {
	repo := &fakeUsageRepo{}
	usage := NewUsageService(repo, nil)
	userID := uuid.New()
	now := time.Now().UTC()

	require.NoError(t, usage.Record(context.Background(), userID, "gpt-4", 100, 50, now))
	require.NoError(t, usage.Record(context.Background(), userID, "claude-3-opus-20240229", 200, 100, now))

	summary, err := usage.Summarize(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalRequests)
	assert.Equal(t, 300, summary.TotalInputTokens)
	assert.Equal(t, 150, summary.TotalOutputTokens)

	gpt := summary.ModelUsage[models.FamilyGPT]
	assert.Equal(t, 100, gpt.InputTokens)
	assert.Equal(t, 50, gpt.OutputTokens)
	assert.Equal(t, 1, gpt.Requests)

	claude := summary.ModelUsage[models.FamilyClaude]
	assert.Equal(t, 200, claude.InputTokens)
	assert.Equal(t, 100, claude.OutputTokens)
	assert.Equal(t, 1, claude.Requests)

	llama := summary.ModelUsage[models.FamilyLlama]
	assert.Zero(t, llama.InputTokens)
	assert.Zero(t, llama.OutputTokens)
	assert.Zero(t, llama.Requests)
}

func TestSummarizeUsesBlendedRate(t *testing.T) {
	repo := &fakeUsageRepo{}
	usage := NewUsageService(repo, nil)
	userID := uuid.New()
	now := time.Now().UTC()

	require.NoError(t, usage.Record(context.Background(), userID, "gpt-4", 100, 50, now))
	require.NoError(t, usage.Record(context.Background(), userID, "claude-3-opus-20240229", 200, 100, now))

	summary, err := usage.Summarize(context.Background(), userID)
	require.NoError(t, err)

	// Flat blended rate over aggregate totals, not the per-family table.
	assert.InDelta(t, 0.000005*450, summary.EstimatedTotalCostUSD, 1e-9)
}

func TestSummarizeUnrecognizedModelCountsTowardTotalsOnly(t *testing.T) {
	repo := &fakeUsageRepo{}
	usage := NewUsageService(repo, nil)
	userID := uuid.New()
	now := time.Now().UTC()

	require.NoError(t, usage.Record(context.Background(), userID, "mystery-model", 10, 20, now))

	summary, err := usage.Summarize(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalRequests)
	assert.Equal(t, 10, summary.TotalInputTokens)
	assert.Equal(t, 20, summary.TotalOutputTokens)
	for _, family := range models.AllFamilies {
		assert.Zero(t, summary.ModelUsage[family].Requests)
	}
}

func TestSummarizeBucketsRawStoredNames(t *testing.T) {
	repo := &fakeUsageRepo{}
	usage := NewUsageService(repo, nil)
	userID := uuid.New()
	now := time.Now().UTC()

	// Model names are stored as submitted; bucketing must tolerate case and
	// surrounding whitespace.
	require.NoError(t, usage.Record(context.Background(), userID, "  GPT-4 ", 100, 50, now))

	summary, err := usage.Summarize(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ModelUsage[models.FamilyGPT].Requests)
}

func TestSummarizeEmptyHistory(t *testing.T) {
	repo := &fakeUsageRepo{}
	usage := NewUsageService(repo, nil)

	summary, err := usage.Summarize(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Zero(t, summary.TotalRequests)
	assert.Zero(t, summary.EstimatedTotalCostUSD)
	require.Len(t, summary.ModelUsage, len(models.AllFamilies))
}

func TestRecordSurfacesRepositoryFailure(t *testing.T) {
	repo := &fakeUsageRepo{failCreate: true}
	usage := NewUsageService(repo, nil)

	err := usage.Record(context.Background(), uuid.New(), "gpt-4", 1, 1, time.Now())
	assert.Error(t, err)
	assert.Empty(t, repo.entries)
}

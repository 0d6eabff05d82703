package repository

import (
	"context"

	"ai-gateway-api/internal/models"
	"ai-gateway-api/internal/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageRepository is the append-only store behind the usage ledger.
type UsageRepository interface {
	Create(ctx context.Context, entry *models.UsageLog) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UsageLog, error)
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) Create(ctx context.Context, entry *models.UsageLog) error {
	result := r.db.WithContext(ctx).Create(entry)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to append usage log entry")
	}
	return nil
}

func (r *usageRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UsageLog, error) {
	var entries []models.UsageLog
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&entries)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to list usage log entries")
	}

	return entries, nil
}

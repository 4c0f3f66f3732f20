package repository

import (
	"context"
	"time"

	"base64-api/internal/errors"
	"base64-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsageLogRepository interface {
	Create(ctx context.Context, entry *models.UsageLog) error
	// CountByAPIKeySince counts entries for the key strictly after the
	// given instant. An entry created exactly at `since` is outside the
	// window.
	CountByAPIKeySince(ctx context.Context, apiKeyID uuid.UUID, since time.Time) (int64, error)
	GetUserLogs(ctx context.Context, userID string, from, to time.Time) ([]models.UsageLog, error)
}

type usageLogRepository struct {
	db *gorm.DB
}

func NewUsageLogRepository(db *gorm.DB) UsageLogRepository {
	return &usageLogRepository{db: db}
}

func (r *usageLogRepository) Create(ctx context.Context, entry *models.UsageLog) error {
	result := r.db.WithContext(ctx).Create(entry)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create usage log entry")
	}
	return nil
}

func (r *usageLogRepository) CountByAPIKeySince(ctx context.Context, apiKeyID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.UsageLog{}).
		Where("api_key_id = ? AND created_at > ?", apiKeyID, since).
		Count(&count)

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to count usage log entries")
	}

	return count, nil
}

func (r *usageLogRepository) GetUserLogs(ctx context.Context, userID string, from, to time.Time) ([]models.UsageLog, error) {
	var logs []models.UsageLog
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, from, to).
		Order("created_at desc").
		Find(&logs)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to get usage logs")
	}

	return logs, nil
}

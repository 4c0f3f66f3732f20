package repository

import (
	"context"
	"time"

	"base64-api/internal/errors"
	"base64-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IPRateLimitRepository interface {
	GetByIP(ctx context.Context, ip string) (*models.IPRateLimit, error)
	Create(ctx context.Context, record *models.IPRateLimit) error
	// Reset starts a fresh window for the IP: count back to 1, next reset
	// boundary recorded.
	Reset(ctx context.Context, ip string, resetAt time.Time) error
	// Increment bumps the counter atomically and returns the updated row.
	Increment(ctx context.Context, ip string) (*models.IPRateLimit, error)
}

type ipRateLimitRepository struct {
	db *gorm.DB
}

func NewIPRateLimitRepository(db *gorm.DB) IPRateLimitRepository {
	return &ipRateLimitRepository{db: db}
}

func (r *ipRateLimitRepository) GetByIP(ctx context.Context, ip string) (*models.IPRateLimit, error) {
	var record models.IPRateLimit
	result := r.db.WithContext(ctx).First(&record, "ip = ?", ip)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get rate limit record")
	}

	return &record, nil
}

func (r *ipRateLimitRepository) Create(ctx context.Context, record *models.IPRateLimit) error {
	result := r.db.WithContext(ctx).Create(record)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create rate limit record")
	}
	return nil
}

func (r *ipRateLimitRepository) Reset(ctx context.Context, ip string, resetAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.IPRateLimit{}).
		Where("ip = ?", ip).
		Updates(map[string]interface{}{
			"count":    1,
			"reset_at": resetAt,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to reset rate limit record")
	}

	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}

	return nil
}

func (r *ipRateLimitRepository) Increment(ctx context.Context, ip string) (*models.IPRateLimit, error) {
	var record models.IPRateLimit
	result := r.db.WithContext(ctx).Model(&record).
		Clauses(clause.Returning{}).
		Where("ip = ?", ip).
		UpdateColumn("count", gorm.Expr("count + 1"))

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to increment rate limit record")
	}

	if result.RowsAffected == 0 {
		return nil, errors.ErrNotFound
	}

	return &record, nil
}

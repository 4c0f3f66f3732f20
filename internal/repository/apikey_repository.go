package repository

import (
	"context"
	"time"

	"base64-api/internal/errors"
	"base64-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type APIKeyRepository interface {
	Create(ctx context.Context, apiKey *models.APIKey) error
	GetByKey(ctx context.Context, key string) (*models.APIKey, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.APIKey, error)
	UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	// DeleteOwned removes the key only when it belongs to userID. A key
	// owned by someone else is reported as ErrNotFound, same as an absent
	// one.
	DeleteOwned(ctx context.Context, id, userID uuid.UUID) error
}

type apiKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(ctx context.Context, apiKey *models.APIKey) error {
	result := r.db.WithContext(ctx).Create(apiKey)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create API key")
	}
	return nil
}

func (r *apiKeyRepository) GetByKey(ctx context.Context, key string) (*models.APIKey, error) {
	var apiKey models.APIKey
	result := r.db.WithContext(ctx).First(&apiKey, "key = ?", key)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get API key by key")
	}

	return &apiKey, nil
}

func (r *apiKeyRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.APIKey, error) {
	var keys []models.APIKey
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&keys)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to list API keys")
	}

	return keys, nil
}

func (r *apiKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("id = ?", id).
		UpdateColumn("last_used", usedAt)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update API key last_used")
	}

	return nil
}

func (r *apiKeyRepository) DeleteOwned(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.APIKey{}, "id = ? AND user_id = ?", id, userID)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete API key")
	}

	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}

	return nil
}

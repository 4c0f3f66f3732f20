package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"base64-api/internal/errors"
	"base64-api/internal/logger"
	"base64-api/internal/models"
	"base64-api/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// APIKeyPrefix tags every issued token so malformed credentials can be
// screened before a store lookup.
const APIKeyPrefix = "b64_"

const apiKeyCacheTTL = time.Minute

type APIKeyService interface {
	GenerateAPIKey() (string, error)
	CreateAPIKey(ctx context.Context, userID uuid.UUID, name string) (*models.APIKey, error)
	ListAPIKeys(ctx context.Context, userID uuid.UUID) ([]models.APIKey, error)
	// ValidateAPIKey resolves an opaque token to its key record. Absent and
	// disabled keys are both reported as ErrInvalidCredentials. Successful
	// validation updates the key's last_used timestamp.
	ValidateAPIKey(ctx context.Context, key string) (*models.APIKey, error)
	// RevokeAPIKey deletes the key iff it is owned by userID; otherwise
	// ErrNotFound, indistinguishable from a nonexistent id.
	RevokeAPIKey(ctx context.Context, id, userID uuid.UUID) error
}

type apiKeyService struct {
	apiKeyRepo       repository.APIKeyRepository
	cache            CacheService
	defaultRateLimit int
}

func NewAPIKeyService(apiKeyRepo repository.APIKeyRepository, cache CacheService, defaultRateLimit int) APIKeyService {
	return &apiKeyService{
		apiKeyRepo:       apiKeyRepo,
		cache:            cache,
		defaultRateLimit: defaultRateLimit,
	}
}

func (s *apiKeyService) GenerateAPIKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate API key")
	}
	return APIKeyPrefix + hex.EncodeToString(buf), nil
}

func (s *apiKeyService) CreateAPIKey(ctx context.Context, userID uuid.UUID, name string) (*models.APIKey, error) {
	key, err := s.GenerateAPIKey()
	if err != nil {
		return nil, err
	}

	apiKey := &models.APIKey{
		ID:        uuid.New(),
		UserID:    userID,
		Key:       key,
		Name:      name,
		RateLimit: s.defaultRateLimit,
		Enabled:   true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.apiKeyRepo.Create(ctx, apiKey); err != nil {
		return nil, err
	}

	return apiKey, nil
}

func (s *apiKeyService) ListAPIKeys(ctx context.Context, userID uuid.UUID) ([]models.APIKey, error) {
	return s.apiKeyRepo.ListByUserID(ctx, userID)
}

func (s *apiKeyService) ValidateAPIKey(ctx context.Context, key string) (*models.APIKey, error) {
	if !strings.HasPrefix(key, APIKeyPrefix) {
		return nil, errors.ErrInvalidCredentials
	}

	apiKey, err := s.lookup(ctx, key)
	if err != nil {
		return nil, err
	}

	if !apiKey.Enabled {
		return nil, errors.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.apiKeyRepo.UpdateLastUsed(ctx, apiKey.ID, now); err != nil {
		return nil, err
	}
	apiKey.LastUsed = &now

	return apiKey, nil
}

func (s *apiKeyService) RevokeAPIKey(ctx context.Context, id, userID uuid.UUID) error {
	// The token string is only needed to evict the cache entry, so the
	// extra lookup is skipped when no cache is configured.
	var keys []models.APIKey
	if s.cache != nil {
		listed, err := s.apiKeyRepo.ListByUserID(ctx, userID)
		if err != nil {
			return err
		}
		keys = listed
	}

	if err := s.apiKeyRepo.DeleteOwned(ctx, id, userID); err != nil {
		return err
	}

	for _, k := range keys {
		if k.ID == id {
			if err := s.cache.Delete(ctx, cacheKeyFor(k.Key)); err != nil {
				logger.Logger.WithFields(logrus.Fields{
					"error":  err,
					"key_id": id,
				}).Warn("Failed to evict API key from cache")
			}
		}
	}

	return nil
}

func (s *apiKeyService) lookup(ctx context.Context, key string) (*models.APIKey, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKeyFor(key)); err == nil {
			var apiKey models.APIKey
			if err := json.Unmarshal([]byte(cached), &apiKey); err == nil {
				return &apiKey, nil
			}
		}
	}

	apiKey, err := s.apiKeyRepo.GetByKey(ctx, key)
	if err != nil {
		if err == errors.ErrNotFound {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKeyFor(key), apiKey, apiKeyCacheTTL); err != nil {
			logger.Logger.WithFields(logrus.Fields{
				"error": err,
			}).Debug("Failed to cache API key")
		}
	}

	return apiKey, nil
}

func cacheKeyFor(key string) string {
	return "apikey:" + key
}

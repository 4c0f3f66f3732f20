package services

import (
	"context"
	"time"

	"base64-api/internal/models"
	"base64-api/internal/repository"

	"github.com/google/uuid"
)

type UsageService interface {
	Record(ctx context.Context, userID string, apiKeyID *uuid.UUID, endpoint, ip string) error
	GetUserLogs(ctx context.Context, userID string, from, to time.Time) ([]models.UsageLog, error)
}

type usageService struct {
	repo repository.UsageLogRepository
}

func NewUsageService(repo repository.UsageLogRepository) UsageService {
	return &usageService{repo: repo}
}

func (s *usageService) Record(ctx context.Context, userID string, apiKeyID *uuid.UUID, endpoint, ip string) error {
	entry := &models.UsageLog{
		UserID:    userID,
		APIKeyID:  apiKeyID,
		Endpoint:  endpoint,
		IP:        ip,
		CreatedAt: time.Now(),
	}
	return s.repo.Create(ctx, entry)
}

func (s *usageService) GetUserLogs(ctx context.Context, userID string, from, to time.Time) ([]models.UsageLog, error) {
	return s.repo.GetUserLogs(ctx, userID, from, to)
}

package services

import (
	"context"
	"time"

	"base64-api/internal/config"
	"base64-api/internal/errors"
	"base64-api/internal/models"
	"base64-api/internal/repository"
)

// QuotaDecision is the outcome of a single quota check.
type QuotaDecision struct {
	Allowed   bool
	Remaining int
	Limit     int
	// ResetAt is the start of the next window. Zero for API-key checks,
	// whose window slides instead of resetting.
	ResetAt time.Time
}

// QuotaService enforces the two quota policies: a stored counter with a
// midnight-aligned daily reset for anonymous callers, and a rolling 24h
// count over the usage log for API keys. The two are intentionally not
// unified; their reset semantics differ and both are observable.
type QuotaService interface {
	CheckIP(ctx context.Context, ip string) (*QuotaDecision, error)
	CheckAPIKey(ctx context.Context, apiKey *models.APIKey) (*QuotaDecision, error)
}

type quotaService struct {
	ipRepo    repository.IPRateLimitRepository
	usageRepo repository.UsageLogRepository
	cfg       *config.RateLimitConfig
	now       func() time.Time
}

func NewQuotaService(ipRepo repository.IPRateLimitRepository, usageRepo repository.UsageLogRepository, cfg *config.RateLimitConfig) QuotaService {
	return &quotaService{
		ipRepo:    ipRepo,
		usageRepo: usageRepo,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *quotaService) CheckIP(ctx context.Context, ip string) (*QuotaDecision, error) {
	now := s.now()
	limit := s.cfg.AnonymousLimit

	record, err := s.ipRepo.GetByIP(ctx, ip)
	if err != nil {
		if err != errors.ErrNotFound {
			return nil, err
		}

		// First request from this IP: open a window lazily.
		record = &models.IPRateLimit{
			IP:      ip,
			Count:   1,
			ResetAt: nextMidnight(now),
		}
		if err := s.ipRepo.Create(ctx, record); err != nil {
			return nil, err
		}
		return &QuotaDecision{
			Allowed:   true,
			Remaining: limit - 1,
			Limit:     limit,
			ResetAt:   record.ResetAt,
		}, nil
	}

	if !now.Before(record.ResetAt) {
		resetAt := nextMidnight(now)
		if err := s.ipRepo.Reset(ctx, ip, resetAt); err != nil {
			return nil, err
		}
		return &QuotaDecision{
			Allowed:   true,
			Remaining: limit - 1,
			Limit:     limit,
			ResetAt:   resetAt,
		}, nil
	}

	if record.Count >= limit {
		return &QuotaDecision{
			Allowed:   false,
			Remaining: 0,
			Limit:     limit,
			ResetAt:   record.ResetAt,
		}, nil
	}

	record, err = s.ipRepo.Increment(ctx, ip)
	if err != nil {
		return nil, err
	}

	remaining := limit - record.Count
	if remaining < 0 {
		remaining = 0
	}

	return &QuotaDecision{
		Allowed:   true,
		Remaining: remaining,
		Limit:     limit,
		ResetAt:   record.ResetAt,
	}, nil
}

func (s *quotaService) CheckAPIKey(ctx context.Context, apiKey *models.APIKey) (*QuotaDecision, error) {
	since := s.now().Add(-24 * time.Hour)

	count, err := s.usageRepo.CountByAPIKeySince(ctx, apiKey.ID, since)
	if err != nil {
		return nil, err
	}

	limit := apiKey.RateLimit
	if count >= int64(limit) {
		return &QuotaDecision{
			Allowed:   false,
			Remaining: 0,
			Limit:     limit,
		}, nil
	}

	return &QuotaDecision{
		Allowed:   true,
		Remaining: limit - int(count) - 1,
		Limit:     limit,
	}, nil
}

// nextMidnight returns the start of the next calendar day in local time.
func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}

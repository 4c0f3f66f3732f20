package services

import (
	"context"
	"testing"
	"time"

	"base64-api/internal/config"
	"base64-api/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuotaFixture(anonLimit int) (*quotaService, *fakeIPRateLimitRepo, *fakeUsageLogRepo) {
	ipRepo := newFakeIPRateLimitRepo()
	usageRepo := newFakeUsageLogRepo()
	cfg := &config.RateLimitConfig{
		AnonymousLimit:  anonLimit,
		DefaultKeyLimit: 100,
	}
	svc := NewQuotaService(ipRepo, usageRepo, cfg).(*quotaService)
	return svc, ipRepo, usageRepo
}

func TestCheckIPFreshAddress(t *testing.T) {
	svc, ipRepo, _ := newQuotaFixture(40)
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	decision, err := svc.CheckIP(context.Background(), "203.0.113.7")
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, 39, decision.Remaining)
	assert.Equal(t, 40, decision.Limit)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), decision.ResetAt)

	record, err := ipRepo.GetByIP(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, 1, record.Count)
}

func TestCheckIPExhaustsAtLimit(t *testing.T) {
	svc, ipRepo, _ := newQuotaFixture(40)
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ip := "203.0.113.8"
	var decision *QuotaDecision
	var err error
	for i := 0; i < 40; i++ {
		decision, err = svc.CheckIP(context.Background(), ip)
		require.NoError(t, err)
		require.True(t, decision.Allowed, "call %d should be allowed", i+1)
	}

	// 40th call succeeded with nothing left.
	assert.Equal(t, 0, decision.Remaining)

	// 41st call before the reset boundary is rejected.
	decision, err = svc.CheckIP(context.Background(), ip)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)

	// A rejected call must not bump the counter.
	record, err := ipRepo.GetByIP(context.Background(), ip)
	require.NoError(t, err)
	assert.Equal(t, 40, record.Count)
}

func TestCheckIPResetsAfterMidnight(t *testing.T) {
	svc, ipRepo, _ := newQuotaFixture(40)
	now := time.Date(2025, 6, 16, 0, 0, 1, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ip := "203.0.113.9"
	require.NoError(t, ipRepo.Create(context.Background(), &models.IPRateLimit{
		IP:      ip,
		Count:   40,
		ResetAt: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
	}))

	decision, err := svc.CheckIP(context.Background(), ip)
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, 39, decision.Remaining)
	assert.Equal(t, time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC), decision.ResetAt)

	record, err := ipRepo.GetByIP(context.Background(), ip)
	require.NoError(t, err)
	assert.Equal(t, 1, record.Count)
}

func TestCheckIPResetExactlyAtBoundary(t *testing.T) {
	svc, ipRepo, _ := newQuotaFixture(40)
	resetAt := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return resetAt }

	ip := "203.0.113.10"
	require.NoError(t, ipRepo.Create(context.Background(), &models.IPRateLimit{
		IP:      ip,
		Count:   40,
		ResetAt: resetAt,
	}))

	// now == resetAt opens a new window.
	decision, err := svc.CheckIP(context.Background(), ip)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 39, decision.Remaining)
}

func TestCheckIPStoreFailure(t *testing.T) {
	svc, ipRepo, _ := newQuotaFixture(40)
	ipRepo.fail = true

	_, err := svc.CheckIP(context.Background(), "203.0.113.11")
	assert.Error(t, err)
}

func TestCheckAPIKeySlidingWindow(t *testing.T) {
	svc, _, usageRepo := newQuotaFixture(40)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	apiKey := &models.APIKey{ID: uuid.New(), RateLimit: 100}

	for i := 0; i < 99; i++ {
		seedUsage(t, usageRepo, apiKey, now.Add(-time.Duration(i+1)*time.Minute))
	}

	// 99 logged calls: the 100th is allowed with nothing left after it.
	decision, err := svc.CheckAPIKey(context.Background(), apiKey)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
	assert.Equal(t, 100, decision.Limit)

	seedUsage(t, usageRepo, apiKey, now)

	// 100 logged calls in the window: the 101st is rejected.
	decision, err = svc.CheckAPIKey(context.Background(), apiKey)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
}

func TestCheckAPIKeyWindowBoundary(t *testing.T) {
	svc, _, usageRepo := newQuotaFixture(40)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	apiKey := &models.APIKey{ID: uuid.New(), RateLimit: 1}

	// An entry exactly 24h old sits outside the window.
	seedUsage(t, usageRepo, apiKey, now.Add(-24*time.Hour))

	decision, err := svc.CheckAPIKey(context.Background(), apiKey)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	// An entry just inside the window is counted.
	seedUsage(t, usageRepo, apiKey, now.Add(-24*time.Hour).Add(time.Second))

	decision, err = svc.CheckAPIKey(context.Background(), apiKey)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
}

func TestCheckAPIKeyStoreFailure(t *testing.T) {
	svc, _, usageRepo := newQuotaFixture(40)
	usageRepo.fail = true

	apiKey := &models.APIKey{ID: uuid.New(), RateLimit: 100}
	_, err := svc.CheckAPIKey(context.Background(), apiKey)
	assert.Error(t, err)
}

func TestNextMidnight(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 12, 31, 23, 59, 59, 0, loc)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, loc), nextMidnight(now))

	now = time.Date(2025, 6, 15, 0, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, loc), nextMidnight(now))
}

func seedUsage(t *testing.T, repo *fakeUsageLogRepo, apiKey *models.APIKey, createdAt time.Time) {
	t.Helper()
	id := apiKey.ID
	require.NoError(t, repo.Create(context.Background(), &models.UsageLog{
		UserID:    apiKey.UserID.String(),
		APIKeyID:  &id,
		Endpoint:  "/convert",
		CreatedAt: createdAt,
	}))
}

package services

import (
	"context"
	"sync"
	"time"

	"base64-api/internal/errors"
	"base64-api/internal/models"

	"github.com/google/uuid"
)

type fakeIPRateLimitRepo struct {
	mu      sync.Mutex
	records map[string]*models.IPRateLimit
	fail    bool
}

func newFakeIPRateLimitRepo() *fakeIPRateLimitRepo {
	return &fakeIPRateLimitRepo{records: make(map[string]*models.IPRateLimit)}
}

func (r *fakeIPRateLimitRepo) GetByIP(ctx context.Context, ip string) (*models.IPRateLimit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errors.ErrDatabaseError
	}
	record, ok := r.records[ip]
	if !ok {
		return nil, errors.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakeIPRateLimitRepo) Create(ctx context.Context, record *models.IPRateLimit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.ErrDatabaseError
	}
	copied := *record
	r.records[record.IP] = &copied
	return nil
}

func (r *fakeIPRateLimitRepo) Reset(ctx context.Context, ip string, resetAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.ErrDatabaseError
	}
	record, ok := r.records[ip]
	if !ok {
		return errors.ErrNotFound
	}
	record.Count = 1
	record.ResetAt = resetAt
	return nil
}

func (r *fakeIPRateLimitRepo) Increment(ctx context.Context, ip string) (*models.IPRateLimit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errors.ErrDatabaseError
	}
	record, ok := r.records[ip]
	if !ok {
		return nil, errors.ErrNotFound
	}
	record.Count++
	copied := *record
	return &copied, nil
}

type fakeUsageLogRepo struct {
	mu      sync.Mutex
	entries []models.UsageLog
	fail    bool
}

func newFakeUsageLogRepo() *fakeUsageLogRepo {
	return &fakeUsageLogRepo{}
}

func (r *fakeUsageLogRepo) Create(ctx context.Context, entry *models.UsageLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.ErrDatabaseError
	}
	entry.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeUsageLogRepo) CountByAPIKeySince(ctx context.Context, apiKeyID uuid.UUID, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return 0, errors.ErrDatabaseError
	}
	var count int64
	for _, e := range r.entries {
		if e.APIKeyID != nil && *e.APIKeyID == apiKeyID && e.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeUsageLogRepo) GetUserLogs(ctx context.Context, userID string, from, to time.Time) ([]models.UsageLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errors.ErrDatabaseError
	}
	var logs []models.UsageLog
	for _, e := range r.entries {
		if e.UserID == userID && !e.CreatedAt.Before(from) && !e.CreatedAt.After(to) {
			logs = append(logs, e)
		}
	}
	return logs, nil
}

type fakeAPIKeyRepo struct {
	mu        sync.Mutex
	keys      map[uuid.UUID]*models.APIKey
	getCalls  int
	listCalls int
	fail      bool
}

func newFakeAPIKeyRepo() *fakeAPIKeyRepo {
	return &fakeAPIKeyRepo{keys: make(map[uuid.UUID]*models.APIKey)}
}

func (r *fakeAPIKeyRepo) Create(ctx context.Context, apiKey *models.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.ErrDatabaseError
	}
	copied := *apiKey
	r.keys[apiKey.ID] = &copied
	return nil
}

func (r *fakeAPIKeyRepo) GetByKey(ctx context.Context, key string) (*models.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.fail {
		return nil, errors.ErrDatabaseError
	}
	for _, k := range r.keys {
		if k.Key == key {
			copied := *k
			return &copied, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (r *fakeAPIKeyRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.fail {
		return nil, errors.ErrDatabaseError
	}
	var keys []models.APIKey
	for _, k := range r.keys {
		if k.UserID == userID {
			keys = append(keys, *k)
		}
	}
	return keys, nil
}

func (r *fakeAPIKeyRepo) UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.ErrDatabaseError
	}
	if k, ok := r.keys[id]; ok {
		t := usedAt
		k.LastUsed = &t
	}
	return nil
}

func (r *fakeAPIKeyRepo) DeleteOwned(ctx context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.ErrDatabaseError
	}
	k, ok := r.keys[id]
	if !ok || k.UserID != userID {
		return errors.ErrNotFound
	}
	delete(r.keys, id)
	return nil
}

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*models.User
	lastCtx context.Context
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return errors.ErrAlreadyExists
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastCtx = ctx
	user, ok := r.users[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

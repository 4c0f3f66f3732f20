package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type APIKey struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	Key       string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"key"`
	Name      string     `gorm:"type:varchar(255)" json:"name,omitempty"`
	RateLimit int        `gorm:"not null" json:"rate_limit"`
	Enabled   bool       `gorm:"not null;default:true" json:"enabled"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

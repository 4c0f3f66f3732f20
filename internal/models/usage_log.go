package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageLog is one row per processed conversion call. Rows are append-only;
// nothing in the service mutates or deletes them. Anonymous calls carry an
// empty UserID and a nil APIKeyID.
type UsageLog struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	UserID    string     `gorm:"index" json:"user_id,omitempty"`
	APIKeyID  *uuid.UUID `gorm:"type:uuid;index" json:"api_key_id,omitempty"`
	Endpoint  string     `gorm:"index" json:"endpoint"`
	IP        string     `json:"ip,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

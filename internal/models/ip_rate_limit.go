package models

import (
	"time"
)

// IPRateLimit is the fixed-window counter backing the anonymous quota. One
// row per distinct IP, created lazily on first use and never deleted.
type IPRateLimit struct {
	IP        string    `gorm:"type:varchar(64);primaryKey" json:"ip"`
	Count     int       `gorm:"not null" json:"count"`
	ResetAt   time.Time `gorm:"not null" json:"reset_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

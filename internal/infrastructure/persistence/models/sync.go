package models

import (
	"time"

	"github.com/orderhub/backend/internal/domain/integration"
)

// KeySequenceModel backs the surrogate key allocator. One row per
// sequence; Value is the last key handed out.
type KeySequenceModel struct {
	Name  string `gorm:"type:varchar(50);primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (KeySequenceModel) TableName() string {
	return "key_sequences"
}

// SyncStateModel records the last completed pull window per platform.
type SyncStateModel struct {
	Platform  integration.PlatformCode `gorm:"type:varchar(20);primaryKey"`
	Watermark time.Time                `gorm:"not null"`
	UpdatedAt time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncStateModel) TableName() string {
	return "sync_states"
}

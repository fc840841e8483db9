package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/infrastructure/persistence/models"
)

// GormKeyAllocator implements canonical.KeyAllocator on a single-row
// counter table. The increment happens in one UPDATE ... RETURNING
// statement, so concurrent callers always receive distinct keys.
type GormKeyAllocator struct {
	db *gorm.DB
}

// NewGormKeyAllocator creates a new GormKeyAllocator
func NewGormKeyAllocator(db *gorm.DB) *GormKeyAllocator {
	return &GormKeyAllocator{db: db}
}

// Next atomically allocates the next key for the named sequence,
// creating the sequence row on first use.
func (a *GormKeyAllocator) Next(ctx context.Context, sequence string) (int64, error) {
	if err := a.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.KeySequenceModel{Name: sequence, Value: 0}).Error; err != nil {
		return 0, fmt.Errorf("key allocator: seed sequence %s: %w", sequence, err)
	}

	var value int64
	if err := a.db.WithContext(ctx).
		Raw("UPDATE key_sequences SET value = value + 1 WHERE name = ? RETURNING value", sequence).
		Scan(&value).Error; err != nil {
		return 0, fmt.Errorf("key allocator: advance sequence %s: %w", sequence, err)
	}
	return value, nil
}

// Ensure GormKeyAllocator implements the allocator port
var _ canonical.KeyAllocator = (*GormKeyAllocator)(nil)

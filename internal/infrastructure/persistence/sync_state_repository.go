package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/domain/integration"
	"github.com/orderhub/backend/internal/infrastructure/persistence/models"
)

// GormSyncStateRepository implements canonical.SyncStateRepository
// using GORM. It is the durable record behind the watermark cache.
type GormSyncStateRepository struct {
	db *gorm.DB
}

// NewGormSyncStateRepository creates a new GormSyncStateRepository
func NewGormSyncStateRepository(db *gorm.DB) *GormSyncStateRepository {
	return &GormSyncStateRepository{db: db}
}

// GetWatermark returns the last completed pull window for a platform.
// The second return value is false when the platform has never synced.
func (r *GormSyncStateRepository) GetWatermark(ctx context.Context, platform integration.PlatformCode) (time.Time, bool, error) {
	var model models.SyncStateModel
	if err := r.db.WithContext(ctx).First(&model, "platform = ?", platform).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return model.Watermark, true, nil
}

// SetWatermark records the last completed pull window for a platform
func (r *GormSyncStateRepository) SetWatermark(ctx context.Context, platform integration.PlatformCode, watermark time.Time) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{"watermark", "updated_at"}),
		}).
		Create(&models.SyncStateModel{
			Platform:  platform,
			Watermark: watermark,
			UpdatedAt: time.Now(),
		}).Error
}

// Ensure GormSyncStateRepository implements the repository port
var _ canonical.SyncStateRepository = (*GormSyncStateRepository)(nil)

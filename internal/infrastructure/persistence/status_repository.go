package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/domain/integration"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/infrastructure/persistence/models"
)

// GormStatusRepository implements canonical.StatusRepository using GORM
type GormStatusRepository struct {
	db   *gorm.DB
	keys canonical.KeyAllocator
}

// NewGormStatusRepository creates a new GormStatusRepository
func NewGormStatusRepository(db *gorm.DB, keys canonical.KeyAllocator) *GormStatusRepository {
	return &GormStatusRepository{db: db, keys: keys}
}

// FindByPlatformCode finds a taxonomy row by its (platform, code) pair
func (r *GormStatusRepository) FindByPlatformCode(ctx context.Context, platform integration.PlatformCode, platformStatusCode string) (*canonical.Status, error) {
	var model models.StatusModel
	if err := r.db.WithContext(ctx).
		Where("platform = ? AND platform_status_code = ?", platform, platformStatusCode).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetOrCreate resolves a taxonomy row, inserting it with a freshly
// allocated StatusKey on first sight. The unique index on
// (platform, platform_status_code) makes the losing insert of a race a
// no-op; the final fetch returns the winner either way.
func (r *GormStatusRepository) GetOrCreate(ctx context.Context, status *canonical.Status) (*canonical.Status, error) {
	existing, err := r.FindByPlatformCode(ctx, status.Platform, status.PlatformStatusCode)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	key, err := r.keys.Next(ctx, canonical.SequenceStatusKey)
	if err != nil {
		return nil, err
	}

	model := models.StatusModelFromDomain(status)
	model.StatusKey = key
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now()
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform"}, {Name: "platform_status_code"}},
			DoNothing: true,
		}).
		Create(model).Error; err != nil {
		return nil, err
	}

	return r.FindByPlatformCode(ctx, status.Platform, status.PlatformStatusCode)
}

// Ensure GormStatusRepository implements the repository port
var _ canonical.StatusRepository = (*GormStatusRepository)(nil)

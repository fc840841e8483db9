package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/infrastructure/persistence/models"
)

// GormProductRepository implements canonical.ProductRepository using GORM
type GormProductRepository struct {
	db   *gorm.DB
	keys canonical.KeyAllocator
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB, keys canonical.KeyAllocator) *GormProductRepository {
	return &GormProductRepository{db: db, keys: keys}
}

// Upsert inserts a catalog row for an unseen (platform, sku, listing)
// triple or refreshes the name of an existing one. ProductKey is
// allocated once on first insert and never changes.
func (r *GormProductRepository) Upsert(ctx context.Context, product *canonical.Product) error {
	var existing models.ProductModel
	err := r.db.WithContext(ctx).
		Where("platform = ? AND sku = ? AND platform_product_id = ?",
			product.Platform, product.SKU, product.PlatformProductID).
		First(&existing).Error
	now := time.Now()

	if err == nil {
		product.ProductKey = existing.ProductKey
		if existing.Name == product.Name {
			return nil
		}
		return r.db.WithContext(ctx).
			Model(&models.ProductModel{}).
			Where("product_key = ?", existing.ProductKey).
			Updates(map[string]any{"name": product.Name, "updated_at": now}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	key, err := r.keys.Next(ctx, canonical.SequenceProductKey)
	if err != nil {
		return err
	}

	model := models.ProductModelFromDomain(product)
	model.ProductKey = key
	model.CreatedAt = now
	model.UpdatedAt = now

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform"}, {Name: "sku"}, {Name: "platform_product_id"}},
			DoNothing: true,
		}).
		Create(model).Error; err != nil {
		return err
	}

	product.ProductKey = key
	return nil
}

// Ensure GormProductRepository implements the repository port
var _ canonical.ProductRepository = (*GormProductRepository)(nil)

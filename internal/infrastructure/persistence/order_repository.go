package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements canonical.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByOrderID finds an order with its items by the platform-qualified ID
func (r *GormOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*canonical.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	var itemModels []models.OrderItemModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("item_sequence").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	order := model.ToDomain()
	order.Items = make([]canonical.OrderItem, len(itemModels))
	for i, item := range itemModels {
		order.Items[i] = item.ToDomain()
	}
	return order, nil
}

// ExistsByOrderID reports whether the order has been ingested before
func (r *GormOrderRepository) ExistsByOrderID(ctx context.Context, orderID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Upsert inserts or updates the order row and replaces its items in one
// transaction. created_at survives re-ingestion; everything else
// reflects the latest pull.
func (r *GormOrderRepository) Upsert(ctx context.Context, order *canonical.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		model := models.OrderModelFromDomain(order)
		if model.CreatedAt.IsZero() {
			model.CreatedAt = now
		}
		model.UpdatedAt = now

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"customer_id",
				"shop_id",
				"status_key",
				"gross_revenue",
				"currency",
				"ordered_at",
				"platform_updated_at",
				"raw_data",
				"updated_at",
			}),
		}).Create(model).Error; err != nil {
			return err
		}

		if err := tx.Where("order_id = ?", order.OrderID).
			Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		for i := range order.Items {
			item := order.Items[i]
			item.OrderID = order.OrderID
			if err := tx.Create(models.OrderItemModelFromDomain(&item)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormOrderRepository implements the repository port
var _ canonical.OrderRepository = (*GormOrderRepository)(nil)

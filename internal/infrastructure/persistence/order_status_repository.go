package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/infrastructure/persistence/models"
)

// GormOrderStatusRepository implements canonical.OrderStatusRepository
// using GORM. The history table is append-only; rows are never updated
// or deleted.
type GormOrderStatusRepository struct {
	db *gorm.DB
}

// NewGormOrderStatusRepository creates a new GormOrderStatusRepository
func NewGormOrderStatusRepository(db *gorm.DB) *GormOrderStatusRepository {
	return &GormOrderStatusRepository{db: db}
}

// Append records a transition. Re-appending an identical row is a no-op
// thanks to the composite primary key.
func (r *GormOrderStatusRepository) Append(ctx context.Context, transition *canonical.OrderStatus) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(models.OrderStatusModelFromDomain(transition)).Error
}

// Latest returns the most recent transition for an order
func (r *GormOrderStatusRepository) Latest(ctx context.Context, orderID string) (*canonical.OrderStatus, error) {
	var model models.OrderStatusModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("transition_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	transition := model.ToDomain()
	return &transition, nil
}

// History returns all transitions for an order ordered by time
func (r *GormOrderStatusRepository) History(ctx context.Context, orderID string) ([]canonical.OrderStatus, error) {
	var historyModels []models.OrderStatusModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("transition_at").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}

	history := make([]canonical.OrderStatus, len(historyModels))
	for i, model := range historyModels {
		history[i] = model.ToDomain()
	}
	return history, nil
}

// UpsertDetail replaces the per-order enrichment row
func (r *GormOrderStatusRepository) UpsertDetail(ctx context.Context, detail *canonical.OrderStatusDetail) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status_key",
				"standard_status_code",
				"is_active",
				"is_refundable",
				"is_final",
				"updated_at",
			}),
		}).
		Create(models.OrderStatusDetailModelFromDomain(detail)).Error
}

// Ensure GormOrderStatusRepository implements the repository port
var _ canonical.OrderStatusRepository = (*GormOrderStatusRepository)(nil)

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

// GormCustomerRepository implements canonical.CustomerRepository using GORM
type GormCustomerRepository struct {
	db   *gorm.DB
	keys canonical.KeyAllocator
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB, keys canonical.KeyAllocator) *GormCustomerRepository {
	return &GormCustomerRepository{db: db, keys: keys}
}

// FindByCustomerID finds a customer by its deterministic identity key
func (r *GormCustomerRepository) FindByCustomerID(ctx context.Context, customerID string) (*canonical.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetOrCreate resolves a customer, inserting it with a freshly
// allocated CustomerKey when absent. An insert that loses a race on
// customer_id is dropped and the winner's row returned, so concurrent
// resolution of the same buyer yields exactly one row.
func (r *GormCustomerRepository) GetOrCreate(ctx context.Context, customer *canonical.Customer) (*canonical.Customer, error) {
	existing, err := r.FindByCustomerID(ctx, customer.CustomerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	key, err := r.keys.Next(ctx, canonical.SequenceCustomerKey)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	model := models.CustomerModelFromDomain(customer)
	model.CustomerKey = key
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
	}
	model.UpdatedAt = now

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			DoNothing: true,
		}).
		Create(model).Error; err != nil {
		return nil, err
	}

	return r.FindByCustomerID(ctx, customer.CustomerID)
}

// Ensure GormCustomerRepository implements the repository port
var _ canonical.CustomerRepository = (*GormCustomerRepository)(nil)

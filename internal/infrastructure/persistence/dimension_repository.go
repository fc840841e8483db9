package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/infrastructure/persistence/models"
)

// GormDimensionRepository implements canonical.DimensionRepository
// using GORM. Each dimension row is keyed by order_id; the surrogate
// key is allocated on first insert and kept stable across upserts.
type GormDimensionRepository struct {
	db   *gorm.DB
	keys canonical.KeyAllocator
}

// NewGormDimensionRepository creates a new GormDimensionRepository
func NewGormDimensionRepository(db *gorm.DB, keys canonical.KeyAllocator) *GormDimensionRepository {
	return &GormDimensionRepository{db: db, keys: keys}
}

// UpsertPayment inserts or replaces the payment dimension for an order
func (r *GormDimensionRepository) UpsertPayment(ctx context.Context, payment *canonical.PaymentInfo) error {
	var existing models.PaymentModel
	err := r.db.WithContext(ctx).Where("order_id = ?", payment.OrderID).First(&existing).Error
	if err == nil {
		payment.PaymentKey = existing.PaymentKey
		return r.db.WithContext(ctx).
			Model(&models.PaymentModel{}).
			Where("payment_key = ?", existing.PaymentKey).
			Updates(map[string]any{
				"method":     payment.Method,
				"cod_amount": payment.CodAmount,
				"is_cod":     payment.IsCod,
				"currency":   payment.Currency,
			}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	key, err := r.keys.Next(ctx, canonical.SequencePaymentKey)
	if err != nil {
		return err
	}
	model := models.PaymentModelFromDomain(payment)
	model.PaymentKey = key
	if err := r.createDimension(ctx, model); err != nil {
		return err
	}
	payment.PaymentKey = key
	return nil
}

// UpsertShipping inserts or replaces the fulfillment dimension for an order
func (r *GormDimensionRepository) UpsertShipping(ctx context.Context, shipping *canonical.ShippingInfo) error {
	var existing models.ShippingModel
	err := r.db.WithContext(ctx).Where("order_id = ?", shipping.OrderID).First(&existing).Error
	if err == nil {
		shipping.ShippingKey = existing.ShippingKey
		return r.db.WithContext(ctx).
			Model(&models.ShippingModel{}).
			Where("shipping_key = ?", existing.ShippingKey).
			Updates(map[string]any{
				"carrier":             shipping.Carrier,
				"tracking_number":     shipping.TrackingNumber,
				"shipping_fee":        shipping.ShippingFee,
				"receiver_name":       shipping.ReceiverName,
				"receiver_phone_hash": shipping.ReceiverPhoneHash,
			}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	key, err := r.keys.Next(ctx, canonical.SequenceShippingKey)
	if err != nil {
		return err
	}
	model := models.ShippingModelFromDomain(shipping)
	model.ShippingKey = key
	if err := r.createDimension(ctx, model); err != nil {
		return err
	}
	shipping.ShippingKey = key
	return nil
}

// UpsertGeography inserts or replaces the delivery-location dimension for an order
func (r *GormDimensionRepository) UpsertGeography(ctx context.Context, geography *canonical.GeographyInfo) error {
	var existing models.GeographyModel
	err := r.db.WithContext(ctx).Where("order_id = ?", geography.OrderID).First(&existing).Error
	if err == nil {
		geography.GeographyKey = existing.GeographyKey
		return r.db.WithContext(ctx).
			Model(&models.GeographyModel{}).
			Where("geography_key = ?", existing.GeographyKey).
			Updates(map[string]any{
				"province": geography.Province,
				"district": geography.District,
				"commune":  geography.Commune,
				"address":  geography.Address,
			}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	key, err := r.keys.Next(ctx, canonical.SequenceGeographyKey)
	if err != nil {
		return err
	}
	model := models.GeographyModelFromDomain(geography)
	model.GeographyKey = key
	if err := r.createDimension(ctx, model); err != nil {
		return err
	}
	geography.GeographyKey = key
	return nil
}

// UpsertProcessingDate inserts or replaces the calendar dimension for an order
func (r *GormDimensionRepository) UpsertProcessingDate(ctx context.Context, date *canonical.ProcessingDateInfo) error {
	var existing models.ProcessingDateModel
	err := r.db.WithContext(ctx).Where("order_id = ?", date.OrderID).First(&existing).Error
	if err == nil {
		date.DateKey = existing.DateKey
		return r.db.WithContext(ctx).
			Model(&models.ProcessingDateModel{}).
			Where("date_key = ?", existing.DateKey).
			Updates(map[string]any{
				"ordered_date": date.OrderedDate,
				"year":         date.Year,
				"month":        date.Month,
				"day":          date.Day,
				"weekday":      date.Weekday,
				"processed_at": date.ProcessedAt,
			}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	key, err := r.keys.Next(ctx, canonical.SequenceDateKey)
	if err != nil {
		return err
	}
	model := models.ProcessingDateModelFromDomain(date)
	model.DateKey = key
	if err := r.createDimension(ctx, model); err != nil {
		return err
	}
	date.DateKey = key
	return nil
}

// createDimension inserts a dimension row, dropping the insert when a
// concurrent upsert for the same order_id won the race.
func (r *GormDimensionRepository) createDimension(ctx context.Context, model any) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoNothing: true,
		}).
		Create(model).Error
}

// Ensure GormDimensionRepository implements the repository port
var _ canonical.DimensionRepository = (*GormDimensionRepository)(nil)

package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderhub/backend/internal/domain/canonical"
)

// PaymentModel is the payment dimension row for an order.
type PaymentModel struct {
	PaymentKey int64           `gorm:"primaryKey;autoIncrement:false"`
	OrderID    string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Method     string          `gorm:"type:varchar(50)"`
	CodAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsCod      bool            `gorm:"not null;default:false"`
	Currency   string          `gorm:"type:varchar(10);not null;default:'VND'"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "order_payments"
}

// ToDomain converts the persistence model to a domain PaymentInfo.
func (m *PaymentModel) ToDomain() *canonical.PaymentInfo {
	return &canonical.PaymentInfo{
		PaymentKey: m.PaymentKey,
		OrderID:    m.OrderID,
		Method:     m.Method,
		CodAmount:  m.CodAmount,
		IsCod:      m.IsCod,
		Currency:   m.Currency,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain PaymentInfo.
func PaymentModelFromDomain(p *canonical.PaymentInfo) *PaymentModel {
	return &PaymentModel{
		PaymentKey: p.PaymentKey,
		OrderID:    p.OrderID,
		Method:     p.Method,
		CodAmount:  p.CodAmount,
		IsCod:      p.IsCod,
		Currency:   p.Currency,
	}
}

// ShippingModel is the fulfillment dimension row for an order. The
// receiver phone is stored hashed only.
type ShippingModel struct {
	ShippingKey       int64           `gorm:"primaryKey;autoIncrement:false"`
	OrderID           string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Carrier           string          `gorm:"type:varchar(100)"`
	TrackingNumber    string          `gorm:"type:varchar(100);index"`
	ShippingFee       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReceiverName      string          `gorm:"type:varchar(200)"`
	ReceiverPhoneHash string          `gorm:"type:char(64)"`
}

// TableName returns the table name for GORM
func (ShippingModel) TableName() string {
	return "order_shipping"
}

// ToDomain converts the persistence model to a domain ShippingInfo.
func (m *ShippingModel) ToDomain() *canonical.ShippingInfo {
	return &canonical.ShippingInfo{
		ShippingKey:       m.ShippingKey,
		OrderID:           m.OrderID,
		Carrier:           m.Carrier,
		TrackingNumber:    m.TrackingNumber,
		ShippingFee:       m.ShippingFee,
		ReceiverName:      m.ReceiverName,
		ReceiverPhoneHash: m.ReceiverPhoneHash,
	}
}

// ShippingModelFromDomain creates a new persistence model from a domain ShippingInfo.
func ShippingModelFromDomain(s *canonical.ShippingInfo) *ShippingModel {
	return &ShippingModel{
		ShippingKey:       s.ShippingKey,
		OrderID:           s.OrderID,
		Carrier:           s.Carrier,
		TrackingNumber:    s.TrackingNumber,
		ShippingFee:       s.ShippingFee,
		ReceiverName:      s.ReceiverName,
		ReceiverPhoneHash: s.ReceiverPhoneHash,
	}
}

// GeographyModel is the delivery-location dimension row for an order.
type GeographyModel struct {
	GeographyKey int64  `gorm:"primaryKey;autoIncrement:false"`
	OrderID      string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Province     string `gorm:"type:varchar(100);index"`
	District     string `gorm:"type:varchar(100)"`
	Commune      string `gorm:"type:varchar(100)"`
	Address      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (GeographyModel) TableName() string {
	return "order_geography"
}

// ToDomain converts the persistence model to a domain GeographyInfo.
func (m *GeographyModel) ToDomain() *canonical.GeographyInfo {
	return &canonical.GeographyInfo{
		GeographyKey: m.GeographyKey,
		OrderID:      m.OrderID,
		Province:     m.Province,
		District:     m.District,
		Commune:      m.Commune,
		Address:      m.Address,
	}
}

// GeographyModelFromDomain creates a new persistence model from a domain GeographyInfo.
func GeographyModelFromDomain(g *canonical.GeographyInfo) *GeographyModel {
	return &GeographyModel{
		GeographyKey: g.GeographyKey,
		OrderID:      g.OrderID,
		Province:     g.Province,
		District:     g.District,
		Commune:      g.Commune,
		Address:      g.Address,
	}
}

// ProcessingDateModel records calendar attributes of the order date
// plus when the order was processed.
type ProcessingDateModel struct {
	DateKey     int64     `gorm:"primaryKey;autoIncrement:false"`
	OrderID     string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	OrderedDate time.Time `gorm:"type:date;not null;index"`
	Year        int       `gorm:"not null"`
	Month       int       `gorm:"not null"`
	Day         int       `gorm:"not null"`
	Weekday     int       `gorm:"not null"`
	ProcessedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProcessingDateModel) TableName() string {
	return "order_processing_dates"
}

// ToDomain converts the persistence model to a domain ProcessingDateInfo.
func (m *ProcessingDateModel) ToDomain() *canonical.ProcessingDateInfo {
	return &canonical.ProcessingDateInfo{
		DateKey:     m.DateKey,
		OrderID:     m.OrderID,
		OrderedDate: m.OrderedDate,
		Year:        m.Year,
		Month:       m.Month,
		Day:         m.Day,
		Weekday:     m.Weekday,
		ProcessedAt: m.ProcessedAt,
	}
}

// ProcessingDateModelFromDomain creates a new persistence model from a domain ProcessingDateInfo.
func ProcessingDateModelFromDomain(d *canonical.ProcessingDateInfo) *ProcessingDateModel {
	return &ProcessingDateModel{
		DateKey:     d.DateKey,
		OrderID:     d.OrderID,
		OrderedDate: d.OrderedDate,
		Year:        d.Year,
		Month:       d.Month,
		Day:         d.Day,
		Weekday:     d.Weekday,
		ProcessedAt: d.ProcessedAt,
	}
}

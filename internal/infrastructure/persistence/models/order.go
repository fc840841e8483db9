package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/domain/integration"
)

// OrderModel is the persistence model for the canonical Order.
type OrderModel struct {
	OrderID           string                   `gorm:"type:varchar(100);primaryKey"`
	Platform          integration.PlatformCode `gorm:"type:varchar(20);not null;index"`
	CustomerID        string                   `gorm:"type:varchar(64);not null;index"`
	ShopID            string                   `gorm:"type:varchar(50)"`
	StatusKey         int64                    `gorm:"not null;index"`
	GrossRevenue      decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Currency          string                   `gorm:"type:varchar(10);not null;default:'VND'"`
	OrderedAt         time.Time                `gorm:"not null;index"`
	PlatformUpdatedAt time.Time                `gorm:"index"`
	RawData           string                   `gorm:"type:jsonb"`
	CreatedAt         time.Time                `gorm:"not null"`
	UpdatedAt         time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order. Items are
// loaded separately by the repository.
func (m *OrderModel) ToDomain() *canonical.Order {
	return &canonical.Order{
		OrderID:           m.OrderID,
		Platform:          m.Platform,
		CustomerID:        m.CustomerID,
		ShopID:            m.ShopID,
		StatusKey:         m.StatusKey,
		GrossRevenue:      m.GrossRevenue,
		Currency:          m.Currency,
		OrderedAt:         m.OrderedAt,
		PlatformUpdatedAt: m.PlatformUpdatedAt,
		RawData:           m.RawData,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *canonical.Order) {
	m.OrderID = o.OrderID
	m.Platform = o.Platform
	m.CustomerID = o.CustomerID
	m.ShopID = o.ShopID
	m.StatusKey = o.StatusKey
	m.GrossRevenue = o.GrossRevenue
	m.Currency = o.Currency
	m.OrderedAt = o.OrderedAt
	m.PlatformUpdatedAt = o.PlatformUpdatedAt
	m.RawData = o.RawData
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *canonical.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for one order line.
type OrderItemModel struct {
	OrderID           string          `gorm:"type:varchar(100);primaryKey"`
	ItemSequence      int             `gorm:"primaryKey"`
	SKU               string          `gorm:"type:varchar(100);index"`
	PlatformProductID string          `gorm:"type:varchar(100);index"`
	ProductName       string          `gorm:"type:varchar(255)"`
	VariationName     string          `gorm:"type:varchar(255)"`
	Quantity          int             `gorm:"not null;default:1"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() canonical.OrderItem {
	return canonical.OrderItem{
		OrderID:           m.OrderID,
		ItemSequence:      m.ItemSequence,
		SKU:               m.SKU,
		PlatformProductID: m.PlatformProductID,
		ProductName:       m.ProductName,
		VariationName:     m.VariationName,
		Quantity:          m.Quantity,
		UnitPrice:         m.UnitPrice,
		TotalPrice:        m.TotalPrice,
	}
}

// OrderItemModelFromDomain creates a new persistence model from a domain OrderItem.
func OrderItemModelFromDomain(item *canonical.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		OrderID:           item.OrderID,
		ItemSequence:      item.ItemSequence,
		SKU:               item.SKU,
		PlatformProductID: item.PlatformProductID,
		ProductName:       item.ProductName,
		VariationName:     item.VariationName,
		Quantity:          item.Quantity,
		UnitPrice:         item.UnitPrice,
		TotalPrice:        item.TotalPrice,
	}
}

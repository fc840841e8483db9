package models

import (
	"time"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/domain/integration"
)

// ProductModel is the persistence model for a catalog row. The same SKU
// may appear once per platform listing, so uniqueness spans all three
// columns.
type ProductModel struct {
	ProductKey        int64                    `gorm:"primaryKey;autoIncrement:false"`
	SKU               string                   `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_listing,priority:2"`
	PlatformProductID string                   `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_listing,priority:3"`
	Platform          integration.PlatformCode `gorm:"type:varchar(20);not null;uniqueIndex:idx_product_listing,priority:1"`
	Name              string                   `gorm:"type:varchar(255)"`
	CreatedAt         time.Time                `gorm:"not null"`
	UpdatedAt         time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *canonical.Product {
	return &canonical.Product{
		ProductKey:        m.ProductKey,
		SKU:               m.SKU,
		PlatformProductID: m.PlatformProductID,
		Platform:          m.Platform,
		Name:              m.Name,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *canonical.Product) *ProductModel {
	return &ProductModel{
		ProductKey:        p.ProductKey,
		SKU:               p.SKU,
		PlatformProductID: p.PlatformProductID,
		Platform:          p.Platform,
		Name:              p.Name,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

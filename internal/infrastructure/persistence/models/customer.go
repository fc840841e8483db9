package models

import (
	"time"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/domain/integration"
)

// CustomerModel is the persistence model for the canonical Customer.
type CustomerModel struct {
	CustomerID  string                   `gorm:"type:varchar(64);primaryKey"`
	CustomerKey int64                    `gorm:"not null;uniqueIndex"`
	Platform    integration.PlatformCode `gorm:"type:varchar(20);not null;index"`
	Name        string                   `gorm:"type:varchar(200)"`
	PhoneHash   string                   `gorm:"type:char(64);index"`
	EmailHash   string                   `gorm:"type:char(64);index"`
	CreatedAt   time.Time                `gorm:"not null"`
	UpdatedAt   time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *canonical.Customer {
	return &canonical.Customer{
		CustomerID:  m.CustomerID,
		CustomerKey: m.CustomerKey,
		Platform:    m.Platform,
		Name:        m.Name,
		PhoneHash:   m.PhoneHash,
		EmailHash:   m.EmailHash,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Customer.
func (m *CustomerModel) FromDomain(c *canonical.Customer) {
	m.CustomerID = c.CustomerID
	m.CustomerKey = c.CustomerKey
	m.Platform = c.Platform
	m.Name = c.Name
	m.PhoneHash = c.PhoneHash
	m.EmailHash = c.EmailHash
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer.
func CustomerModelFromDomain(c *canonical.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

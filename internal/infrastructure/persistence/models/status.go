package models

import (
	"time"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/domain/integration"
)

// StatusModel is the persistence model for one status taxonomy row.
type StatusModel struct {
	StatusKey          int64                    `gorm:"primaryKey;autoIncrement:false"`
	Platform           integration.PlatformCode `gorm:"type:varchar(20);not null;uniqueIndex:idx_status_platform_code,priority:1"`
	PlatformStatusCode string                   `gorm:"type:varchar(50);not null;uniqueIndex:idx_status_platform_code,priority:2"`
	PlatformStatusName string                   `gorm:"type:varchar(100)"`
	StandardStatusCode canonical.StandardStatus `gorm:"type:varchar(20);not null"`
	CreatedAt          time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StatusModel) TableName() string {
	return "statuses"
}

// ToDomain converts the persistence model to a domain Status.
func (m *StatusModel) ToDomain() *canonical.Status {
	return &canonical.Status{
		StatusKey:          m.StatusKey,
		Platform:           m.Platform,
		PlatformStatusCode: m.PlatformStatusCode,
		PlatformStatusName: m.PlatformStatusName,
		StandardStatusCode: m.StandardStatusCode,
		CreatedAt:          m.CreatedAt,
	}
}

// StatusModelFromDomain creates a new persistence model from a domain Status.
func StatusModelFromDomain(s *canonical.Status) *StatusModel {
	return &StatusModel{
		StatusKey:          s.StatusKey,
		Platform:           s.Platform,
		PlatformStatusCode: s.PlatformStatusCode,
		PlatformStatusName: s.PlatformStatusName,
		StandardStatusCode: s.StandardStatusCode,
		CreatedAt:          s.CreatedAt,
	}
}

// OrderStatusModel is one append-only transition history row.
type OrderStatusModel struct {
	StatusKey    int64     `gorm:"primaryKey;autoIncrement:false"`
	OrderID      string    `gorm:"type:varchar(100);primaryKey;index"`
	TransitionAt time.Time `gorm:"primaryKey"`
}

// TableName returns the table name for GORM
func (OrderStatusModel) TableName() string {
	return "order_statuses"
}

// ToDomain converts the persistence model to a domain OrderStatus.
func (m *OrderStatusModel) ToDomain() canonical.OrderStatus {
	return canonical.OrderStatus{
		StatusKey:    m.StatusKey,
		OrderID:      m.OrderID,
		TransitionAt: m.TransitionAt,
	}
}

// OrderStatusModelFromDomain creates a new persistence model from a domain OrderStatus.
func OrderStatusModelFromDomain(t *canonical.OrderStatus) *OrderStatusModel {
	return &OrderStatusModel{
		StatusKey:    t.StatusKey,
		OrderID:      t.OrderID,
		TransitionAt: t.TransitionAt,
	}
}

// OrderStatusDetailModel is the per-order enrichment row derived from
// the current status.
type OrderStatusDetailModel struct {
	OrderID            string                   `gorm:"type:varchar(100);primaryKey"`
	StatusKey          int64                    `gorm:"not null"`
	StandardStatusCode canonical.StandardStatus `gorm:"type:varchar(20);not null"`
	IsActive           bool                     `gorm:"not null;default:false"`
	IsRefundable       bool                     `gorm:"not null;default:false"`
	IsFinal            bool                     `gorm:"not null;default:false"`
	UpdatedAt          time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderStatusDetailModel) TableName() string {
	return "order_status_details"
}

// ToDomain converts the persistence model to a domain OrderStatusDetail.
func (m *OrderStatusDetailModel) ToDomain() *canonical.OrderStatusDetail {
	return &canonical.OrderStatusDetail{
		OrderID:            m.OrderID,
		StatusKey:          m.StatusKey,
		StandardStatusCode: m.StandardStatusCode,
		IsActive:           m.IsActive,
		IsRefundable:       m.IsRefundable,
		IsFinal:            m.IsFinal,
		UpdatedAt:          m.UpdatedAt,
	}
}

// OrderStatusDetailModelFromDomain creates a new persistence model from a domain OrderStatusDetail.
func OrderStatusDetailModelFromDomain(d *canonical.OrderStatusDetail) *OrderStatusDetailModel {
	return &OrderStatusDetailModel{
		OrderID:            d.OrderID,
		StatusKey:          d.StatusKey,
		StandardStatusCode: d.StandardStatusCode,
		IsActive:           d.IsActive,
		IsRefundable:       d.IsRefundable,
		IsFinal:            d.IsFinal,
		UpdatedAt:          d.UpdatedAt,
	}
}

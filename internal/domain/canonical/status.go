package canonical

import (
	"strings"
	"time"

	"github.com/orderhub/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// Standard status vocabulary
// ---------------------------------------------------------------------------

// StandardStatus is the platform-independent status vocabulary every
// platform-specific code maps onto.
type StandardStatus string

const (
	StandardStatusPending   StandardStatus = "PENDING"
	StandardStatusConfirmed StandardStatus = "CONFIRMED"
	StandardStatusPacked    StandardStatus = "PACKED"
	StandardStatusShipped   StandardStatus = "SHIPPED"
	StandardStatusDelivered StandardStatus = "DELIVERED"
	StandardStatusCompleted StandardStatus = "COMPLETED"
	StandardStatusCancelled StandardStatus = "CANCELLED"
	StandardStatusReturning StandardStatus = "RETURNING"
	StandardStatusReturned  StandardStatus = "RETURNED"
	StandardStatusRefunded  StandardStatus = "REFUNDED"
	// StandardStatusUnknown is the bucket for platform codes without a
	// mapping; they are recorded, never rejected.
	StandardStatusUnknown StandardStatus = "UNKNOWN"
)

// String returns the string representation of StandardStatus
func (s StandardStatus) String() string {
	return string(s)
}

// IsFinal returns true for terminal states that accept no further
// transitions.
func (s StandardStatus) IsFinal() bool {
	switch s {
	case StandardStatusCompleted, StandardStatusCancelled,
		StandardStatusReturned, StandardStatusRefunded:
		return true
	default:
		return false
	}
}

// IsActive returns true while the order still moves through
// fulfillment.
func (s StandardStatus) IsActive() bool {
	switch s {
	case StandardStatusPending, StandardStatusConfirmed, StandardStatusPacked,
		StandardStatusShipped, StandardStatusDelivered:
		return true
	default:
		return false
	}
}

// IsRefundable returns true when the buyer may still open a return or
// refund request.
func (s StandardStatus) IsRefundable() bool {
	switch s {
	case StandardStatusDelivered, StandardStatusCompleted, StandardStatusReturning:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// Default platform mapping tables
// ---------------------------------------------------------------------------

var shopeeStatusMap = map[string]StandardStatus{
	"UNPAID":             StandardStatusPending,
	"READY_TO_SHIP":      StandardStatusConfirmed,
	"PROCESSED":          StandardStatusPacked,
	"RETRY_SHIP":         StandardStatusPacked,
	"SHIPPED":            StandardStatusShipped,
	"TO_CONFIRM_RECEIVE": StandardStatusDelivered,
	"COMPLETED":          StandardStatusCompleted,
	"IN_CANCEL":          StandardStatusCancelled,
	"CANCELLED":          StandardStatusCancelled,
	"TO_RETURN":          StandardStatusReturning,
}

var tiktokStatusMap = map[string]StandardStatus{
	"UNPAID":              StandardStatusPending,
	"ON_HOLD":             StandardStatusPending,
	"AWAITING_SHIPMENT":   StandardStatusConfirmed,
	"AWAITING_COLLECTION": StandardStatusPacked,
	"PARTIALLY_SHIPPING":  StandardStatusShipped,
	"IN_TRANSIT":          StandardStatusShipped,
	"DELIVERED":           StandardStatusDelivered,
	"COMPLETED":           StandardStatusCompleted,
	"CANCELLED":           StandardStatusCancelled,
}

// Facebook page orders arrive through Pancake POS, which reports
// numeric status codes.
var facebookStatusMap = map[string]StandardStatus{
	"0":  StandardStatusPending,   // new
	"11": StandardStatusPending,   // waiting confirmation
	"1":  StandardStatusConfirmed, // confirmed
	"12": StandardStatusPacked,    // printed
	"13": StandardStatusPacked,    // packed
	"2":  StandardStatusShipped,   // shipped
	"3":  StandardStatusDelivered, // received
	"16": StandardStatusCompleted, // settled
	"4":  StandardStatusReturning, // returning
	"5":  StandardStatusReturned,  // returned
	"6":  StandardStatusCancelled, // canceled
	"17": StandardStatusRefunded,  // refunded
}

var platformStatusMaps = map[integration.PlatformCode]map[string]StandardStatus{
	integration.PlatformCodeShopee:   shopeeStatusMap,
	integration.PlatformCodeTikTok:   tiktokStatusMap,
	integration.PlatformCodeFacebook: facebookStatusMap,
}

// DefaultStandardStatus maps a platform status code onto the standard
// vocabulary. Codes without a mapping land in UNKNOWN so a new platform
// code never blocks ingestion.
func DefaultStandardStatus(platform integration.PlatformCode, platformStatusCode string) StandardStatus {
	m, ok := platformStatusMaps[platform]
	if !ok {
		return StandardStatusUnknown
	}
	if std, ok := m[strings.ToUpper(strings.TrimSpace(platformStatusCode))]; ok {
		return std
	}
	return StandardStatusUnknown
}

// ---------------------------------------------------------------------------
// Taxonomy and history entities
// ---------------------------------------------------------------------------

// Status is one taxonomy row, unique per (Platform, PlatformStatusCode).
// Rows are created lazily on first observation and never deleted.
type Status struct {
	// StatusKey is the surrogate key, allocated atomically on insert
	StatusKey int64
	Platform  integration.PlatformCode
	// PlatformStatusCode is the platform's code, stored verbatim
	PlatformStatusCode string
	// PlatformStatusName is the platform's display label at first sight
	PlatformStatusName string
	// StandardStatusCode is the canonical bucket this code maps to
	StandardStatusCode StandardStatus
	CreatedAt          time.Time
}

// OrderStatus is one row in the append-only transition history, keyed
// by (StatusKey, OrderID, TransitionAt). Prior rows are never mutated;
// the latest by TransitionAt is the order's current status.
type OrderStatus struct {
	StatusKey    int64
	OrderID      string
	TransitionAt time.Time
}

// OrderStatusDetail is the per-order enrichment row derived from the
// current status. One row per order, replaced on each transition.
type OrderStatusDetail struct {
	OrderID            string
	StatusKey          int64
	StandardStatusCode StandardStatus
	IsActive           bool
	IsRefundable       bool
	IsFinal            bool
	UpdatedAt          time.Time
}

// NewOrderStatusDetail derives the enrichment row for an order's
// current taxonomy entry.
func NewOrderStatusDetail(orderID string, status *Status, at time.Time) OrderStatusDetail {
	std := status.StandardStatusCode
	return OrderStatusDetail{
		OrderID:            orderID,
		StatusKey:          status.StatusKey,
		StandardStatusCode: std,
		IsActive:           std.IsActive(),
		IsRefundable:       std.IsRefundable(),
		IsFinal:            std.IsFinal(),
		UpdatedAt:          at,
	}
}

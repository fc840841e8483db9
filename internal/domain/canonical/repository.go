package canonical

import (
	"context"
	"time"

	"github.com/orderhub/backend/internal/domain/integration"
)

// Key sequence names used with KeyAllocator.
const (
	SequenceCustomerKey  = "customer_key"
	SequenceStatusKey    = "status_key"
	SequenceProductKey   = "product_key"
	SequencePaymentKey   = "payment_key"
	SequenceShippingKey  = "shipping_key"
	SequenceGeographyKey = "geography_key"
	SequenceDateKey      = "date_key"
)

// KeyAllocator hands out surrogate keys. Next must be atomic under
// concurrent allocation from pipelines running in the same cycle; keys
// are monotonic per sequence and never reused.
type KeyAllocator interface {
	Next(ctx context.Context, sequence string) (int64, error)
}

// OrderRepository persists canonical orders and their items.
type OrderRepository interface {
	// FindByOrderID returns shared.ErrNotFound when the order does not exist.
	FindByOrderID(ctx context.Context, orderID string) (*Order, error)

	ExistsByOrderID(ctx context.Context, orderID string) (bool, error)

	// Upsert inserts or updates the order row and replaces its items.
	// Keyed by OrderID; repeating the same upsert is a no-op state-wise.
	Upsert(ctx context.Context, order *Order) error
}

// CustomerRepository persists deduplicated customers.
type CustomerRepository interface {
	FindByCustomerID(ctx context.Context, customerID string) (*Customer, error)

	// GetOrCreate resolves a customer by CustomerID, inserting it with a
	// freshly allocated CustomerKey when absent. Atomic under concurrent
	// resolution of the same customer.
	GetOrCreate(ctx context.Context, customer *Customer) (*Customer, error)
}

// ProductRepository persists catalog rows keyed by (SKU, PlatformProductID).
type ProductRepository interface {
	Upsert(ctx context.Context, product *Product) error
}

// StatusRepository persists the status taxonomy.
type StatusRepository interface {
	// FindByPlatformCode returns shared.ErrNotFound when the pair has
	// never been observed.
	FindByPlatformCode(ctx context.Context, platform integration.PlatformCode, platformStatusCode string) (*Status, error)

	// GetOrCreate resolves a taxonomy row, inserting it with a freshly
	// allocated StatusKey when absent. Concurrent resolution of the same
	// (platform, code) pair must yield exactly one row.
	GetOrCreate(ctx context.Context, status *Status) (*Status, error)
}

// OrderStatusRepository persists the append-only transition history and
// the derived per-order detail row.
type OrderStatusRepository interface {
	// Append records a transition. Re-appending an identical
	// (StatusKey, OrderID, TransitionAt) row is a no-op.
	Append(ctx context.Context, transition *OrderStatus) error

	// Latest returns the most recent transition for an order, or
	// shared.ErrNotFound when the order has no history.
	Latest(ctx context.Context, orderID string) (*OrderStatus, error)

	// History returns all transitions for an order ordered by time.
	History(ctx context.Context, orderID string) ([]OrderStatus, error)

	// UpsertDetail replaces the per-order enrichment row.
	UpsertDetail(ctx context.Context, detail *OrderStatusDetail) error
}

// DimensionRepository persists the denormalized dimension rows attached
// to an order. Each upsert is keyed by OrderID and allocates the row's
// surrogate key on first insert.
type DimensionRepository interface {
	UpsertPayment(ctx context.Context, payment *PaymentInfo) error
	UpsertShipping(ctx context.Context, shipping *ShippingInfo) error
	UpsertGeography(ctx context.Context, geography *GeographyInfo) error
	UpsertProcessingDate(ctx context.Context, date *ProcessingDateInfo) error
}

// SyncStateRepository is the durable fallback behind the watermark
// cache: it records the last completed pull window per platform.
type SyncStateRepository interface {
	GetWatermark(ctx context.Context, platform integration.PlatformCode) (time.Time, bool, error)
	SetWatermark(ctx context.Context, platform integration.PlatformCode, watermark time.Time) error
}

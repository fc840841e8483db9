package canonical

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderhub/backend/internal/domain/integration"
)

var (
	ErrOrderMissingCustomer = errors.New("canonical: order has no customer ID")
	ErrOrderMissingID       = errors.New("canonical: order has no order ID")
)

// customerIDHashLen is how many hex characters of the identity hash go
// into the customer ID. 24 hex chars (96 bits) keeps collisions
// negligible while the full hash stays in PhoneHash/EmailHash.
const customerIDHashLen = 24

// NewOrderID qualifies a platform order ID so orders from different
// platforms can never collide in the shared store.
func NewOrderID(platform integration.PlatformCode, platformOrderID string) string {
	return fmt.Sprintf("%s-%s", platform, platformOrderID)
}

// NewCustomerID derives a deterministic customer ID from the platform
// and an identity hash. The same buyer on the same platform always
// resolves to the same ID across pulls.
func NewCustomerID(platform integration.PlatformCode, identityHash string) string {
	if len(identityHash) > customerIDHashLen {
		identityHash = identityHash[:customerIDHashLen]
	}
	return fmt.Sprintf("%s-%s", platform, identityHash)
}

// Customer is a deduplicated buyer identity. Only hashed PII is stored.
type Customer struct {
	// CustomerID is the deterministic platform-qualified identity key
	CustomerID string
	// CustomerKey is a monotonically assigned surrogate integer
	CustomerKey int64
	// Platform is the platform the customer was first seen on
	Platform integration.PlatformCode
	// Name is the buyer display name (not PII-sensitive per retention policy)
	Name string
	// PhoneHash is the salted digest of the normalized phone, empty if unknown
	PhoneHash string
	// EmailHash is the salted digest of the normalized email, empty if unknown
	EmailHash string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order is the canonical order row. One row per platform order ID;
// re-ingestion updates the row in place.
type Order struct {
	// OrderID is the platform-qualified order identifier
	OrderID string
	// Platform identifies the source platform
	Platform integration.PlatformCode
	// CustomerID references the canonical customer
	CustomerID string
	// ShopID is the seller shop or page on the platform
	ShopID string
	// StatusKey references the current taxonomy entry
	StatusKey int64
	// GrossRevenue is the total amount the buyer pays
	GrossRevenue decimal.Decimal
	// Currency is the order currency
	Currency string
	// OrderedAt is when the order was placed on the platform
	OrderedAt time.Time
	// PlatformUpdatedAt is the platform-side last modification time
	PlatformUpdatedAt time.Time
	// RawData is the original platform payload, retained for inspection
	RawData   string
	CreatedAt time.Time
	UpdatedAt time.Time
	// Items are the order lines, replaced wholesale on re-ingestion
	Items []OrderItem
}

// Validate checks the invariants required before persisting.
func (o *Order) Validate() error {
	if o.OrderID == "" {
		return ErrOrderMissingID
	}
	if o.CustomerID == "" {
		return ErrOrderMissingCustomer
	}
	return nil
}

// OrderItem is one order line, keyed by (OrderID, ItemSequence).
type OrderItem struct {
	OrderID string
	// ItemSequence is the 1-based line position within the order
	ItemSequence int
	// SKU is the seller stock keeping unit
	SKU string
	// PlatformProductID is the product identifier on the source platform
	PlatformProductID string
	ProductName       string
	VariationName     string
	Quantity          int
	UnitPrice         decimal.Decimal
	TotalPrice        decimal.Decimal
}

// Product is a catalog row keyed by (SKU, PlatformProductID). The same
// SKU may exist once per platform listing.
type Product struct {
	// ProductKey is a monotonically assigned surrogate integer
	ProductKey int64
	SKU        string
	// PlatformProductID is the listing identifier on the source platform
	PlatformProductID string
	Platform          integration.PlatformCode
	Name              string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ---------------------------------------------------------------------------
// Dimension rows attached to an Order at ingestion time
// ---------------------------------------------------------------------------

// PaymentInfo is the payment dimension for an order.
type PaymentInfo struct {
	PaymentKey int64
	OrderID    string
	Method     string
	// CodAmount is the cash-on-delivery amount, zero for prepaid orders
	CodAmount decimal.Decimal
	IsCod     bool
	Currency  string
}

// ShippingInfo is the fulfillment dimension for an order. Receiver
// phone is stored hashed, same as customer identity.
type ShippingInfo struct {
	ShippingKey       int64
	OrderID           string
	Carrier           string
	TrackingNumber    string
	ShippingFee       decimal.Decimal
	ReceiverName      string
	ReceiverPhoneHash string
}

// GeographyInfo is the delivery-location dimension for an order.
type GeographyInfo struct {
	GeographyKey int64
	OrderID      string
	Province     string
	District     string
	Commune      string
	Address      string
}

// ProcessingDateInfo records calendar attributes of the order date plus
// when this system processed the order.
type ProcessingDateInfo struct {
	DateKey     int64
	OrderID     string
	OrderedDate time.Time
	Year        int
	Month       int
	Day         int
	Weekday     int
	ProcessedAt time.Time
}

// NewProcessingDateInfo derives the calendar dimension from an order
// timestamp.
func NewProcessingDateInfo(orderID string, orderedAt, processedAt time.Time) ProcessingDateInfo {
	day := orderedAt.Truncate(24 * time.Hour)
	return ProcessingDateInfo{
		OrderID:     orderID,
		OrderedDate: day,
		Year:        orderedAt.Year(),
		Month:       int(orderedAt.Month()),
		Day:         orderedAt.Day(),
		Weekday:     int(orderedAt.Weekday()),
		ProcessedAt: processedAt,
	}
}

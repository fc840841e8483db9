package integration

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Platform Errors
// ---------------------------------------------------------------------------

var (
	// Platform errors
	ErrPlatformNotSupported    = errors.New("integration: platform not supported")
	ErrPlatformNotEnabled      = errors.New("integration: platform not enabled")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")
	ErrPlatformAuthFailed      = errors.New("integration: platform authentication failed")
	ErrPlatformRateLimited     = errors.New("integration: platform rate limited")

	// Pull errors
	ErrPullInvalidWindow = errors.New("integration: invalid pull window")
	ErrOrderMissingID    = errors.New("integration: platform order has no order ID")
)

// ---------------------------------------------------------------------------
// PlatformCode represents an upstream e-commerce platform
// ---------------------------------------------------------------------------

// PlatformCode represents an upstream e-commerce platform
type PlatformCode string

const (
	// PlatformCodeShopee represents the Shopee marketplace
	PlatformCodeShopee PlatformCode = "SHOPEE"
	// PlatformCodeTikTok represents the TikTok Shop marketplace
	PlatformCodeTikTok PlatformCode = "TIKTOK"
	// PlatformCodeFacebook represents Facebook page orders (Pancake POS)
	PlatformCodeFacebook PlatformCode = "FACEBOOK"
)

// AllPlatformCodes lists every supported platform in a stable order.
func AllPlatformCodes() []PlatformCode {
	return []PlatformCode{PlatformCodeShopee, PlatformCodeTikTok, PlatformCodeFacebook}
}

// ParsePlatformCode converts a case-insensitive platform name into a
// PlatformCode, reporting whether the name is known.
func ParsePlatformCode(name string) (PlatformCode, bool) {
	code := PlatformCode(normalizeUpper(name))
	return code, code.IsValid()
}

// IsValid returns true if the platform code is supported
func (c PlatformCode) IsValid() bool {
	switch c {
	case PlatformCodeShopee, PlatformCodeTikTok, PlatformCodeFacebook:
		return true
	default:
		return false
	}
}

// String returns the string representation of PlatformCode
func (c PlatformCode) String() string {
	return string(c)
}

func normalizeUpper(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// PlatformOrder is a raw order record as pulled from a platform API,
// before canonicalization. Monetary fields use the platform's currency
// (VND unless stated otherwise).
type PlatformOrder struct {
	// PlatformOrderID is the order ID on the platform
	PlatformOrderID string
	// PlatformCode identifies which platform this order came from
	PlatformCode PlatformCode
	// ShopID is the seller shop or page identifier on the platform
	ShopID string
	// StatusCode is the platform-specific status code (verbatim)
	StatusCode string
	// StatusName is the platform's human-readable status label
	StatusName string
	// BuyerName is the buyer's display name
	BuyerName string
	// BuyerPhone is the buyer's raw phone number (PII, hash before storing)
	BuyerPhone string
	// BuyerEmail is the buyer's raw email (PII, hash before storing)
	BuyerEmail string
	// ReceiverName is the delivery recipient's name
	ReceiverName string
	// ReceiverPhone is the delivery recipient's raw phone number
	ReceiverPhone string
	// Province is the delivery province/city
	Province string
	// District is the delivery district
	District string
	// Commune is the delivery ward/commune
	Commune string
	// Address is the detailed street address
	Address string
	// GrossRevenue is the total order amount the buyer pays
	GrossRevenue decimal.Decimal
	// ShippingFee is the freight amount
	ShippingFee decimal.Decimal
	// TotalDiscount is the combined discount amount
	TotalDiscount decimal.Decimal
	// CodAmount is the cash-on-delivery amount, zero for prepaid orders
	CodAmount decimal.Decimal
	// Currency is the payment currency
	Currency string
	// PaymentMethod is the platform's payment method code
	PaymentMethod string
	// Carrier is the shipping provider name
	Carrier string
	// TrackingNumber is the shipment tracking number
	TrackingNumber string
	// PageID is the Facebook page the order originated from, empty elsewhere
	PageID string
	// PostID is the Facebook post the order originated from, empty elsewhere
	PostID string
	// Items contains the order line items
	Items []PlatformOrderItem
	// OrderedAt is when the order was placed on the platform
	OrderedAt time.Time
	// UpdatedAt is the platform-side last modification time
	UpdatedAt time.Time
	// RawData is the original platform payload (JSON), kept for debugging
	RawData string
}

// Validate checks the minimal fields canonicalization depends on.
func (o *PlatformOrder) Validate() error {
	if o.PlatformOrderID == "" {
		return ErrOrderMissingID
	}
	if !o.PlatformCode.IsValid() {
		return ErrPlatformNotSupported
	}
	return nil
}

// PlatformOrderItem is a raw line item in a platform order
type PlatformOrderItem struct {
	// Sequence is the 1-based position of the line within the order
	Sequence int
	// PlatformProductID is the product ID on the platform
	PlatformProductID string
	// SKU is the seller-assigned stock keeping unit
	SKU string
	// ProductName is the product display name
	ProductName string
	// VariationName is the variant/option label
	VariationName string
	// Quantity is the ordered quantity
	Quantity int
	// UnitPrice is the price per unit
	UnitPrice decimal.Decimal
	// TotalPrice is the extended line total
	TotalPrice decimal.Decimal
	// DiscountAmount is the discount applied to this line
	DiscountAmount decimal.Decimal
}

// ---------------------------------------------------------------------------
// Request/Response DTOs
// ---------------------------------------------------------------------------

// OrderPullRequest describes one page of an order pull. Platforms are
// queried by update date, so re-pulling a date returns both new orders
// and orders whose status changed on that date.
type OrderPullRequest struct {
	// PlatformCode specifies which platform to pull from
	PlatformCode PlatformCode
	// Date is the update date the pull is scoped to
	Date time.Time
	// PageNo is the page number (1-indexed)
	PageNo int
	// PageSize is the number of orders per page
	PageSize int
}

// Validate validates the pull request and clamps paging values into
// their supported ranges.
func (r *OrderPullRequest) Validate() error {
	if !r.PlatformCode.IsValid() {
		return ErrPlatformNotSupported
	}
	if r.Date.IsZero() {
		return ErrPullInvalidWindow
	}
	if r.PageNo < 1 {
		r.PageNo = 1
	}
	if r.PageSize < 1 || r.PageSize > 100 {
		r.PageSize = 50
	}
	return nil
}

// OrderPullResponse is one page of pulled orders
type OrderPullResponse struct {
	// Orders contains the raw orders on this page
	Orders []PlatformOrder
	// TotalCount is the total number of orders matching the window, if
	// the platform reports it (zero otherwise)
	TotalCount int64
	// HasMore indicates whether another page exists
	HasMore bool
	// NextPageNo is the next page number when HasMore is true
	NextPageNo int
}

// ---------------------------------------------------------------------------
// PlatformClient Port Interface
// ---------------------------------------------------------------------------

// PlatformClient is the port interface for a platform's order API.
// It is defined in the domain layer; concrete HTTP adapters (Shopee,
// TikTok, Facebook) live in the infrastructure layer.
type PlatformClient interface {
	// PlatformCode returns the platform this client talks to
	PlatformCode() PlatformCode

	// FetchOrders pulls one page of orders updated on the requested date
	FetchOrders(ctx context.Context, req *OrderPullRequest) (*OrderPullResponse, error)
}

// ClientRegistry provides access to the configured platform clients
type ClientRegistry interface {
	// Get returns the client for the specified platform code
	Get(code PlatformCode) (PlatformClient, error)

	// List returns all registered clients in a stable order
	List() []PlatformClient
}

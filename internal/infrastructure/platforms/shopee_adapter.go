package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderhub/backend/internal/domain/integration"
)

// ShopeeAdapter implements integration.PlatformClient for Shopee
type ShopeeAdapter struct {
	config     *ShopeeConfig
	httpClient *http.Client
}

// NewShopeeAdapter creates a Shopee adapter with the given configuration
func NewShopeeAdapter(config *ShopeeConfig) (*ShopeeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ShopeeAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// PlatformCode returns the platform this client talks to
func (a *ShopeeAdapter) PlatformCode() integration.PlatformCode {
	return integration.PlatformCodeShopee
}

// FetchOrders pulls one page of orders updated on the requested date
func (a *ShopeeAdapter) FetchOrders(ctx context.Context, req *integration.OrderPullRequest) (*integration.OrderPullResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("shop_id", a.config.ShopID)
	query.Set("update_date", req.Date.Format(dateFormat))
	query.Set("page_no", strconv.Itoa(req.PageNo))
	query.Set("page_size", strconv.Itoa(req.PageSize))

	headers := map[string]string{
		"X-Partner-Id":  a.config.PartnerID,
		"Authorization": "Bearer " + a.config.PartnerKey,
	}

	var resp shopeeOrderListResponse
	if err := getJSON(ctx, a.httpClient, a.config.APIBaseURL, "/api/v2/order/get_order_list", query, headers, &resp); err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s - %s", integration.ErrPlatformRequestFailed, resp.Error, resp.Message)
	}
	if resp.Response == nil {
		return nil, integration.ErrPlatformInvalidResponse
	}

	out := &integration.OrderPullResponse{
		Orders:     make([]integration.PlatformOrder, 0, len(resp.Response.OrderList)),
		TotalCount: resp.Response.TotalCount,
		HasMore:    resp.Response.HasNextPage,
		NextPageNo: req.PageNo + 1,
	}
	for i := range resp.Response.OrderList {
		out.Orders = append(out.Orders, a.convertOrder(&resp.Response.OrderList[i]))
	}
	return out, nil
}

func (a *ShopeeAdapter) convertOrder(o *shopeeOrder) integration.PlatformOrder {
	shopID := o.ShopID
	if shopID == "" {
		shopID = a.config.ShopID
	}

	order := integration.PlatformOrder{
		PlatformOrderID: o.OrderSN,
		PlatformCode:    integration.PlatformCodeShopee,
		ShopID:          shopID,
		StatusCode:      o.OrderStatus,
		StatusName:      o.StatusLabel,
		BuyerName:       o.BuyerUsername,
		BuyerPhone:      o.BuyerPhone,
		BuyerEmail:      o.BuyerEmail,
		ReceiverName:    o.RecipientAddress.Name,
		ReceiverPhone:   o.RecipientAddress.Phone,
		Province:        o.RecipientAddress.State,
		District:        o.RecipientAddress.District,
		Address:         o.RecipientAddress.FullAddress,
		GrossRevenue:    parseDecimal(o.TotalAmount),
		ShippingFee:     parseDecimal(o.ShippingFee),
		TotalDiscount:   parseDecimal(o.VoucherValue),
		CodAmount:       parseDecimal(o.CodAmount),
		Currency:        orDefault(o.Currency, "VND"),
		PaymentMethod:   o.PaymentMethod,
		Carrier:         o.ShippingCarrier,
		TrackingNumber:  o.TrackingNumber,
		OrderedAt:       time.Unix(o.CreateTime, 0),
		UpdatedAt:       time.Unix(o.UpdateTime, 0),
		Items:           make([]integration.PlatformOrderItem, 0, len(o.ItemList)),
	}

	for i, item := range o.ItemList {
		order.Items = append(order.Items, integration.PlatformOrderItem{
			Sequence:          i + 1,
			PlatformProductID: strconv.FormatInt(item.ItemID, 10),
			SKU:               item.ItemSKU,
			ProductName:       item.ItemName,
			VariationName:     item.ModelName,
			Quantity:          item.ModelQuantity,
			UnitPrice:         parseDecimal(item.ModelDiscountedPrice),
			TotalPrice:        parseDecimal(item.ModelDiscountedPrice).Mul(decimal.NewFromInt(int64(item.ModelQuantity))),
		})
	}

	if raw, err := json.Marshal(o); err == nil {
		order.RawData = string(raw)
	}
	return order
}

// parseDecimal parses a platform money string, falling back to zero on
// malformed input rather than failing the whole order.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Ensure ShopeeAdapter implements the client port
var _ integration.PlatformClient = (*ShopeeAdapter)(nil)

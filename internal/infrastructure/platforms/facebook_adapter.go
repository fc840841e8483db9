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

// pancakeTimeFormat is the timestamp layout Pancake emits
const pancakeTimeFormat = "2006-01-02T15:04:05"

// FacebookAdapter implements integration.PlatformClient for Facebook
// page orders served by the Pancake POS API.
type FacebookAdapter struct {
	config     *FacebookConfig
	httpClient *http.Client
}

// NewFacebookAdapter creates a Facebook/Pancake adapter with the given
// configuration
func NewFacebookAdapter(config *FacebookConfig) (*FacebookAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &FacebookAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// PlatformCode returns the platform this client talks to
func (a *FacebookAdapter) PlatformCode() integration.PlatformCode {
	return integration.PlatformCodeFacebook
}

// FetchOrders pulls one page of orders updated on the requested date
func (a *FacebookAdapter) FetchOrders(ctx context.Context, req *integration.OrderPullRequest) (*integration.OrderPullResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("api_key", a.config.APIKey)
	query.Set("updated_at", req.Date.Format(dateFormat))
	query.Set("page_number", strconv.Itoa(req.PageNo))
	query.Set("page_size", strconv.Itoa(req.PageSize))

	path := fmt.Sprintf("/shops/%s/orders", a.config.ShopID)

	var resp pancakeOrderListResponse
	if err := getJSON(ctx, a.httpClient, a.config.APIBaseURL, path, query, nil, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", integration.ErrPlatformRequestFailed, resp.Message)
	}

	out := &integration.OrderPullResponse{
		Orders:     make([]integration.PlatformOrder, 0, len(resp.Data)),
		TotalCount: resp.Total,
		HasMore:    resp.PageNumber < resp.TotalPages,
		NextPageNo: req.PageNo + 1,
	}
	for i := range resp.Data {
		out.Orders = append(out.Orders, a.convertOrder(&resp.Data[i]))
	}
	return out, nil
}

func (a *FacebookAdapter) convertOrder(o *pancakeOrder) integration.PlatformOrder {
	order := integration.PlatformOrder{
		PlatformOrderID: o.ID,
		PlatformCode:    integration.PlatformCodeFacebook,
		ShopID:          orDefault(o.ShopID, a.config.ShopID),
		StatusCode:      strconv.Itoa(o.Status),
		StatusName:      o.StatusName,
		BuyerName:       o.Bill.FullName,
		BuyerPhone:      o.Bill.PhoneNumber,
		BuyerEmail:      o.Bill.Email,
		ReceiverName:    o.ShippingAddress.FullName,
		ReceiverPhone:   o.ShippingAddress.PhoneNumber,
		Province:        o.ShippingAddress.Province,
		District:        o.ShippingAddress.District,
		Commune:         o.ShippingAddress.Commune,
		Address:         o.ShippingAddress.Address,
		GrossRevenue:    decimal.NewFromInt(o.TotalPrice),
		ShippingFee:     decimal.NewFromInt(o.ShippingFee),
		TotalDiscount:   decimal.NewFromInt(o.TotalDiscount),
		CodAmount:       decimal.NewFromInt(o.Cod),
		Currency:        "VND",
		PaymentMethod:   paymentMethodFromCod(o.Cod),
		Carrier:         o.Partner.PartnerName,
		TrackingNumber:  orDefault(o.Partner.OrderNumberVtp, o.Partner.ExtendCode),
		PageID:          o.PageID,
		PostID:          o.PostID,
		Items:           make([]integration.PlatformOrderItem, 0, len(o.Items)),
	}

	if t, err := time.ParseInLocation(pancakeTimeFormat, o.InsertedAt, time.Local); err == nil {
		order.OrderedAt = t
	}
	if t, err := time.ParseInLocation(pancakeTimeFormat, o.UpdatedAt, time.Local); err == nil {
		order.UpdatedAt = t
	}

	for i, item := range o.Items {
		unitPrice := decimal.NewFromInt(item.RetailPrice)
		if item.RetailPrice == 0 {
			unitPrice = decimal.NewFromInt(item.VariationInfo.RetailPrice)
		}
		order.Items = append(order.Items, integration.PlatformOrderItem{
			Sequence:          i + 1,
			PlatformProductID: item.ProductID,
			SKU:               item.VariationInfo.DisplayID,
			ProductName:       item.VariationInfo.Name,
			Quantity:          item.Quantity,
			UnitPrice:         unitPrice,
			TotalPrice:        unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Sub(decimal.NewFromInt(item.TotalDiscount)),
			DiscountAmount:    decimal.NewFromInt(item.TotalDiscount),
		})
	}

	if raw, err := json.Marshal(o); err == nil {
		order.RawData = string(raw)
	}
	return order
}

func paymentMethodFromCod(cod int64) string {
	if cod > 0 {
		return "COD"
	}
	return "PREPAID"
}

// Ensure FacebookAdapter implements the client port
var _ integration.PlatformClient = (*FacebookAdapter)(nil)

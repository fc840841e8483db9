package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderhub/backend/internal/domain/integration"
)

// TikTokAdapter implements integration.PlatformClient for TikTok Shop
type TikTokAdapter struct {
	config     *TikTokConfig
	httpClient *http.Client
}

// NewTikTokAdapter creates a TikTok Shop adapter with the given configuration
func NewTikTokAdapter(config *TikTokConfig) (*TikTokAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &TikTokAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// PlatformCode returns the platform this client talks to
func (a *TikTokAdapter) PlatformCode() integration.PlatformCode {
	return integration.PlatformCodeTikTok
}

// FetchOrders pulls one page of orders updated on the requested date
func (a *TikTokAdapter) FetchOrders(ctx context.Context, req *integration.OrderPullRequest) (*integration.OrderPullResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("app_key", a.config.AppKey)
	query.Set("shop_cipher", a.config.ShopCipher)
	query.Set("update_date", req.Date.Format(dateFormat))
	query.Set("page_number", strconv.Itoa(req.PageNo))
	query.Set("page_size", strconv.Itoa(req.PageSize))

	headers := map[string]string{
		"x-tts-access-token": a.config.AccessToken,
	}

	var resp tiktokOrderListResponse
	if err := getJSON(ctx, a.httpClient, a.config.APIBaseURL, "/order/202309/orders/search", query, headers, &resp); err != nil {
		return nil, err
	}

	if !resp.isSuccess() {
		return nil, fmt.Errorf("%w: code %d - %s", integration.ErrPlatformRequestFailed, resp.Code, resp.Message)
	}
	if resp.Data == nil {
		return nil, integration.ErrPlatformInvalidResponse
	}

	nextPage := resp.Data.NextPage
	if nextPage <= req.PageNo {
		nextPage = req.PageNo + 1
	}
	out := &integration.OrderPullResponse{
		Orders:     make([]integration.PlatformOrder, 0, len(resp.Data.Orders)),
		TotalCount: resp.Data.TotalCount,
		HasMore:    resp.Data.More,
		NextPageNo: nextPage,
	}
	for i := range resp.Data.Orders {
		out.Orders = append(out.Orders, a.convertOrder(&resp.Data.Orders[i]))
	}
	return out, nil
}

func (a *TikTokAdapter) convertOrder(o *tiktokOrder) integration.PlatformOrder {
	province, district, commune := splitDistricts(o.RecipientAddress.DistrictInfo)

	order := integration.PlatformOrder{
		PlatformOrderID: o.ID,
		PlatformCode:    integration.PlatformCodeTikTok,
		ShopID:          o.ShopID,
		StatusCode:      o.Status,
		StatusName:      o.Status,
		BuyerName:       o.BuyerNickname,
		BuyerPhone:      o.RecipientAddress.PhoneNumber,
		BuyerEmail:      o.BuyerEmail,
		ReceiverName:    o.RecipientAddress.Name,
		ReceiverPhone:   o.RecipientAddress.PhoneNumber,
		Province:        province,
		District:        district,
		Commune:         commune,
		Address:         o.RecipientAddress.FullAddress,
		GrossRevenue:    parseDecimal(o.TotalAmount),
		ShippingFee:     parseDecimal(o.ShippingFee),
		TotalDiscount:   parseDecimal(o.PlatformDiscount).Add(parseDecimal(o.SellerDiscount)),
		CodAmount:       parseDecimal(o.CodAmount),
		Currency:        orDefault(o.Currency, "VND"),
		PaymentMethod:   o.PaymentMethod,
		Carrier:         o.ShippingProvider,
		TrackingNumber:  o.TrackingNumber,
		OrderedAt:       time.Unix(o.CreateTime, 0),
		UpdatedAt:       time.Unix(o.UpdateTime, 0),
		Items:           make([]integration.PlatformOrderItem, 0, len(o.LineItems)),
	}

	for i, item := range o.LineItems {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		unitPrice := parseDecimal(item.SalePrice)
		order.Items = append(order.Items, integration.PlatformOrderItem{
			Sequence:          i + 1,
			PlatformProductID: item.ProductID,
			SKU:               item.SellerSKU,
			ProductName:       item.ProductName,
			VariationName:     item.SKUName,
			Quantity:          quantity,
			UnitPrice:         unitPrice,
			TotalPrice:        unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		})
	}

	if raw, err := json.Marshal(o); err == nil {
		order.RawData = string(raw)
	}
	return order
}

// splitDistricts picks the province/district/ward levels out of TikTok's
// address hierarchy.
func splitDistricts(info []tiktokDistrict) (province, district, commune string) {
	for _, level := range info {
		switch strings.ToLower(level.AddressLevelName) {
		case "province", "state", "city":
			if province == "" {
				province = level.AddressName
			}
		case "district", "county":
			if district == "" {
				district = level.AddressName
			}
		case "ward", "commune", "town":
			if commune == "" {
				commune = level.AddressName
			}
		}
	}
	return province, district, commune
}

// Ensure TikTokAdapter implements the client port
var _ integration.PlatformClient = (*TikTokAdapter)(nil)

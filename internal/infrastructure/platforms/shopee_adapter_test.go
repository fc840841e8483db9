package platforms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderhub/backend/internal/domain/integration"
)

func newShopeeTestAdapter(t *testing.T, handler http.HandlerFunc) *ShopeeAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := NewShopeeConfig("partner-1", "key-1", "shop-1")
	config.APIBaseURL = server.URL
	adapter, err := NewShopeeAdapter(config)
	require.NoError(t, err)
	return adapter
}

func pullReq(platform integration.PlatformCode) *integration.OrderPullRequest {
	return &integration.OrderPullRequest{
		PlatformCode: platform,
		Date:         time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		PageNo:       1,
		PageSize:     50,
	}
}

func TestShopeeAdapter_FetchOrders(t *testing.T) {
	adapter := newShopeeTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/order/get_order_list", r.URL.Path)
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("update_date"))
		assert.Equal(t, "1", r.URL.Query().Get("page_no"))
		assert.Equal(t, "partner-1", r.Header.Get("X-Partner-Id"))
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"error": "",
			"response": {
				"total_count": 1,
				"more": false,
				"order_list": [{
					"order_sn": "2406SPX001",
					"order_status": "READY_TO_SHIP",
					"buyer_username": "nguyenvana",
					"buyer_phone": "0912345678",
					"total_amount": "250000",
					"actual_shipping_fee": "25000",
					"cod_amount": "250000",
					"payment_method": "COD",
					"recipient_address": {
						"name": "Nguyen Van A",
						"phone": "0912345678",
						"state": "Ha Noi",
						"district": "Cau Giay",
						"full_address": "12 Pho Xuan Thuy"
					},
					"item_list": [{
						"item_id": 900001,
						"item_sku": "TS-RED-M",
						"item_name": "Ao thun",
						"model_quantity_purchased": 2,
						"model_discounted_price": "100000"
					}],
					"create_time": 1717221600,
					"update_time": 1717225200
				}]
			}
		}`))
	})

	resp, err := adapter.FetchOrders(context.Background(), pullReq(integration.PlatformCodeShopee))
	require.NoError(t, err)

	assert.False(t, resp.HasMore)
	require.Len(t, resp.Orders, 1)
	order := resp.Orders[0]
	assert.Equal(t, "2406SPX001", order.PlatformOrderID)
	assert.Equal(t, integration.PlatformCodeShopee, order.PlatformCode)
	assert.Equal(t, "READY_TO_SHIP", order.StatusCode)
	assert.Equal(t, "0912345678", order.BuyerPhone)
	assert.Equal(t, "250000", order.GrossRevenue.String())
	assert.Equal(t, "Ha Noi", order.Province)
	assert.Equal(t, "VND", order.Currency)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "TS-RED-M", order.Items[0].SKU)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "200000", order.Items[0].TotalPrice.String())
	assert.NotEmpty(t, order.RawData)
}

func TestShopeeAdapter_APIError(t *testing.T) {
	adapter := newShopeeTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error": "error_param", "message": "invalid shop"}`))
	})

	_, err := adapter.FetchOrders(context.Background(), pullReq(integration.PlatformCodeShopee))
	assert.ErrorIs(t, err, integration.ErrPlatformRequestFailed)
}

func TestShopeeAdapter_AuthFailure(t *testing.T) {
	adapter := newShopeeTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := adapter.FetchOrders(context.Background(), pullReq(integration.PlatformCodeShopee))
	assert.ErrorIs(t, err, integration.ErrPlatformAuthFailed)
}

func TestShopeeAdapter_RateLimited(t *testing.T) {
	adapter := newShopeeTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := adapter.FetchOrders(context.Background(), pullReq(integration.PlatformCodeShopee))
	assert.ErrorIs(t, err, integration.ErrPlatformRateLimited)
}

func TestShopeeAdapter_MalformedResponse(t *testing.T) {
	adapter := newShopeeTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"response": {"order_list": [`))
	})

	_, err := adapter.FetchOrders(context.Background(), pullReq(integration.PlatformCodeShopee))
	assert.ErrorIs(t, err, integration.ErrPlatformInvalidResponse)
}

func TestShopeeAdapter_ConfigValidation(t *testing.T) {
	_, err := NewShopeeAdapter(&ShopeeConfig{PartnerKey: "k", ShopID: "s"})
	assert.ErrorIs(t, err, ErrShopeeConfigMissingPartnerID)

	_, err = NewShopeeAdapter(&ShopeeConfig{PartnerID: "p", ShopID: "s"})
	assert.ErrorIs(t, err, ErrShopeeConfigMissingPartnerKey)
}

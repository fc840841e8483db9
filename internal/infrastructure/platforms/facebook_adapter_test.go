package platforms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderhub/backend/internal/domain/integration"
)

func newFacebookTestAdapter(t *testing.T, handler http.HandlerFunc) *FacebookAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := NewFacebookConfig("api-key-1", "230614")
	config.APIBaseURL = server.URL
	adapter, err := NewFacebookAdapter(config)
	require.NoError(t, err)
	return adapter
}

func TestFacebookAdapter_FetchOrders(t *testing.T) {
	adapter := newFacebookTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shops/230614/orders", r.URL.Path)
		assert.Equal(t, "api-key-1", r.URL.Query().Get("api_key"))
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("updated_at"))

		_, _ = w.Write([]byte(`{
			"success": true,
			"total_entries": 51,
			"total_pages": 2,
			"page_number": 1,
			"data": [{
				"id": "38112099",
				"status": 3,
				"status_name": "da_nhan",
				"page_id": "1098273645",
				"bill": {
					"bill_full_name": "Le Van C",
					"bill_phone_number": "0703456789",
					"bill_email": "levanc@gmail.com"
				},
				"shipping_address": {
					"full_name": "Le Van C",
					"phone_number": "0703456789",
					"province_name": "Ho Chi Minh",
					"district_name": "Quan 3",
					"commune_name": "Phuong 6",
					"address": "101 Vo Van Tan"
				},
				"total_price": 320000,
				"shipping_fee": 20000,
				"cod": 320000,
				"partner": {
					"partner_name": "VTP",
					"order_number_vtp": "VTP123456789"
				},
				"items": [{
					"product_id": "prod-88",
					"variation_id": "var-88-1",
					"quantity": 2,
					"retail_price": 150000,
					"variation_info": {
						"name": "Vay hoa nhi",
						"display_id": "VH-01",
						"retail_price": 150000
					}
				}],
				"inserted_at": "2024-06-01T08:30:00",
				"updated_at": "2024-06-01T14:05:00"
			}]
		}`))
	})

	resp, err := adapter.FetchOrders(context.Background(), pullReq(integration.PlatformCodeFacebook))
	require.NoError(t, err)

	assert.True(t, resp.HasMore)
	assert.Equal(t, int64(51), resp.TotalCount)
	require.Len(t, resp.Orders, 1)
	order := resp.Orders[0]
	assert.Equal(t, "38112099", order.PlatformOrderID)
	assert.Equal(t, integration.PlatformCodeFacebook, order.PlatformCode)
	assert.Equal(t, "3", order.StatusCode)
	assert.Equal(t, "da_nhan", order.StatusName)
	assert.Equal(t, "0703456789", order.BuyerPhone)
	assert.Equal(t, "320000", order.GrossRevenue.String())
	assert.Equal(t, "COD", order.PaymentMethod)
	assert.Equal(t, "VTP123456789", order.TrackingNumber)
	assert.Equal(t, "1098273645", order.PageID)
	assert.Equal(t, 2024, order.OrderedAt.Year())
	require.Len(t, order.Items, 1)
	assert.Equal(t, "VH-01", order.Items[0].SKU)
	assert.Equal(t, "300000", order.Items[0].TotalPrice.String())
}

func TestFacebookAdapter_LastPageHasNoMore(t *testing.T) {
	adapter := newFacebookTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "total_pages": 2, "page_number": 2, "data": []}`))
	})

	resp, err := adapter.FetchOrders(context.Background(), pullReq(integration.PlatformCodeFacebook))
	require.NoError(t, err)
	assert.False(t, resp.HasMore)
	assert.Empty(t, resp.Orders)
}

func TestFacebookAdapter_APIFailure(t *testing.T) {
	adapter := newFacebookTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "shop not found"}`))
	})

	_, err := adapter.FetchOrders(context.Background(), pullReq(integration.PlatformCodeFacebook))
	assert.ErrorIs(t, err, integration.ErrPlatformRequestFailed)
	assert.Contains(t, err.Error(), "shop not found")
}

func TestFacebookAdapter_ConfigValidation(t *testing.T) {
	_, err := NewFacebookAdapter(&FacebookConfig{ShopID: "1"})
	assert.ErrorIs(t, err, ErrFacebookConfigMissingAPIKey)

	_, err = NewFacebookAdapter(&FacebookConfig{APIKey: "k"})
	assert.ErrorIs(t, err, ErrFacebookConfigMissingShopID)
}

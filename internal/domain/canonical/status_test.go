package canonical

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/orderhub/backend/internal/domain/integration"
)

func TestDefaultStandardStatus(t *testing.T) {
	tests := []struct {
		name     string
		platform integration.PlatformCode
		code     string
		want     StandardStatus
	}{
		{"shopee ready to ship", integration.PlatformCodeShopee, "READY_TO_SHIP", StandardStatusConfirmed},
		{"shopee lowercase input", integration.PlatformCodeShopee, "completed", StandardStatusCompleted},
		{"shopee unmapped", integration.PlatformCodeShopee, "SOMETHING_NEW", StandardStatusUnknown},
		{"tiktok in transit", integration.PlatformCodeTikTok, "IN_TRANSIT", StandardStatusShipped},
		{"facebook received", integration.PlatformCodeFacebook, "3", StandardStatusDelivered},
		{"facebook unmapped text code", integration.PlatformCodeFacebook, "completed", StandardStatusUnknown},
		{"unknown platform", integration.PlatformCode("LAZADA"), "COMPLETED", StandardStatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultStandardStatus(tt.platform, tt.code))
		})
	}
}

func TestStandardStatus_Semantics(t *testing.T) {
	assert.True(t, StandardStatusShipped.IsActive())
	assert.False(t, StandardStatusShipped.IsFinal())
	assert.False(t, StandardStatusShipped.IsRefundable())

	assert.True(t, StandardStatusCompleted.IsFinal())
	assert.True(t, StandardStatusCompleted.IsRefundable())
	assert.False(t, StandardStatusCompleted.IsActive())

	assert.True(t, StandardStatusCancelled.IsFinal())
	assert.False(t, StandardStatusCancelled.IsRefundable())

	assert.False(t, StandardStatusUnknown.IsActive())
	assert.False(t, StandardStatusUnknown.IsFinal())
}

func TestNewOrderStatusDetail(t *testing.T) {
	now := time.Now()
	status := &Status{
		StatusKey:          7,
		Platform:           integration.PlatformCodeShopee,
		PlatformStatusCode: "SHIPPED",
		StandardStatusCode: StandardStatusShipped,
	}

	detail := NewOrderStatusDetail("SHOPEE-1", status, now)

	assert.Equal(t, "SHOPEE-1", detail.OrderID)
	assert.Equal(t, int64(7), detail.StatusKey)
	assert.True(t, detail.IsActive)
	assert.False(t, detail.IsFinal)
	assert.Equal(t, now, detail.UpdatedAt)
}

func TestNewIDs(t *testing.T) {
	assert.Equal(t, "SHOPEE-123", NewOrderID(integration.PlatformCodeShopee, "123"))

	hash := "aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899"
	id := NewCustomerID(integration.PlatformCodeTikTok, hash)
	assert.Equal(t, "TIKTOK-"+hash[:24], id)

	// same hash always derives the same ID
	assert.Equal(t, id, NewCustomerID(integration.PlatformCodeTikTok, hash))
}

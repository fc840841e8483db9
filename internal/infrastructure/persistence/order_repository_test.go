package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/domain/integration"
	"github.com/orderhub/backend/internal/domain/shared"
)

func testOrder(orderID string) *canonical.Order {
	return &canonical.Order{
		OrderID:      orderID,
		Platform:     integration.PlatformCodeShopee,
		CustomerID:   "SHOPEE-a1b2c3d4e5f60718293a4b5c",
		ShopID:       "shop-1",
		StatusKey:    1,
		GrossRevenue: decimal.NewFromInt(250000),
		Currency:     "VND",
		OrderedAt:    time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		Items: []canonical.OrderItem{
			{ItemSequence: 1, SKU: "TS-RED-M", Quantity: 2, UnitPrice: decimal.NewFromInt(100000), TotalPrice: decimal.NewFromInt(200000)},
			{ItemSequence: 2, SKU: "TS-BLU-L", Quantity: 1, UnitPrice: decimal.NewFromInt(50000), TotalPrice: decimal.NewFromInt(50000)},
		},
	}
}

func TestOrderRepository_UpsertAndFind(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testOrder("SHOPEE-2406SPX001")))

	found, err := repo.FindByOrderID(ctx, "SHOPEE-2406SPX001")
	require.NoError(t, err)
	assert.Equal(t, integration.PlatformCodeShopee, found.Platform)
	assert.Equal(t, "250000", found.GrossRevenue.String())
	require.Len(t, found.Items, 2)
	assert.Equal(t, "TS-RED-M", found.Items[0].SKU)
	assert.Equal(t, found.Items[0].OrderID, found.OrderID)

	exists, err := repo.ExistsByOrderID(ctx, "SHOPEE-2406SPX001")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestOrderRepository_UpsertReplacesItems(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testOrder("SHOPEE-2406SPX002")))

	first, err := repo.FindByOrderID(ctx, "SHOPEE-2406SPX002")
	require.NoError(t, err)

	updated := testOrder("SHOPEE-2406SPX002")
	updated.StatusKey = 2
	updated.GrossRevenue = decimal.NewFromInt(200000)
	updated.Items = updated.Items[:1]
	require.NoError(t, repo.Upsert(ctx, updated))

	second, err := repo.FindByOrderID(ctx, "SHOPEE-2406SPX002")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.StatusKey)
	assert.Equal(t, "200000", second.GrossRevenue.String())
	assert.Len(t, second.Items, 1)
	// first ingestion time survives the re-upsert
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
}

func TestOrderRepository_UpsertIsIdempotent(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()

	order := testOrder("SHOPEE-2406SPX003")
	require.NoError(t, repo.Upsert(ctx, order))
	require.NoError(t, repo.Upsert(ctx, order))

	found, err := repo.FindByOrderID(ctx, "SHOPEE-2406SPX003")
	require.NoError(t, err)
	assert.Len(t, found.Items, 2)
}

func TestOrderRepository_FindByOrderID_NotFound(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))

	_, err := repo.FindByOrderID(context.Background(), "TIKTOK-missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderRepository_UpsertRejectsInvalidOrder(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))

	err := repo.Upsert(context.Background(), &canonical.Order{OrderID: "SHOPEE-1"})
	assert.ErrorIs(t, err, canonical.ErrOrderMissingCustomer)
}

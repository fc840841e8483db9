package etl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/domain/identity"
	"github.com/orderhub/backend/internal/domain/integration"
	"github.com/orderhub/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

type mockClient struct {
	platform  integration.PlatformCode
	fetchFunc func(ctx context.Context, req *integration.OrderPullRequest) (*integration.OrderPullResponse, error)
}

func (m *mockClient) PlatformCode() integration.PlatformCode { return m.platform }

func (m *mockClient) FetchOrders(ctx context.Context, req *integration.OrderPullRequest) (*integration.OrderPullResponse, error) {
	return m.fetchFunc(ctx, req)
}

type memOrders struct {
	mu         sync.Mutex
	orders     map[string]*canonical.Order
	upsertFunc func(order *canonical.Order) error
}

func newMemOrders() *memOrders {
	return &memOrders{orders: make(map[string]*canonical.Order)}
}

func (m *memOrders) FindByOrderID(_ context.Context, orderID string) (*canonical.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[orderID]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memOrders) ExistsByOrderID(_ context.Context, orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.orders[orderID]
	return ok, nil
}

func (m *memOrders) Upsert(_ context.Context, order *canonical.Order) error {
	if m.upsertFunc != nil {
		if err := m.upsertFunc(order); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *order
	m.orders[order.OrderID] = &copied
	return nil
}

func (m *memOrders) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type memCustomers struct {
	mu        sync.Mutex
	customers map[string]*canonical.Customer
	nextKey   int64
}

func newMemCustomers() *memCustomers {
	return &memCustomers{customers: make(map[string]*canonical.Customer)}
}

func (m *memCustomers) FindByCustomerID(_ context.Context, customerID string) (*canonical.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.customers[customerID]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memCustomers) GetOrCreate(_ context.Context, customer *canonical.Customer) (*canonical.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.customers[customer.CustomerID]; ok {
		copied := *existing
		return &copied, nil
	}
	m.nextKey++
	copied := *customer
	copied.CustomerKey = m.nextKey
	m.customers[copied.CustomerID] = &copied
	out := copied
	return &out, nil
}

func (m *memCustomers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.customers)
}

type memProducts struct {
	mu       sync.Mutex
	products map[string]*canonical.Product
}

func newMemProducts() *memProducts {
	return &memProducts{products: make(map[string]*canonical.Product)}
}

func (m *memProducts) Upsert(_ context.Context, product *canonical.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := product.SKU + "|" + product.PlatformProductID
	copied := *product
	m.products[key] = &copied
	return nil
}

type memStatuses struct {
	mu       sync.Mutex
	statuses map[string]*canonical.Status
	nextKey  int64
	inserts  int
}

func newMemStatuses() *memStatuses {
	return &memStatuses{statuses: make(map[string]*canonical.Status)}
}

func statusMapKey(platform integration.PlatformCode, code string) string {
	return string(platform) + "|" + code
}

func (m *memStatuses) FindByPlatformCode(_ context.Context, platform integration.PlatformCode, code string) (*canonical.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.statuses[statusMapKey(platform, code)]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memStatuses) GetOrCreate(_ context.Context, status *canonical.Status) (*canonical.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := statusMapKey(status.Platform, status.PlatformStatusCode)
	if existing, ok := m.statuses[key]; ok {
		copied := *existing
		return &copied, nil
	}
	m.nextKey++
	m.inserts++
	copied := *status
	copied.StatusKey = m.nextKey
	copied.CreatedAt = time.Now()
	m.statuses[key] = &copied
	out := copied
	return &out, nil
}

type memOrderStatuses struct {
	mu          sync.Mutex
	transitions []canonical.OrderStatus
	details     map[string]*canonical.OrderStatusDetail
}

func newMemOrderStatuses() *memOrderStatuses {
	return &memOrderStatuses{details: make(map[string]*canonical.OrderStatusDetail)}
}

func (m *memOrderStatuses) Append(_ context.Context, transition *canonical.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.transitions {
		if existing == *transition {
			return nil
		}
	}
	m.transitions = append(m.transitions, *transition)
	return nil
}

func (m *memOrderStatuses) Latest(_ context.Context, orderID string) (*canonical.OrderStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *canonical.OrderStatus
	for i := range m.transitions {
		t := m.transitions[i]
		if t.OrderID != orderID {
			continue
		}
		if latest == nil || t.TransitionAt.After(latest.TransitionAt) {
			latest = &t
		}
	}
	if latest == nil {
		return nil, shared.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (m *memOrderStatuses) History(_ context.Context, orderID string) ([]canonical.OrderStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var history []canonical.OrderStatus
	for _, t := range m.transitions {
		if t.OrderID == orderID {
			history = append(history, t)
		}
	}
	return history, nil
}

func (m *memOrderStatuses) UpsertDetail(_ context.Context, detail *canonical.OrderStatusDetail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *detail
	m.details[detail.OrderID] = &copied
	return nil
}

func (m *memOrderStatuses) transitionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transitions)
}

type memDimensions struct {
	mu        sync.Mutex
	payments  map[string]*canonical.PaymentInfo
	shipping  map[string]*canonical.ShippingInfo
	geography map[string]*canonical.GeographyInfo
	dates     map[string]*canonical.ProcessingDateInfo
}

func newMemDimensions() *memDimensions {
	return &memDimensions{
		payments:  make(map[string]*canonical.PaymentInfo),
		shipping:  make(map[string]*canonical.ShippingInfo),
		geography: make(map[string]*canonical.GeographyInfo),
		dates:     make(map[string]*canonical.ProcessingDateInfo),
	}
}

func (m *memDimensions) UpsertPayment(_ context.Context, p *canonical.PaymentInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *p
	m.payments[p.OrderID] = &copied
	return nil
}

func (m *memDimensions) UpsertShipping(_ context.Context, s *canonical.ShippingInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *s
	m.shipping[s.OrderID] = &copied
	return nil
}

func (m *memDimensions) UpsertGeography(_ context.Context, g *canonical.GeographyInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *g
	m.geography[g.OrderID] = &copied
	return nil
}

func (m *memDimensions) UpsertProcessingDate(_ context.Context, d *canonical.ProcessingDateInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *d
	m.dates[d.OrderID] = &copied
	return nil
}

type memWatermarks struct {
	mu         sync.Mutex
	watermarks map[integration.PlatformCode]time.Time
}

func newMemWatermarks() *memWatermarks {
	return &memWatermarks{watermarks: make(map[integration.PlatformCode]time.Time)}
}

func (m *memWatermarks) Get(_ context.Context, code integration.PlatformCode) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.watermarks[code]
	return w, ok, nil
}

func (m *memWatermarks) Set(_ context.Context, code integration.PlatformCode, watermark time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watermarks[code] = watermark
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type pipelineFixture struct {
	pipeline      *Pipeline
	orders        *memOrders
	customers     *memCustomers
	products      *memProducts
	statuses      *memStatuses
	orderStatuses *memOrderStatuses
	dimensions    *memDimensions
	watermarks    *memWatermarks
}

func newPipelineFixture(t *testing.T, client *mockClient) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		orders:        newMemOrders(),
		customers:     newMemCustomers(),
		products:      newMemProducts(),
		statuses:      newMemStatuses(),
		orderStatuses: newMemOrderStatuses(),
		dimensions:    newMemDimensions(),
		watermarks:    newMemWatermarks(),
	}
	logger := zap.NewNop()
	hasher := identity.NewHasher("phone-salt", "email-salt", logger)
	canonicalizer := NewStatusCanonicalizer(f.statuses, logger)
	stores := Stores{
		Orders:        f.orders,
		Customers:     f.customers,
		Products:      f.products,
		OrderStatuses: f.orderStatuses,
		Dimensions:    f.dimensions,
		Watermarks:    f.watermarks,
	}
	f.pipeline = NewPipeline(client, hasher, canonicalizer, stores, Config{LookbackDays: 1}, logger)
	return f
}

func shopeeOrder(id, phone, statusCode string) integration.PlatformOrder {
	orderedAt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return integration.PlatformOrder{
		PlatformOrderID: id,
		PlatformCode:    integration.PlatformCodeShopee,
		ShopID:          "shop-1",
		StatusCode:      statusCode,
		StatusName:      statusCode,
		BuyerName:       "Nguyen Van A",
		BuyerPhone:      phone,
		Province:        "Ha Noi",
		District:        "Cau Giay",
		GrossRevenue:    decimal.NewFromInt(250000),
		ShippingFee:     decimal.NewFromInt(25000),
		CodAmount:       decimal.NewFromInt(250000),
		Currency:        "VND",
		PaymentMethod:   "COD",
		Items: []integration.PlatformOrderItem{
			{SKU: "SKU-1", PlatformProductID: "p-1", ProductName: "Ao thun", Quantity: 2,
				UnitPrice: decimal.NewFromInt(100000), TotalPrice: decimal.NewFromInt(200000)},
		},
		OrderedAt: orderedAt,
		UpdatedAt: orderedAt,
		RawData:   `{"id":"` + id + `"}`,
	}
}

func singlePageClient(orders ...integration.PlatformOrder) *mockClient {
	return &mockClient{
		platform: integration.PlatformCodeShopee,
		fetchFunc: func(_ context.Context, req *integration.OrderPullRequest) (*integration.OrderPullResponse, error) {
			if req.PageNo > 1 {
				return &integration.OrderPullResponse{HasMore: false}, nil
			}
			return &integration.OrderPullResponse{Orders: orders, HasMore: false}, nil
		},
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestPipeline_ProcessOrdersForDate(t *testing.T) {
	f := newPipelineFixture(t, singlePageClient(
		shopeeOrder("1001", "0912345678", "READY_TO_SHIP"),
		shopeeOrder("1002", "0987654321", "SHIPPED"),
	))

	result := f.pipeline.ProcessOrdersForDate(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TotalOrders)
	assert.Equal(t, 2, result.OrdersProcessed)
	assert.Equal(t, 0, result.OrdersFailed)
	assert.Equal(t, 2, f.orders.count())
	assert.Equal(t, 2, f.customers.count())
	assert.Equal(t, 2, f.orderStatuses.transitionCount())

	order, err := f.orders.FindByOrderID(context.Background(), "SHOPEE-1001")
	require.NoError(t, err)
	assert.Equal(t, integration.PlatformCodeShopee, order.Platform)
	assert.NotEmpty(t, order.CustomerID)
	assert.NotZero(t, order.StatusKey)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].ItemSequence)

	// raw PII never reaches the store
	customer, err := f.customers.FindByCustomerID(context.Background(), order.CustomerID)
	require.NoError(t, err)
	assert.NotContains(t, customer.PhoneHash, "0912345678")
	assert.Len(t, customer.PhoneHash, 64)
}

func TestPipeline_PerOrderIsolation(t *testing.T) {
	orders := []integration.PlatformOrder{
		shopeeOrder("2001", "0912345678", "SHIPPED"),
		shopeeOrder("", "0912345671", "SHIPPED"), // malformed: no order ID
		shopeeOrder("2003", "0912345672", "SHIPPED"),
	}
	f := newPipelineFixture(t, singlePageClient(orders...))

	result := f.pipeline.ProcessOrdersForDate(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.True(t, result.Success, "per-order failures do not flip batch success")
	assert.Equal(t, 3, result.TotalOrders)
	assert.Equal(t, 2, result.OrdersProcessed)
	assert.Equal(t, 1, result.OrdersFailed)
	require.Len(t, result.FailedOrders, 1)
	assert.NotEmpty(t, result.FailedOrders[0].Reason)
	assert.Equal(t, 2, f.orders.count())
}

func TestPipeline_StoreFailureIsolatedPerOrder(t *testing.T) {
	f := newPipelineFixture(t, singlePageClient(
		shopeeOrder("3001", "0912345678", "SHIPPED"),
		shopeeOrder("3002", "0912345671", "SHIPPED"),
	))
	f.orders.upsertFunc = func(order *canonical.Order) error {
		if order.OrderID == "SHOPEE-3002" {
			return errors.New("deadlock detected")
		}
		return nil
	}

	result := f.pipeline.ProcessOrdersForDate(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.OrdersProcessed)
	assert.Equal(t, 1, result.OrdersFailed)
	assert.Equal(t, "3002", result.FailedOrders[0].OrderID)
}

func TestPipeline_Idempotence(t *testing.T) {
	order := shopeeOrder("4001", "0912345678", "SHIPPED")
	f := newPipelineFixture(t, singlePageClient(order))
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	first := f.pipeline.ProcessOrdersForDate(context.Background(), date)
	require.True(t, first.Success)
	second := f.pipeline.ProcessOrdersForDate(context.Background(), date)
	require.True(t, second.Success)

	// re-pulling the identical window converges to the same state
	assert.Equal(t, 1, f.orders.count())
	assert.Equal(t, 1, f.customers.count())
	assert.Equal(t, 1, f.orderStatuses.transitionCount(), "identical transition is not re-appended")
	assert.Equal(t, 1, f.statuses.inserts)
}

func TestPipeline_StatusChangeAppendsHistory(t *testing.T) {
	order := shopeeOrder("5001", "0912345678", "SHIPPED")
	f := newPipelineFixture(t, singlePageClient(order))
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.True(t, f.pipeline.ProcessOrdersForDate(context.Background(), date).Success)

	updated := order
	updated.StatusCode = "COMPLETED"
	updated.StatusName = "COMPLETED"
	updated.UpdatedAt = order.UpdatedAt.Add(time.Hour)
	f2client := singlePageClient(updated)
	f.pipeline.client = f2client

	require.True(t, f.pipeline.ProcessOrdersForDate(context.Background(), date).Success)

	assert.Equal(t, 1, f.orders.count(), "status change updates the existing row")
	assert.Equal(t, 2, f.orderStatuses.transitionCount(), "each transition appends one history row")

	latest, err := f.orderStatuses.Latest(context.Background(), "SHOPEE-5001")
	require.NoError(t, err)
	current, err := f.statuses.FindByPlatformCode(context.Background(), integration.PlatformCodeShopee, "COMPLETED")
	require.NoError(t, err)
	assert.Equal(t, current.StatusKey, latest.StatusKey)
}

func TestPipeline_FetchFailureAbortsBatch(t *testing.T) {
	client := &mockClient{
		platform: integration.PlatformCodeShopee,
		fetchFunc: func(_ context.Context, _ *integration.OrderPullRequest) (*integration.OrderPullResponse, error) {
			return nil, integration.ErrPlatformRequestFailed
		},
	}
	f := newPipelineFixture(t, client)

	result := f.pipeline.ProcessOrdersForDate(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "platform request failed")
	assert.Equal(t, 0, f.orders.count())
}

func TestPipeline_Pagination(t *testing.T) {
	var pagesServed []int
	client := &mockClient{
		platform: integration.PlatformCodeShopee,
		fetchFunc: func(_ context.Context, req *integration.OrderPullRequest) (*integration.OrderPullResponse, error) {
			pagesServed = append(pagesServed, req.PageNo)
			switch req.PageNo {
			case 1:
				return &integration.OrderPullResponse{
					Orders:     []integration.PlatformOrder{shopeeOrder("6001", "0912345678", "SHIPPED")},
					HasMore:    true,
					NextPageNo: 2,
				}, nil
			default:
				return &integration.OrderPullResponse{
					Orders: []integration.PlatformOrder{shopeeOrder("6002", "0912345671", "SHIPPED")},
				}, nil
			}
		},
	}
	f := newPipelineFixture(t, client)

	result := f.pipeline.ProcessOrdersForDate(context.Background(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.True(t, result.Success)
	assert.Equal(t, []int{1, 2}, pagesServed)
	assert.Equal(t, 2, result.OrdersProcessed)
}

func TestPipeline_ProcessUpdatedOrders_Watermark(t *testing.T) {
	var dates []time.Time
	client := &mockClient{
		platform: integration.PlatformCodeShopee,
		fetchFunc: func(_ context.Context, req *integration.OrderPullRequest) (*integration.OrderPullResponse, error) {
			dates = append(dates, req.Date)
			return &integration.OrderPullResponse{}, nil
		},
	}
	f := newPipelineFixture(t, client)

	now := time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)
	f.pipeline.now = func() time.Time { return now }
	require.NoError(t, f.watermarks.Set(context.Background(), integration.PlatformCodeShopee, now.AddDate(0, 0, -2)))

	result := f.pipeline.ProcessUpdatedOrders(context.Background())

	require.True(t, result.Success)
	assert.Len(t, dates, 3, "watermark date through today inclusive")
	assert.Equal(t, 0, result.OrdersProcessed)

	watermark, found, err := f.watermarks.Get(context.Background(), integration.PlatformCodeShopee)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, now, watermark, "watermark advances to run start")
}

func TestPipeline_ProcessUpdatedOrders_FailureKeepsWatermark(t *testing.T) {
	client := &mockClient{
		platform: integration.PlatformCodeShopee,
		fetchFunc: func(_ context.Context, _ *integration.OrderPullRequest) (*integration.OrderPullResponse, error) {
			return nil, fmt.Errorf("%w: 502", integration.ErrPlatformRequestFailed)
		},
	}
	f := newPipelineFixture(t, client)

	now := time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)
	f.pipeline.now = func() time.Time { return now }
	previous := now.AddDate(0, 0, -1)
	require.NoError(t, f.watermarks.Set(context.Background(), integration.PlatformCodeShopee, previous))

	result := f.pipeline.ProcessUpdatedOrders(context.Background())

	assert.False(t, result.Success)
	watermark, _, err := f.watermarks.Get(context.Background(), integration.PlatformCodeShopee)
	require.NoError(t, err)
	assert.Equal(t, previous, watermark, "failed run must not advance the watermark")
}

func TestPipeline_GuestCustomerIsDeterministic(t *testing.T) {
	order := shopeeOrder("7001", "", "SHIPPED")
	order.BuyerEmail = ""
	f := newPipelineFixture(t, singlePageClient(order))
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.True(t, f.pipeline.ProcessOrdersForDate(context.Background(), date).Success)
	require.True(t, f.pipeline.ProcessOrdersForDate(context.Background(), date).Success)

	assert.Equal(t, 1, f.customers.count(), "guest fallback stays idempotent across pulls")
}

package etl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/domain/identity"
	"github.com/orderhub/backend/internal/domain/integration"
)

var (
	ErrPullAborted = errors.New("etl: order pull aborted")
	ErrRunTimeout  = errors.New("etl: run budget exhausted")
)

// Config bounds one pipeline run.
type Config struct {
	// PageSize is the page size requested from the platform API
	PageSize int
	// MaxPages caps pages per date so a misbehaving API cannot occupy
	// the scheduler indefinitely
	MaxPages int
	// RunTimeout bounds a whole ProcessUpdatedOrders run, zero disables
	RunTimeout time.Duration
	// LookbackDays is the window pulled when no watermark exists yet
	LookbackDays int
}

func (c Config) withDefaults() Config {
	if c.PageSize <= 0 {
		c.PageSize = 50
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 200
	}
	if c.LookbackDays <= 0 {
		c.LookbackDays = 3
	}
	return c
}

// Stores bundles the repository capabilities one pipeline writes
// through.
type Stores struct {
	Orders        canonical.OrderRepository
	Customers     canonical.CustomerRepository
	Products      canonical.ProductRepository
	OrderStatuses canonical.OrderStatusRepository
	Dimensions    canonical.DimensionRepository
	Watermarks    integration.WatermarkStore
}

// Pipeline is the per-platform extract-transform-load unit. All three
// platforms share this implementation; only the injected client differs,
// so platform-specific record shapes stay inside the adapters.
type Pipeline struct {
	client        integration.PlatformClient
	hasher        *identity.Hasher
	canonicalizer *StatusCanonicalizer
	stores        Stores
	cfg           Config
	logger        *zap.Logger
	now           func() time.Time
}

// NewPipeline wires a pipeline for one platform client.
func NewPipeline(
	client integration.PlatformClient,
	hasher *identity.Hasher,
	canonicalizer *StatusCanonicalizer,
	stores Stores,
	cfg Config,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		client:        client,
		hasher:        hasher,
		canonicalizer: canonicalizer,
		stores:        stores,
		cfg:           cfg.withDefaults(),
		logger:        logger.With(zap.String("platform", string(client.PlatformCode()))),
		now:           time.Now,
	}
}

// Platform returns the platform this pipeline ingests.
func (p *Pipeline) Platform() integration.PlatformCode {
	return p.client.PlatformCode()
}

// ProcessUpdatedOrders pulls every date from the stored watermark up to
// today and advances the watermark when the run succeeds.
func (p *Pipeline) ProcessUpdatedOrders(ctx context.Context) *EtlResult {
	startedAt := p.now()
	if p.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.RunTimeout)
		defer cancel()
	}

	result := newResult(p.Platform(), startedAt)

	from, err := p.fetchWindowStart(ctx)
	if err != nil {
		p.logger.Error("failed to load watermark", zap.Error(err))
		result.Success = false
		result.ErrorMessage = err.Error()
		return result.finish(startedAt)
	}

	today := dateOf(startedAt)
	for date := dateOf(from); !date.After(today); date = date.AddDate(0, 0, 1) {
		dayResult := p.processDate(ctx, date)
		result.merge(dayResult)
		if !dayResult.Success {
			// leave the watermark untouched so the next run retries
			// this window
			return result.finish(startedAt)
		}
	}

	if err := p.stores.Watermarks.Set(ctx, p.Platform(), startedAt); err != nil {
		// the run itself succeeded; the next run just re-pulls a window
		p.logger.Warn("failed to advance watermark", zap.Error(err))
	}

	p.logger.Info("etl run completed",
		zap.Int("total_orders", result.TotalOrders),
		zap.Int("orders_processed", result.OrdersProcessed),
		zap.Int("orders_failed", result.OrdersFailed),
		zap.Int64("duration_ms", time.Since(startedAt).Milliseconds()),
	)
	return result.finish(startedAt)
}

// ProcessOrdersForDate pulls a single explicit date. The watermark is
// not consulted or advanced.
func (p *Pipeline) ProcessOrdersForDate(ctx context.Context, date time.Time) *EtlResult {
	startedAt := p.now()
	if p.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.RunTimeout)
		defer cancel()
	}

	result := p.processDate(ctx, dateOf(date))
	return result.finish(startedAt)
}

func (p *Pipeline) fetchWindowStart(ctx context.Context) (time.Time, error) {
	watermark, found, err := p.stores.Watermarks.Get(ctx, p.Platform())
	if err != nil {
		return time.Time{}, err
	}
	if !found {
		return p.now().AddDate(0, 0, -p.cfg.LookbackDays), nil
	}
	return watermark, nil
}

// processDate runs the page loop for one date. A fetch failure aborts
// the date and marks the result unsuccessful; per-order failures are
// recorded and skipped over.
func (p *Pipeline) processDate(ctx context.Context, date time.Time) *EtlResult {
	result := newResult(p.Platform(), p.now())

	pageNo := 1
	for pages := 0; pages < p.cfg.MaxPages; pages++ {
		select {
		case <-ctx.Done():
			result.Success = false
			result.ErrorMessage = ErrRunTimeout.Error()
			return result
		default:
		}

		req := &integration.OrderPullRequest{
			PlatformCode: p.Platform(),
			Date:         date,
			PageNo:       pageNo,
			PageSize:     p.cfg.PageSize,
		}

		resp, err := p.client.FetchOrders(ctx, req)
		if err != nil {
			p.logger.Error("failed to pull orders",
				zap.Time("date", date),
				zap.Int("page_no", pageNo),
				zap.Error(err),
			)
			result.Success = false
			result.ErrorMessage = fmt.Errorf("%w: %v", ErrPullAborted, err).Error()
			return result
		}

		result.TotalOrders += len(resp.Orders)

		for i := range resp.Orders {
			order := &resp.Orders[i]
			if err := p.processOrder(ctx, order); err != nil {
				p.logger.Error("failed to process order",
					zap.String("platform_order_id", order.PlatformOrderID),
					zap.Error(err),
				)
				result.recordFailure(order.PlatformOrderID, err.Error())
				continue
			}
			result.OrdersProcessed++
		}

		p.logger.Debug("processed page",
			zap.Time("date", date),
			zap.Int("page_no", pageNo),
			zap.Int("orders_in_page", len(resp.Orders)),
		)

		if !resp.HasMore || len(resp.Orders) == 0 {
			return result
		}
		if resp.NextPageNo > pageNo {
			pageNo = resp.NextPageNo
		} else {
			pageNo++
		}
	}

	p.logger.Warn("page budget exhausted", zap.Time("date", date), zap.Int("max_pages", p.cfg.MaxPages))
	return result
}

// processOrder transforms and persists a single raw order. Each step's
// upsert is keyed by a natural identifier, so re-processing the same
// order converges to the same row state.
func (p *Pipeline) processOrder(ctx context.Context, raw *integration.PlatformOrder) error {
	if err := raw.Validate(); err != nil {
		return err
	}

	customer, err := p.resolveCustomer(ctx, raw)
	if err != nil {
		return fmt.Errorf("resolve customer: %w", err)
	}

	status, err := p.canonicalizer.Resolve(ctx, raw.PlatformCode, raw.StatusCode, raw.StatusName)
	if err != nil {
		return err
	}

	orderID := canonical.NewOrderID(raw.PlatformCode, raw.PlatformOrderID)
	order := &canonical.Order{
		OrderID:           orderID,
		Platform:          raw.PlatformCode,
		CustomerID:        customer.CustomerID,
		ShopID:            raw.ShopID,
		StatusKey:         status.StatusKey,
		GrossRevenue:      raw.GrossRevenue,
		Currency:          raw.Currency,
		OrderedAt:         raw.OrderedAt,
		PlatformUpdatedAt: raw.UpdatedAt,
		RawData:           raw.RawData,
		Items:             mapItems(orderID, raw.Items),
	}
	if err := order.Validate(); err != nil {
		return err
	}
	if err := p.stores.Orders.Upsert(ctx, order); err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}

	for _, item := range raw.Items {
		if item.SKU == "" && item.PlatformProductID == "" {
			continue
		}
		product := &canonical.Product{
			SKU:               item.SKU,
			PlatformProductID: item.PlatformProductID,
			Platform:          raw.PlatformCode,
			Name:              item.ProductName,
		}
		if err := p.stores.Products.Upsert(ctx, product); err != nil {
			return fmt.Errorf("upsert product %s: %w", item.SKU, err)
		}
	}

	if err := p.upsertDimensions(ctx, orderID, raw); err != nil {
		return err
	}

	return p.appendStatusHistory(ctx, orderID, status, raw)
}

func (p *Pipeline) resolveCustomer(ctx context.Context, raw *integration.PlatformOrder) (*canonical.Customer, error) {
	phoneHash, _ := p.hasher.HashPhone(raw.BuyerPhone)
	emailHash, _ := p.hasher.HashEmail(raw.BuyerEmail)

	var customerID string
	switch {
	case phoneHash != "":
		customerID = canonical.NewCustomerID(raw.PlatformCode, phoneHash)
	case emailHash != "":
		customerID = canonical.NewCustomerID(raw.PlatformCode, emailHash)
	default:
		// no usable identity; a deterministic guest ID keeps re-pulls of
		// the same order idempotent
		customerID = fmt.Sprintf("%s-guest-%s", raw.PlatformCode, raw.PlatformOrderID)
	}

	customer := &canonical.Customer{
		CustomerID: customerID,
		Platform:   raw.PlatformCode,
		Name:       raw.BuyerName,
		PhoneHash:  phoneHash,
		EmailHash:  emailHash,
	}
	return p.stores.Customers.GetOrCreate(ctx, customer)
}

func (p *Pipeline) upsertDimensions(ctx context.Context, orderID string, raw *integration.PlatformOrder) error {
	payment := &canonical.PaymentInfo{
		OrderID:   orderID,
		Method:    raw.PaymentMethod,
		CodAmount: raw.CodAmount,
		IsCod:     raw.CodAmount.IsPositive(),
		Currency:  raw.Currency,
	}
	if err := p.stores.Dimensions.UpsertPayment(ctx, payment); err != nil {
		return fmt.Errorf("upsert payment: %w", err)
	}

	receiverPhoneHash, _ := p.hasher.HashPhone(raw.ReceiverPhone)
	shipping := &canonical.ShippingInfo{
		OrderID:           orderID,
		Carrier:           raw.Carrier,
		TrackingNumber:    raw.TrackingNumber,
		ShippingFee:       raw.ShippingFee,
		ReceiverName:      raw.ReceiverName,
		ReceiverPhoneHash: receiverPhoneHash,
	}
	if err := p.stores.Dimensions.UpsertShipping(ctx, shipping); err != nil {
		return fmt.Errorf("upsert shipping: %w", err)
	}

	geography := &canonical.GeographyInfo{
		OrderID:  orderID,
		Province: raw.Province,
		District: raw.District,
		Commune:  raw.Commune,
		Address:  raw.Address,
	}
	if err := p.stores.Dimensions.UpsertGeography(ctx, geography); err != nil {
		return fmt.Errorf("upsert geography: %w", err)
	}

	processingDate := canonical.NewProcessingDateInfo(orderID, raw.OrderedAt, p.now())
	if err := p.stores.Dimensions.UpsertProcessingDate(ctx, &processingDate); err != nil {
		return fmt.Errorf("upsert processing date: %w", err)
	}
	return nil
}

func (p *Pipeline) appendStatusHistory(ctx context.Context, orderID string, status *canonical.Status, raw *integration.PlatformOrder) error {
	transitionAt := raw.UpdatedAt
	if transitionAt.IsZero() {
		transitionAt = raw.OrderedAt
	}

	transition := &canonical.OrderStatus{
		StatusKey:    status.StatusKey,
		OrderID:      orderID,
		TransitionAt: transitionAt,
	}
	if err := p.stores.OrderStatuses.Append(ctx, transition); err != nil {
		return fmt.Errorf("append status history: %w", err)
	}

	detail := canonical.NewOrderStatusDetail(orderID, status, transitionAt)
	if err := p.stores.OrderStatuses.UpsertDetail(ctx, &detail); err != nil {
		return fmt.Errorf("upsert status detail: %w", err)
	}
	return nil
}

func mapItems(orderID string, raw []integration.PlatformOrderItem) []canonical.OrderItem {
	items := make([]canonical.OrderItem, 0, len(raw))
	for i, item := range raw {
		sequence := item.Sequence
		if sequence <= 0 {
			sequence = i + 1
		}
		items = append(items, canonical.OrderItem{
			OrderID:           orderID,
			ItemSequence:      sequence,
			SKU:               item.SKU,
			PlatformProductID: item.PlatformProductID,
			ProductName:       item.ProductName,
			VariationName:     item.VariationName,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			TotalPrice:        item.TotalPrice,
		})
	}
	return items
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package etl

import (
	"time"

	"github.com/orderhub/backend/internal/domain/integration"
)

// FailedOrder identifies one order that could not be processed and why.
type FailedOrder struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

// EtlResult is the aggregated outcome of one pipeline run. Per-order
// failures are surfaced in FailedOrders without flipping Success;
// Success is false only for batch-level failures such as an aborted
// pull.
type EtlResult struct {
	Platform        integration.PlatformCode `json:"platform"`
	TotalOrders     int                      `json:"totalOrders"`
	OrdersProcessed int                      `json:"ordersProcessed"`
	OrdersFailed    int                      `json:"ordersFailed"`
	FailedOrders    []FailedOrder            `json:"failedOrders"`
	DurationMs      int64                    `json:"durationMs"`
	Success         bool                     `json:"success"`
	ErrorMessage    string                   `json:"errorMessage,omitempty"`
	StartedAt       time.Time                `json:"startedAt"`
}

func newResult(platform integration.PlatformCode, startedAt time.Time) *EtlResult {
	return &EtlResult{
		Platform:     platform,
		FailedOrders: make([]FailedOrder, 0),
		Success:      true,
		StartedAt:    startedAt,
	}
}

func (r *EtlResult) recordFailure(orderID string, reason string) {
	r.OrdersFailed++
	r.FailedOrders = append(r.FailedOrders, FailedOrder{OrderID: orderID, Reason: reason})
}

// merge folds a per-date result into a multi-date run result.
func (r *EtlResult) merge(other *EtlResult) {
	r.TotalOrders += other.TotalOrders
	r.OrdersProcessed += other.OrdersProcessed
	r.OrdersFailed += other.OrdersFailed
	r.FailedOrders = append(r.FailedOrders, other.FailedOrders...)
	if !other.Success {
		r.Success = false
		if r.ErrorMessage == "" {
			r.ErrorMessage = other.ErrorMessage
		}
	}
}

func (r *EtlResult) finish(startedAt time.Time) *EtlResult {
	r.DurationMs = time.Since(startedAt).Milliseconds()
	return r
}

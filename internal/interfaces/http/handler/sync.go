package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/orderhub/backend/internal/application/etl"
	"github.com/orderhub/backend/internal/infrastructure/scheduler"
	"github.com/orderhub/backend/internal/interfaces/http/dto"
)

// TriggerPlatformRequest carries the optional query parameters of a
// per-platform trigger.
type TriggerPlatformRequest struct {
	// Date re-ingests one day instead of syncing from the watermark
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// SyncScheduler is the slice of the scheduler the HTTP layer drives.
type SyncScheduler interface {
	TriggerAllPlatforms(ctx context.Context) (*scheduler.CycleResult, error)
	TriggerPlatform(ctx context.Context, name string) (*etl.EtlResult, bool)
	TriggerPlatformForDate(ctx context.Context, name string, date time.Time) (*etl.EtlResult, bool)
	GetStatistics() scheduler.Statistics
	History() []scheduler.CycleResult
}

// SyncHandler exposes manual sync triggers and scheduler statistics
type SyncHandler struct {
	BaseHandler
	scheduler SyncScheduler
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(s SyncScheduler) *SyncHandler {
	return &SyncHandler{scheduler: s}
}

// RegisterRoutes registers sync endpoints on the given router group
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/trigger", h.TriggerAll)
		sync.POST("/platforms/:platform/trigger", h.TriggerPlatform)
		sync.GET("/statistics", h.GetStatistics)
		sync.GET("/history", h.GetHistory)
	}
}

// TriggerAll runs one full sync cycle over every enabled platform and
// returns its aggregated result. A cycle already in flight is reported
// as a conflict, not queued.
func (h *SyncHandler) TriggerAll(c *gin.Context) {
	cycle, err := h.scheduler.TriggerAllPlatforms(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrCycleInProgress):
			h.ErrorWithCode(c, dto.ErrCodeSyncInProgress, "a sync cycle is already executing")
		case errors.Is(err, scheduler.ErrNoEnabledPlatforms):
			h.ErrorWithCode(c, dto.ErrCodeNoPlatformsEnabled, "no platforms are enabled for sync")
		default:
			h.HandleError(c, err)
		}
		return
	}
	h.Success(c, cycle)
}

// TriggerPlatform runs one platform's pipeline. An optional date query
// parameter (YYYY-MM-DD) re-ingests that day instead of syncing from
// the watermark.
func (h *SyncHandler) TriggerPlatform(c *gin.Context) {
	name := c.Param("platform")

	var req TriggerPlatformRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			h.BadRequest(c, "invalid date, expected YYYY-MM-DD")
			return
		}
		h.BadRequest(c, "invalid query parameters")
		return
	}

	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			h.BadRequest(c, "invalid date, expected YYYY-MM-DD")
			return
		}
		result, ok := h.scheduler.TriggerPlatformForDate(c.Request.Context(), name, date)
		if !ok {
			h.ErrorWithCode(c, dto.ErrCodePlatformUnavailable, "platform unknown or not enabled: "+name)
			return
		}
		h.Success(c, result)
		return
	}

	result, ok := h.scheduler.TriggerPlatform(c.Request.Context(), name)
	if !ok {
		h.ErrorWithCode(c, dto.ErrCodePlatformUnavailable, "platform unknown or not enabled: "+name)
		return
	}
	h.Success(c, result)
}

// GetStatistics returns a snapshot of scheduler state including
// per-platform counters and health
func (h *SyncHandler) GetStatistics(c *gin.Context) {
	h.Success(c, h.scheduler.GetStatistics())
}

// GetHistory returns recent sync cycles, most recent last
func (h *SyncHandler) GetHistory(c *gin.Context) {
	h.Success(c, h.scheduler.History())
}

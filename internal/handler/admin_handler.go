package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawsitivelybooked/server/internal/application"
	"github.com/pawsitivelybooked/server/internal/response"
)

// AdminHandler exposes operational endpoints: booking statistics and the
// on-demand lifecycle sweep trigger used by schedulers and tests.
type AdminHandler struct {
	bookings  *application.BookingService
	lifecycle *application.LifecycleService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService, lifecycle *application.LifecycleService) *AdminHandler {
	return &AdminHandler{bookings: bookings, lifecycle: lifecycle}
}

// RegisterRoutes registers operational routes. These are expected to be
// reachable only from the internal network.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	internal := r.Group("/internal/v1")
	{
		internal.POST("/sweep", h.RunSweep)
		internal.GET("/stats/bookings", h.BookingStats)
	}
}

// RunSweep handles POST /internal/v1/sweep. The sweep is idempotent, so
// triggering it repeatedly is safe. An optional ?now=2026-08-30 overrides
// the clock, which the end-to-end tests rely on.
func (h *AdminHandler) RunSweep(c *gin.Context) {
	now := time.Now().UTC()
	if raw := c.Query("now"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			response.BadRequest(c, "now must be formatted as YYYY-MM-DD")
			return
		}
		now = parsed
	}

	result, err := h.lifecycle.RunSweep(c.Request.Context(), now)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BookingStats handles GET /internal/v1/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

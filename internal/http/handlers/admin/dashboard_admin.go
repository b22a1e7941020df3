package admin

import (
	"github.com/dorada-store/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboard returns the stock, order and revenue overview.
func (h *Handler) GetDashboard(c *gin.Context) {
	stats, err := h.DashboardService.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, stats)
}

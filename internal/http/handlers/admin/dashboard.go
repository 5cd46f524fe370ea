package admin

import (
	"github.com/belleza-studio/belleza-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview returns today's summary numbers.
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	overview, err := h.DashboardService.Overview()
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard fetch failed", err)
		return
	}
	response.Success(c, overview)
}

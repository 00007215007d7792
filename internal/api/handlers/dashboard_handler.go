package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/procurehq/lpoflow/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary returns the aggregated dashboard data
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboardService.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

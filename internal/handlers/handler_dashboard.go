package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/sbfleet/fleet_account_manager/internal/core/ports/services"
	"github.com/sbfleet/fleet_account_manager/internal/dto"
)

// DashboardHandler serves the aggregate dashboard payload.
type DashboardHandler struct {
	dashboardService portssvc.DashboardSvcFacade
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(ds portssvc.DashboardSvcFacade) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

// registerDashboardRoutes sets up the dashboard routes under /api/v1.
func registerDashboardRoutes(rg *gin.RouterGroup, ds portssvc.DashboardSvcFacade) {
	h := NewDashboardHandler(ds)
	rg.GET("/dashboard/summary", h.GetSummary)
}

// GetSummary godoc
// @Summary Dashboard summary
// @Description Returns total/active/inactive/needs-review counts, the total sales sum, and the most recent review alerts.
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardSummaryResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, alerts, err := h.dashboardService.GetSummary(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to build dashboard summary")
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardSummaryResponse(summary, alerts))
}

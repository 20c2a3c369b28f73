package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ro-recruiting/back-office-api/internal/service"
	"github.com/ro-recruiting/back-office-api/pkg/response"
)

// DashboardHandler exposes the back-office overview.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Metrics godoc
// @Summary Dashboard metrics
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Metrics(c *gin.Context) {
	metrics, err := h.dashboard.Metrics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, metrics, nil)
}

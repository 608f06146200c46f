package handler

import (
	"net/http"

	analyticsService "anoa.com/wismacare/internal/modules/analytics/service"
	"anoa.com/wismacare/pkg/response"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service analyticsService.AnalyticsService
}

func NewAnalyticsHandler(service analyticsService.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.service.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) GetTechnicianStats(c *gin.Context) {
	stats, err := h.service.GetTechnicianStats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

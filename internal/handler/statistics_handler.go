package handler

import (
	"net/http"
	"time"

	"garage/internal/middleware"
	"garage/internal/service"
	"garage/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	now               func() time.Time
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, now: time.Now}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/api/statistics")
	statsGroup.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleAdvisor))
	{
		statsGroup.GET("", h.GetDashboard)
		statsGroup.GET("/revenue", h.GetRevenueStatistics)
	}
}

// @Summary      Get Dashboard Statistics
// @Description  Work orders by status, invoiced and collected totals, and top services bounded by time
// @Tags         statistics
// @Produce      json
// @Param        start_date query string false "Start Date (RFC3339)"
// @Param        end_date   query string false "End Date (RFC3339)"
// @Success      200 {object} response.Response{data=service.DashboardResponse}
// @Failure      400 {object} response.Response "Invalid date format"
// @Security     BearerAuth
// @Router       /api/statistics [get]
func (h *StatisticsHandler) GetDashboard(c *gin.Context) {
	startDate, endDate, ok := dateRange(c, h.now().UTC())
	if !ok {
		return
	}
	stats, err := h.statisticsService.GetDashboard(c.Request.Context(), startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// GetRevenueStatistics returns invoiced revenue grouped by period
// @Summary      Get revenue statistics
// @Description  Returns service, labor, parts, tax and discount totals grouped by time period
// @Tags         statistics
// @Security     BearerAuth
// @Produce      json
// @Param        group_by    query     string  false  "Group by period: week, month, quarter, year (default: month)"
// @Param        start_date  query     string  false  "Start date (RFC3339)"
// @Param        end_date    query     string  false  "End date (RFC3339)"
// @Success      200         {object}  response.Response{data=[]service.RevenueDataPoint}
// @Router       /api/statistics/revenue [get]
func (h *StatisticsHandler) GetRevenueStatistics(c *gin.Context) {
	startDate, endDate, ok := dateRange(c, h.now().UTC())
	if !ok {
		return
	}
	data, err := h.statisticsService.GetRevenueStatistics(c.Request.Context(), service.RevenueFilter{
		GroupBy:   c.DefaultQuery("group_by", "month"),
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}

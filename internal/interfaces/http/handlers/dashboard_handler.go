package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stock-tracker.backend/internal/domain/entities"
	"stock-tracker.backend/internal/interfaces/http/response"
)

type DashboardService interface {
	GetDashboard(ctx context.Context, userID uuid.UUID) (*entities.Dashboard, error)
	GetNotifications(ctx context.Context, userID uuid.UUID) ([]entities.Notification, error)
}

type ReportService interface {
	GetSummary(ctx context.Context) (*entities.ReportSummary, error)
}

// DashboardHandler serves the dashboard, notifications and reports
type DashboardHandler struct {
	dashboardService DashboardService
	reportService    ReportService
}

func NewDashboardHandler(dashboardService DashboardService, reportService ReportService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		reportService:    reportService,
	}
}

// GetDashboard GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"stats":         dashboard.Stats,
		"recentOrders":  presentOrders(dashboard.RecentOrders),
		"notifications": dashboard.Notifications,
	})
}

// GetNotifications GET /api/v1/notifications
func (h *DashboardHandler) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notifications, err := h.dashboardService.GetNotifications(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notifications": notifications})
}

// GetReportSummary GET /api/v1/reports/summary
func (h *DashboardHandler) GetReportSummary(c *gin.Context) {
	summary, err := h.reportService.GetSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

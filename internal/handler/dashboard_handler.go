package handler

import (
	"net/http"

	"github.com/Eursukkul/dormmate-service/internal/middleware"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	dashboard service.DashboardService
	stats     service.StatsService
}

func NewDashboardHandler(dashboard service.DashboardService, stats service.StatsService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, stats: stats}
}

func (h *DashboardHandler) RegisterRoutes(v1 *echo.Group, mw Guards) {
	v1.GET("/dashboard", h.Dashboard, mw.Optional)
	v1.GET("/stats/summary", h.Summary, mw.Auth, middleware.RequireRole(models.RoleAdmin, models.RoleSecurity))
}

// Dashboard never fails on a bad or missing session; it shows the landing
// view instead.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	view, err := h.dashboard.Compose(c.Request().Context(), middleware.Claims(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *DashboardHandler) Summary(c echo.Context) error {
	summary, err := h.stats.Summary(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

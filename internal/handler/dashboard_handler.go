package handler

import (
	"github.com/gofiber/fiber/v2"

	"studioflow/internal/domain"
	"studioflow/internal/middleware"
	"studioflow/internal/service"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Me(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	dash, err := h.dashboardService.ForUser(c.Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(dash)
}

// PlatformStats is admin-scoped via route middleware.
func (h *DashboardHandler) PlatformStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.PlatformStats(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(stats)
}

package handlers

import (
	"workshop-management-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetDashboardStatistics returns the organizer dashboard aggregates
// @Summary Dashboard statistics
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response
// @Router /statistics/dashboard [get]
func (h *Handler) GetDashboardStatistics(c *fiber.Ctx) error {
	stats, err := h.statsSvc.GetDashboardStatistics()
	if err != nil {
		return utils.Error(c, "Failed to compute statistics", fiber.StatusInternalServerError)
	}
	return utils.Success(c, stats, "Dashboard statistics retrieved successfully")
}

// GetWorkshopStatistics returns attendance and revenue aggregates for one
// workshop
// @Summary Workshop statistics
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workshop ID"
// @Success 200 {object} utils.Response
// @Router /workshops/{id}/statistics [get]
func (h *Handler) GetWorkshopStatistics(c *fiber.Ctx) error {
	workshopID := c.Params("id")
	if _, err := uuid.Parse(workshopID); err != nil {
		return utils.Error(c, "Invalid workshop ID", fiber.StatusBadRequest)
	}

	stats, err := h.statsSvc.GetWorkshopStatistics(workshopID)
	if err != nil {
		return utils.Error(c, "Workshop not found", fiber.StatusNotFound)
	}

	return utils.Success(c, stats, "Workshop statistics retrieved successfully")
}

// ClearStatisticsCache drops every cached statistics aggregate
// @Summary Clear statistics cache
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response
// @Router /statistics/cache [delete]
func (h *Handler) ClearStatisticsCache(c *fiber.Ctx) error {
	h.statsSvc.ClearCache()
	return utils.Success(c, nil, "Statistics cache cleared")
}

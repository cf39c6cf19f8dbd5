package handlers

import (
	"workshop-management-backend/internal/middleware"
	"workshop-management-backend/internal/services"
	"workshop-management-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type RoleRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateRoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SetPermissionsRequest struct {
	RouteNames []string `json:"route_names" validate:"required"`
}

// CreateRole creates a role
// @Summary Create role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RoleRequest true "Role data"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /admin/roles [post]
func (h *Handler) CreateRole(c *fiber.Ctx) error {
	var req RoleRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	role, err := h.permSvc.CreateRole(services.RoleRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, role, "Role created successfully", fiber.StatusCreated)
}

func (h *Handler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.permSvc.ListRoles()
	if err != nil {
		return utils.Error(c, "Failed to fetch roles", fiber.StatusInternalServerError)
	}
	return utils.Success(c, roles, "Roles retrieved successfully")
}

func (h *Handler) GetRole(c *fiber.Ctx) error {
	role, err := h.permSvc.GetRole(c.Params("id"))
	if err != nil {
		return utils.Error(c, "Role not found", fiber.StatusNotFound)
	}
	return utils.Success(c, role, "Role retrieved successfully")
}

func (h *Handler) UpdateRole(c *fiber.Ctx) error {
	var req UpdateRoleRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	role, err := h.permSvc.UpdateRole(c.Params("id"), services.RoleRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, role, "Role updated successfully")
}

func (h *Handler) DeleteRole(c *fiber.Ctx) error {
	if err := h.permSvc.DeleteRole(c.Params("id")); err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}
	return utils.Success(c, nil, "Role deleted successfully")
}

// GetRolePermissions returns the role's route allow list
// @Summary Get role permissions
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Success 200 {object} utils.Response
// @Router /admin/roles/{id}/permissions [get]
func (h *Handler) GetRolePermissions(c *fiber.Ctx) error {
	permissions, err := h.permSvc.GetPermissions(c.Params("id"))
	if err != nil {
		return utils.Error(c, "Role not found", fiber.StatusNotFound)
	}
	return utils.Success(c, permissions, "Permissions retrieved successfully")
}

// SetRolePermissions replaces the role's route allow list
// @Summary Set role permissions
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Param request body SetPermissionsRequest true "Route names"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /admin/roles/{id}/permissions [put]
func (h *Handler) SetRolePermissions(c *fiber.Ctx) error {
	var req SetPermissionsRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	if err := h.permSvc.SetPermissions(c.Params("id"), req.RouteNames); err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, nil, "Permissions updated successfully")
}

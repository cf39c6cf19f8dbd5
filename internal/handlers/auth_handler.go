package handlers

import (
	"strconv"
	"time"

	"workshop-management-backend/internal/middleware"
	"workshop-management-backend/internal/services"
	"workshop-management-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	RoleID   string `json:"role_id" validate:"required,uuid"`
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	RoleID   string `json:"role_id" validate:"omitempty,uuid"`
	IsActive *bool  `json:"is_active"`
}

// Login handles user authentication
// @Summary User login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /auth/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	result, err := h.authSvc.Login(req.Email, req.Password)
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusUnauthorized)
	}

	return utils.Success(c, result, "Login successful")
}

// GetProfile returns current user profile
// @Summary Get user profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /profile [get]
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusUnauthorized)
	}

	user, err := h.authSvc.GetProfile(userID)
	if err != nil {
		return utils.Error(c, "User not found", fiber.StatusNotFound)
	}

	return utils.Success(c, user, "Profile retrieved successfully")
}

// CreateUser registers a new back-office user (Admin only)
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /admin/users [post]
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	user, err := h.authSvc.CreateUser(services.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, user, "User created successfully", fiber.StatusCreated)
}

// ListUsers returns a paginated user list
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.Response
// @Router /admin/users [get]
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	users, total, totalPages, err := h.authSvc.ListUsers(page, pageSize)
	if err != nil {
		return utils.Error(c, "Failed to fetch users", fiber.StatusInternalServerError)
	}

	meta := &utils.Meta{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPages,
	}

	return utils.SuccessWithMeta(c, users, meta, "Users retrieved successfully")
}

// ExportUsers streams the user report as CSV
// @Summary Export users
// @Tags Users
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /admin/users/export [get]
func (h *Handler) ExportUsers(c *fiber.Ctx) error {
	header, rows, err := h.authSvc.ExportRows()
	if err != nil {
		return utils.Error(c, "Failed to export users", fiber.StatusInternalServerError)
	}

	filename := utils.SanitizeFilename("users_"+time.Now().Format("2006-01-02")) + ".csv"
	return sendCSV(c, filename, header, rows)
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	user, err := h.authSvc.GetUser(c.Params("id"))
	if err != nil {
		return utils.Error(c, "User not found", fiber.StatusNotFound)
	}
	return utils.Success(c, user, "User retrieved successfully")
}

func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	user, err := h.authSvc.UpdateUser(c.Params("id"), services.UpdateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
		IsActive: req.IsActive,
	})
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	// role or active-flag changes must not serve stale decisions
	h.permSvc.ClearUserCache(user.ID.String())

	return utils.Success(c, user, "User updated successfully")
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authSvc.DeleteUser(id); err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}
	h.permSvc.ClearUserCache(id)
	return utils.Success(c, nil, "User deleted successfully")
}

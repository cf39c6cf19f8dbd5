package handlers

import (
	"errors"
	"strconv"
	"time"

	"workshop-management-backend/internal/middleware"
	"workshop-management-backend/internal/repositories"
	"workshop-management-backend/internal/services"
	"workshop-management-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateWorkshopRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	DateTime    time.Time `json:"date_time" validate:"required"`
	Location    string    `json:"location"`
}

// UpdateWorkshopRequest uses pointers so omitted fields stay untouched.
type UpdateWorkshopRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	DateTime    *time.Time `json:"date_time"`
	Location    *string    `json:"location"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published ongoing completed cancelled"`
}

type TicketTypeRequest struct {
	Name     string `json:"name" validate:"required"`
	FeeCents int64  `json:"fee_cents" validate:"min=0"`
}

// CreateWorkshop creates a workshop in draft status
// @Summary Create workshop
// @Tags Workshops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateWorkshopRequest true "Workshop data"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /workshops [post]
func (h *Handler) CreateWorkshop(c *fiber.Ctx) error {
	var req CreateWorkshopRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	workshop, err := h.workshopSvc.CreateWorkshop(services.CreateWorkshopRequest{
		Name:        req.Name,
		Description: req.Description,
		DateTime:    req.DateTime,
		Location:    req.Location,
	})
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, workshop, "Workshop created successfully", fiber.StatusCreated)
}

// ListWorkshops returns a paginated workshop list with optional status and
// search filters
// @Summary List workshops
// @Tags Workshops
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param status query string false "Filter by status"
// @Param search query string false "Search by name or location"
// @Success 200 {object} utils.Response
// @Router /workshops [get]
func (h *Handler) ListWorkshops(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	filters := &repositories.WorkshopFilters{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	workshops, total, totalPages, err := h.workshopSvc.ListWorkshops(page, pageSize, filters)
	if err != nil {
		return utils.Error(c, "Failed to fetch workshops", fiber.StatusInternalServerError)
	}

	meta := &utils.Meta{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPages,
	}

	return utils.SuccessWithMeta(c, workshops, meta, "Workshops retrieved successfully")
}

func (h *Handler) GetWorkshop(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.Error(c, "Invalid workshop ID", fiber.StatusBadRequest)
	}

	workshop, err := h.workshopSvc.GetWorkshop(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, "Workshop not found", fiber.StatusNotFound)
		}
		return utils.Error(c, "Failed to fetch workshop", fiber.StatusInternalServerError)
	}

	return utils.Success(c, workshop, "Workshop retrieved successfully")
}

func (h *Handler) UpdateWorkshop(c *fiber.Ctx) error {
	var req UpdateWorkshopRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	workshop, err := h.workshopSvc.UpdateWorkshop(c.Params("id"), services.UpdateWorkshopRequest{
		Name:        req.Name,
		Description: req.Description,
		DateTime:    req.DateTime,
		Location:    req.Location,
	})
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, workshop, "Workshop updated successfully")
}

// ChangeWorkshopStatus moves a workshop through its status lifecycle
// @Summary Change workshop status
// @Tags Workshops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workshop ID"
// @Param request body ChangeStatusRequest true "New status"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /workshops/{id}/status [patch]
func (h *Handler) ChangeWorkshopStatus(c *fiber.Ctx) error {
	var req ChangeStatusRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	workshop, err := h.workshopSvc.ChangeStatus(c.Params("id"), req.Status)
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, workshop, "Workshop status updated successfully")
}

func (h *Handler) DeleteWorkshop(c *fiber.Ctx) error {
	if err := h.workshopSvc.DeleteWorkshop(c.Params("id")); err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}
	return utils.Success(c, nil, "Workshop deleted successfully")
}

func (h *Handler) AddTicketType(c *fiber.Ctx) error {
	var req TicketTypeRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	tt, err := h.workshopSvc.AddTicketType(c.Params("id"), services.TicketTypeRequest{
		Name:     req.Name,
		FeeCents: req.FeeCents,
	})
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, tt, "Ticket type created successfully", fiber.StatusCreated)
}

func (h *Handler) ListTicketTypes(c *fiber.Ctx) error {
	ticketTypes, err := h.workshopSvc.ListTicketTypes(c.Params("id"))
	if err != nil {
		return utils.Error(c, "Failed to fetch ticket types", fiber.StatusInternalServerError)
	}
	return utils.Success(c, ticketTypes, "Ticket types retrieved successfully")
}

func (h *Handler) UpdateTicketType(c *fiber.Ctx) error {
	var req TicketTypeRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	tt, err := h.workshopSvc.UpdateTicketType(c.Params("id"), services.TicketTypeRequest{
		Name:     req.Name,
		FeeCents: req.FeeCents,
	})
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, tt, "Ticket type updated successfully")
}

func (h *Handler) DeleteTicketType(c *fiber.Ctx) error {
	if err := h.workshopSvc.DeleteTicketType(c.Params("id")); err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}
	return utils.Success(c, nil, "Ticket type deleted successfully")
}

package handlers

import (
	"workshop-management-backend/internal/middleware"
	"workshop-management-backend/internal/services"
	"workshop-management-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TemplateRequest struct {
	Type    string `json:"type" validate:"required,oneof=invite confirm ticket reminder thank_you"`
	Subject string `json:"subject" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type UpdateTemplateRequest struct {
	Type    string `json:"type" validate:"omitempty,oneof=invite confirm ticket reminder thank_you"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// CreateTemplate stores an email template for a workshop
// @Summary Create email template
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workshop ID"
// @Param request body TemplateRequest true "Template data"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /workshops/{id}/templates [post]
func (h *Handler) CreateTemplate(c *fiber.Ctx) error {
	workshopID := c.Params("id")
	if _, err := uuid.Parse(workshopID); err != nil {
		return utils.Error(c, "Invalid workshop ID", fiber.StatusBadRequest)
	}

	var req TemplateRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	tpl, err := h.emailSvc.CreateTemplate(workshopID, services.TemplateRequest{
		Type:    req.Type,
		Subject: req.Subject,
		Content: req.Content,
	})
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, tpl, "Template created successfully", fiber.StatusCreated)
}

func (h *Handler) ListTemplates(c *fiber.Ctx) error {
	workshopID := c.Params("id")
	if _, err := uuid.Parse(workshopID); err != nil {
		return utils.Error(c, "Invalid workshop ID", fiber.StatusBadRequest)
	}

	templates, err := h.emailSvc.ListTemplates(workshopID)
	if err != nil {
		return utils.Error(c, "Failed to fetch templates", fiber.StatusInternalServerError)
	}
	return utils.Success(c, templates, "Templates retrieved successfully")
}

// GetTemplateVariables lists the placeholders templates may reference
// @Summary List template variables
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response
// @Router /templates/variables [get]
func (h *Handler) GetTemplateVariables(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{"variables": h.emailSvc.AdvertisedVariables()},
		"Template variables retrieved successfully")
}

func (h *Handler) GetTemplate(c *fiber.Ctx) error {
	tpl, err := h.emailSvc.GetTemplate(c.Params("id"))
	if err != nil {
		return utils.Error(c, "Template not found", fiber.StatusNotFound)
	}
	return utils.Success(c, tpl, "Template retrieved successfully")
}

func (h *Handler) UpdateTemplate(c *fiber.Ctx) error {
	var req UpdateTemplateRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	tpl, err := h.emailSvc.UpdateTemplate(c.Params("id"), services.TemplateRequest{
		Type:    req.Type,
		Subject: req.Subject,
		Content: req.Content,
	})
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, tpl, "Template updated successfully")
}

func (h *Handler) DeleteTemplate(c *fiber.Ctx) error {
	if err := h.emailSvc.DeleteTemplate(c.Params("id")); err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}
	return utils.Success(c, nil, "Template deleted successfully")
}

// SendTicketEmail queues the ticket email for a participant
// @Summary Send ticket email
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participant ID"
// @Success 202 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /participants/{id}/send-ticket [post]
func (h *Handler) SendTicketEmail(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.Error(c, "Invalid participant ID", fiber.StatusBadRequest)
	}

	if err := h.emailSvc.SendTicketEmail(id); err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, nil, "Ticket email queued", fiber.StatusAccepted)
}

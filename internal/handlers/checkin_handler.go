package handlers

import (
	"errors"
	"strconv"

	"workshop-management-backend/internal/middleware"
	"workshop-management-backend/internal/services"
	"workshop-management-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckInRequest struct {
	TicketCode string `json:"ticket_code" validate:"required"`
	WorkshopID string `json:"workshop_id" validate:"omitempty,uuid"`
}

type ScanRequest struct {
	Data       string `json:"data" validate:"required"`
	WorkshopID string `json:"workshop_id" validate:"omitempty,uuid"`
}

type BulkCheckInRequest struct {
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1,dive,uuid"`
}

// CheckInByTicketCode checks a participant in by ticket code
// @Summary Check in by ticket code
// @Tags CheckIn
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CheckInRequest true "Ticket code"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /checkin [post]
func (h *Handler) CheckInByTicketCode(c *fiber.Ctx) error {
	var req CheckInRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	result := h.checkinSvc.CheckInByTicketCode(req.TicketCode, req.WorkshopID)
	if !result.Success {
		return c.Status(checkInStatus(result.ErrorType)).JSON(result)
	}
	return c.JSON(result)
}

// CheckInByID checks a participant in by id
// @Summary Check in by participant ID
// @Tags CheckIn
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participant ID"
// @Success 200 {object} utils.Response
// @Router /checkin/{id} [post]
func (h *Handler) CheckInByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.ErrorWithType(c, "Invalid participant ID", services.ErrKindInvalidFormat, fiber.StatusBadRequest)
	}

	result := h.checkinSvc.CheckInByID(id)
	if !result.Success {
		return c.Status(checkInStatus(result.ErrorType)).JSON(result)
	}
	return c.JSON(result)
}

// UndoCheckIn reverses a participant's check-in
// @Summary Undo check-in
// @Tags CheckIn
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participant ID"
// @Success 200 {object} utils.Response
// @Router /checkin/{id} [delete]
func (h *Handler) UndoCheckIn(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.ErrorWithType(c, "Invalid participant ID", services.ErrKindInvalidFormat, fiber.StatusBadRequest)
	}

	result := h.checkinSvc.UndoCheckIn(id)
	if !result.Success {
		return c.Status(checkInStatus(result.ErrorType)).JSON(result)
	}
	return c.JSON(result)
}

// BulkCheckIn checks in a batch of participants with partial success
// @Summary Bulk check-in
// @Tags CheckIn
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkCheckInRequest true "Participant IDs"
// @Success 200 {object} utils.Response
// @Router /checkin/bulk [post]
func (h *Handler) BulkCheckIn(c *fiber.Ctx) error {
	var req BulkCheckInRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	result := h.checkinSvc.BulkCheckIn(req.ParticipantIDs)
	if !result.Success {
		return c.Status(checkInStatus(result.ErrorType)).JSON(result)
	}
	return c.JSON(result)
}

// ScanQRCode accepts scanner output, either a bare ticket code or the
// JSON payload embedded in generated QR images
// @Summary Scan QR code
// @Tags CheckIn
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ScanRequest true "Scanned data"
// @Success 200 {object} utils.Response
// @Router /checkin/scan [post]
func (h *Handler) ScanQRCode(c *fiber.Ctx) error {
	var req ScanRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	result := h.checkinSvc.ScanQRPayload(req.Data, req.WorkshopID)
	if !result.Success {
		return c.Status(checkInStatus(result.ErrorType)).JSON(result)
	}
	return c.JSON(result)
}

// SearchParticipants is the check-in desk lookup box
// @Summary Search participants
// @Tags CheckIn
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Param workshop_id query string false "Restrict to workshop"
// @Param limit query int false "Result limit" default(20)
// @Success 200 {object} utils.Response
// @Router /checkin/search [get]
func (h *Handler) SearchParticipants(c *fiber.Ctx) error {
	query := c.Query("q")
	workshopID := c.Query("workshop_id")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	result := h.checkinSvc.SearchParticipants(query, workshopID, limit)
	return c.JSON(result)
}

// GetCheckInStats returns the check-in dashboard counts for a workshop
// @Summary Check-in statistics
// @Tags CheckIn
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workshop ID"
// @Success 200 {object} utils.Response
// @Router /workshops/{id}/checkin-stats [get]
func (h *Handler) GetCheckInStats(c *fiber.Ctx) error {
	workshopID := c.Params("id")
	if _, err := uuid.Parse(workshopID); err != nil {
		return utils.ErrorWithType(c, "Invalid workshop ID", services.ErrKindInvalidFormat, fiber.StatusBadRequest)
	}

	stats, err := h.checkinSvc.GetWorkshopStatistics(workshopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorWithType(c, "Workshop not found", services.ErrKindNotFound, fiber.StatusNotFound)
		}
		return utils.ErrorWithType(c, "Failed to load check-in statistics", services.ErrKindSystemError, fiber.StatusInternalServerError)
	}

	return utils.Success(c, stats, "Check-in statistics retrieved successfully")
}

// ExportCheckInReport streams the workshop's check-in report as CSV
// @Summary Export check-in report
// @Tags CheckIn
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Workshop ID"
// @Success 200 {file} file
// @Router /workshops/{id}/checkin-export [get]
func (h *Handler) ExportCheckInReport(c *fiber.Ctx) error {
	workshopID := c.Params("id")
	if _, err := uuid.Parse(workshopID); err != nil {
		return utils.Error(c, "Invalid workshop ID", fiber.StatusBadRequest)
	}

	workshop, err := h.workshopSvc.GetWorkshop(workshopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, "Workshop not found", fiber.StatusNotFound)
		}
		return utils.Error(c, "Failed to fetch workshop", fiber.StatusInternalServerError)
	}

	header, rows, err := h.checkinSvc.ExportRows(workshopID)
	if err != nil {
		return utils.Error(c, "Failed to export check-in report", fiber.StatusInternalServerError)
	}

	filename := utils.SanitizeFilename(workshop.Name) + "_checkin_report.csv"
	return sendCSV(c, filename, header, rows)
}

// GetCheckInPayload returns the QR payload string for a participant
// @Summary Get check-in QR payload
// @Tags CheckIn
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participant ID"
// @Success 200 {object} utils.Response
// @Router /participants/{id}/qr-payload [get]
func (h *Handler) GetCheckInPayload(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.ErrorWithType(c, "Invalid participant ID", services.ErrKindInvalidFormat, fiber.StatusBadRequest)
	}

	payload, err := h.checkinSvc.GenerateCheckInPayload(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorWithType(c, "Participant not found", services.ErrKindNotFound, fiber.StatusNotFound)
		}
		return utils.ErrorWithType(c, "Failed to generate QR payload", services.ErrKindSystemError, fiber.StatusInternalServerError)
	}

	return utils.Success(c, fiber.Map{"payload": payload}, "QR payload generated successfully")
}

package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"workshop-management-backend/internal/middleware"
	"workshop-management-backend/internal/queue"
	"workshop-management-backend/internal/services"
	"workshop-management-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// asyncImportThreshold is the row count above which an import is handed
// to the job queue instead of running in the request.
const asyncImportThreshold = 200

type RegisterParticipantRequest struct {
	TicketTypeID string `json:"ticket_type_id" validate:"required,uuid"`
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	Occupation   string `json:"occupation"`
	Company      string `json:"company"`
	Position     string `json:"position"`
	Address      string `json:"address"`
	IsPaid       bool   `json:"is_paid"`
	TicketCode   string `json:"ticket_code"`
}

// UpdateParticipantRequest uses pointers so omitted fields stay untouched.
type UpdateParticipantRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone"`
	Occupation *string `json:"occupation"`
	Company    *string `json:"company"`
	Position   *string `json:"position"`
	Address    *string `json:"address"`
	IsPaid     *bool   `json:"is_paid"`
}

// RegisterParticipant registers a participant for a workshop
// @Summary Register participant
// @Tags Participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workshop ID"
// @Param request body RegisterParticipantRequest true "Participant data"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /workshops/{id}/participants [post]
func (h *Handler) RegisterParticipant(c *fiber.Ctx) error {
	workshopID := c.Params("id")
	if _, err := uuid.Parse(workshopID); err != nil {
		return utils.Error(c, "Invalid workshop ID", fiber.StatusBadRequest)
	}

	var req RegisterParticipantRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	participant, err := h.participantSvc.RegisterParticipant(services.RegisterParticipantRequest{
		WorkshopID:   workshopID,
		TicketTypeID: req.TicketTypeID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Occupation:   req.Occupation,
		Company:      req.Company,
		Position:     req.Position,
		Address:      req.Address,
		IsPaid:       req.IsPaid,
		TicketCode:   req.TicketCode,
	})
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, participant, "Participant registered successfully", fiber.StatusCreated)
}

// ListParticipants returns paginated participants of a workshop
// @Summary List participants
// @Tags Participants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workshop ID"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.Response
// @Router /workshops/{id}/participants [get]
func (h *Handler) ListParticipants(c *fiber.Ctx) error {
	workshopID := c.Params("id")
	if _, err := uuid.Parse(workshopID); err != nil {
		return utils.Error(c, "Invalid workshop ID", fiber.StatusBadRequest)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	participants, total, totalPages, err := h.participantSvc.ListParticipants(workshopID, page, pageSize)
	if err != nil {
		return utils.Error(c, "Failed to fetch participants", fiber.StatusInternalServerError)
	}

	meta := &utils.Meta{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPages,
	}

	return utils.SuccessWithMeta(c, participants, meta, "Participants retrieved successfully")
}

func (h *Handler) GetParticipant(c *fiber.Ctx) error {
	participant, err := h.participantSvc.GetParticipant(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, "Participant not found", fiber.StatusNotFound)
		}
		return utils.Error(c, "Failed to fetch participant", fiber.StatusInternalServerError)
	}
	return utils.Success(c, participant, "Participant retrieved successfully")
}

func (h *Handler) UpdateParticipant(c *fiber.Ctx) error {
	var req UpdateParticipantRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	participant, err := h.participantSvc.UpdateParticipant(c.Params("id"), services.UpdateParticipantRequest{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Occupation: req.Occupation,
		Company:    req.Company,
		Position:   req.Position,
		Address:    req.Address,
		IsPaid:     req.IsPaid,
	})
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}

	return utils.Success(c, participant, "Participant updated successfully")
}

func (h *Handler) DeleteParticipant(c *fiber.Ctx) error {
	if err := h.participantSvc.DeleteParticipant(c.Params("id")); err != nil {
		return utils.Error(c, err.Error(), fiber.StatusBadRequest)
	}
	return utils.Success(c, nil, "Participant deleted successfully")
}

// ImportParticipants imports participants from a CSV or XLSX upload.
// Large files are queued for background processing.
// @Summary Import participants
// @Tags Participants
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workshop ID"
// @Param file formData file true "CSV or XLSX file"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /workshops/{id}/participants/import [post]
func (h *Handler) ImportParticipants(c *fiber.Ctx) error {
	workshopID := c.Params("id")
	if _, err := uuid.Parse(workshopID); err != nil {
		return utils.Error(c, "Invalid workshop ID", fiber.StatusBadRequest)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, "File is required", fiber.StatusBadRequest)
	}

	if file.Size > h.cfg.MaxUploadSize {
		return utils.Error(c, "File too large", fiber.StatusBadRequest)
	}

	src, err := file.Open()
	if err != nil {
		return utils.Error(c, "Failed to read file", fiber.StatusInternalServerError)
	}
	defer src.Close()

	var records [][]string
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".csv":
		reader := csv.NewReader(src)
		records, err = reader.ReadAll()
		if err != nil {
			return utils.Error(c, "Invalid CSV format", fiber.StatusBadRequest)
		}
	case ".xlsx", ".xls":
		workbook, err := excelize.OpenReader(src)
		if err != nil {
			return utils.Error(c, "Invalid spreadsheet file", fiber.StatusBadRequest)
		}
		defer workbook.Close()

		sheets := workbook.GetSheetList()
		if len(sheets) == 0 {
			return utils.Error(c, "Spreadsheet has no sheets", fiber.StatusBadRequest)
		}
		records, err = workbook.GetRows(sheets[0])
		if err != nil {
			return utils.Error(c, "Failed to read spreadsheet", fiber.StatusBadRequest)
		}
	default:
		return utils.Error(c, "Only CSV and XLSX files are allowed", fiber.StatusBadRequest)
	}

	if len(records) < 2 {
		return utils.Error(c, "File is empty or missing header", fiber.StatusBadRequest)
	}

	rows := parseImportRows(records[1:])

	if len(rows) > asyncImportThreshold && h.publisher != nil {
		if err := h.publisher.Publish(queue.JobParticipantImport, queue.ImportJobPayload{
			WorkshopID: workshopID,
			Rows:       rows,
		}); err != nil {
			return utils.Error(c, "Failed to queue import", fiber.StatusInternalServerError)
		}
		return utils.Success(c, fiber.Map{"queued": len(rows)},
			"Import queued for background processing", fiber.StatusAccepted)
	}

	result := h.participantSvc.ImportRows(workshopID, rows)
	return utils.Success(c, result, fmt.Sprintf("Imported %d participants, %d failed", result.Imported, result.Failed))
}

// ExportParticipants streams the workshop's participant list as CSV
// @Summary Export participants
// @Tags Participants
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Workshop ID"
// @Success 200 {file} file
// @Router /workshops/{id}/participants/export [get]
func (h *Handler) ExportParticipants(c *fiber.Ctx) error {
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

	header, rows, err := h.participantSvc.ExportRows(workshopID)
	if err != nil {
		return utils.Error(c, "Failed to export participants", fiber.StatusInternalServerError)
	}

	filename := utils.SanitizeFilename(workshop.Name) + "_participants.csv"
	return sendCSV(c, filename, header, rows)
}

// sendCSV writes one report as a text/csv attachment.
func sendCSV(c *fiber.Ctx, filename string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return utils.Error(c, "Failed to write export", fiber.StatusInternalServerError)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return utils.Error(c, "Failed to write export", fiber.StatusInternalServerError)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return utils.Error(c, "Failed to write export", fiber.StatusInternalServerError)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// parseImportRows maps raw spreadsheet records onto the fixed 9-column
// layout: name, email, phone, occupation, company, position, address,
// ticket_type, is_paid. Short records are padded so ragged XLSX rows
// still parse.
func parseImportRows(records [][]string) []services.ImportRow {
	rows := make([]services.ImportRow, 0, len(records))
	for _, record := range records {
		for len(record) < 9 {
			record = append(record, "")
		}
		rows = append(rows, services.ImportRow{
			Name:       strings.TrimSpace(record[0]),
			Email:      strings.TrimSpace(record[1]),
			Phone:      strings.TrimSpace(record[2]),
			Occupation: strings.TrimSpace(record[3]),
			Company:    strings.TrimSpace(record[4]),
			Position:   strings.TrimSpace(record[5]),
			Address:    strings.TrimSpace(record[6]),
			TicketType: strings.TrimSpace(record[7]),
			IsPaid:     parseBool(record[8]),
		})
	}
	return rows
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "1", "paid":
		return true
	}
	return false
}

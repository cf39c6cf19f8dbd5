package services

import (
	"errors"
	"fmt"
	"strings"

	"workshop-management-backend/internal/config"
	"workshop-management-backend/internal/models"
	"workshop-management-backend/internal/repositories"
	"workshop-management-backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParticipantService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewParticipantService(repo *repositories.Repository, cfg *config.Config) *ParticipantService {
	return &ParticipantService{repo: repo, cfg: cfg}
}

type RegisterParticipantRequest struct {
	WorkshopID   string
	TicketTypeID string
	Name         string
	Email        string
	Phone        string
	Occupation   string
	Company      string
	Position     string
	Address      string
	IsPaid       bool
	TicketCode   string // generated when absent
}

// UpdateParticipantRequest carries partial updates: nil fields are left
// alone, an explicit empty string clears the field.
type UpdateParticipantRequest struct {
	Name       *string
	Email      *string
	Phone      *string
	Occupation *string
	Company    *string
	Position   *string
	Address    *string
	IsPaid     *bool
}

// ImportRow is one parsed spreadsheet row. TicketType is matched by name
// within the target workshop.
type ImportRow struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Occupation string `json:"occupation"`
	Company    string `json:"company"`
	Position   string `json:"position"`
	Address    string `json:"address"`
	TicketType string `json:"ticket_type"`
	IsPaid     bool   `json:"is_paid"`
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
	Values  string `json:"values,omitempty"`
}

type ImportResult struct {
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// RegisterParticipant creates a participant inside one transaction:
// workshop/ticket-type consistency, per-workshop email uniqueness,
// ticket-code generation and the QR image all happen before commit.
func (s *ParticipantService) RegisterParticipant(req RegisterParticipantRequest) (*models.Participant, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" {
		return nil, errors.New("name and email are required")
	}

	var participant *models.Participant

	err := s.repo.ParticipantRepo.Transaction(func(tx *gorm.DB) error {
		workshop, err := s.repo.WorkshopRepo.GetWorkshopByID(req.WorkshopID)
		if err != nil {
			return errors.New("workshop not found")
		}

		ticketType, err := s.repo.TicketTypeRepo.GetTicketTypeByID(req.TicketTypeID)
		if err != nil {
			return errors.New("ticket type not found")
		}
		if ticketType.WorkshopID != workshop.ID {
			return errors.New("ticket type does not belong to this workshop")
		}

		// Email unique within the workshop, not globally
		existing, _ := s.repo.ParticipantRepo.GetParticipantByEmailAndWorkshop(req.Email, req.WorkshopID, "")
		if existing != nil {
			return errors.New("email already registered for this workshop")
		}

		code := strings.ToUpper(req.TicketCode)
		if code == "" {
			code, err = s.generateUniqueTicketCode()
			if err != nil {
				return err
			}
		} else if !utils.ValidTicketCode(code) {
			return errors.New("ticket code must be 8 uppercase alphanumeric characters")
		} else {
			exists, err := s.repo.ParticipantRepo.TicketCodeExists(code)
			if err != nil {
				return err
			}
			if exists {
				return errors.New("ticket code already in use")
			}
		}

		participant = &models.Participant{
			ID:           uuid.New(),
			WorkshopID:   workshop.ID,
			TicketTypeID: ticketType.ID,
			Name:         req.Name,
			Email:        req.Email,
			Phone:        req.Phone,
			Occupation:   req.Occupation,
			Company:      req.Company,
			Position:     req.Position,
			Address:      req.Address,
			TicketCode:   code,
			IsPaid:       req.IsPaid,
		}

		if err := tx.Create(participant).Error; err != nil {
			return err
		}

		filename, err := utils.GenerateQRCodeImage(code, s.cfg.QRDir)
		if err != nil {
			return fmt.Errorf("failed to generate QR code: %w", err)
		}
		participant.QRPath = fmt.Sprintf("/qrcodes/%s", filename)

		return tx.Model(&models.Participant{}).
			Where("id = ?", participant.ID).
			Update("qr_path", participant.QRPath).Error
	})

	if err != nil {
		return nil, err
	}
	return participant, nil
}

func (s *ParticipantService) GetParticipant(id string) (*models.Participant, error) {
	return s.repo.ParticipantRepo.GetParticipantByID(id)
}

func (s *ParticipantService) ListParticipants(workshopID string, page, pageSize int) ([]models.Participant, int64, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	participants, total, err := s.repo.ParticipantRepo.ListParticipantsByWorkshop(workshopID, offset, pageSize)
	if err != nil {
		return nil, 0, 0, err
	}

	totalPages := (int(total) + pageSize - 1) / pageSize
	return participants, total, totalPages, nil
}

// UpdateParticipant edits contact fields. Email uniqueness is re-checked
// against the participant's workshop, excluding the record itself.
func (s *ParticipantService) UpdateParticipant(id string, req UpdateParticipantRequest) (*models.Participant, error) {
	participant, err := s.repo.ParticipantRepo.GetParticipantByID(id)
	if err != nil {
		return nil, errors.New("participant not found")
	}

	if req.Email != nil && *req.Email != "" {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if email != participant.Email {
			existing, _ := s.repo.ParticipantRepo.GetParticipantByEmailAndWorkshop(email, participant.WorkshopID.String(), id)
			if existing != nil {
				return nil, errors.New("email already registered for this workshop")
			}
			participant.Email = email
		}
	}

	if req.Name != nil && *req.Name != "" {
		participant.Name = *req.Name
	}
	if req.Phone != nil {
		participant.Phone = *req.Phone
	}
	if req.Occupation != nil {
		participant.Occupation = *req.Occupation
	}
	if req.Company != nil {
		participant.Company = *req.Company
	}
	if req.Position != nil {
		participant.Position = *req.Position
	}
	if req.Address != nil {
		participant.Address = *req.Address
	}
	if req.IsPaid != nil {
		participant.IsPaid = *req.IsPaid
	}

	if err := s.repo.ParticipantRepo.UpdateParticipant(participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// DeleteParticipant refuses to remove a participant who already checked in.
func (s *ParticipantService) DeleteParticipant(id string) error {
	participant, err := s.repo.ParticipantRepo.GetParticipantByID(id)
	if err != nil {
		return errors.New("participant not found")
	}

	if participant.IsCheckedIn {
		return errors.New("cannot delete a checked-in participant")
	}

	return s.repo.ParticipantRepo.DeleteParticipant(id)
}

// ImportRows registers each row independently; failures are collected per
// row and never abort the batch.
func (s *ParticipantService) ImportRows(workshopID string, rows []ImportRow) *ImportResult {
	result := &ImportResult{}

	for i, row := range rows {
		rowNumber := i + 2 // 1-based plus the header row

		if row.Name == "" {
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{
				Row: rowNumber, Column: "name", Message: "name is required",
			})
			continue
		}
		if row.Email == "" {
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{
				Row: rowNumber, Column: "email", Message: "email is required", Values: row.Name,
			})
			continue
		}

		ticketType, err := s.repo.TicketTypeRepo.GetTicketTypeByName(workshopID, row.TicketType)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{
				Row:     rowNumber,
				Column:  "ticket_type",
				Message: fmt.Sprintf("unknown ticket type '%s'", row.TicketType),
				Values:  row.Email,
			})
			continue
		}

		_, err = s.RegisterParticipant(RegisterParticipantRequest{
			WorkshopID:   workshopID,
			TicketTypeID: ticketType.ID.String(),
			Name:         row.Name,
			Email:        row.Email,
			Phone:        row.Phone,
			Occupation:   row.Occupation,
			Company:      row.Company,
			Position:     row.Position,
			Address:      row.Address,
			IsPaid:       row.IsPaid,
		})
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{
				Row: rowNumber, Message: err.Error(), Values: row.Email,
			})
			continue
		}
		result.Imported++
	}

	return result
}

// ExportRows returns the CSV header and one row per participant of the
// workshop, in registration order.
func (s *ParticipantService) ExportRows(workshopID string) ([]string, [][]string, error) {
	participants, err := s.repo.ParticipantRepo.ListAllParticipantsByWorkshop(workshopID)
	if err != nil {
		return nil, nil, err
	}

	header := []string{
		"name", "email", "phone", "occupation", "company", "position",
		"address", "ticket_type", "ticket_code", "is_paid", "is_checked_in",
	}

	rows := make([][]string, 0, len(participants))
	for _, p := range participants {
		rows = append(rows, []string{
			p.Name, p.Email, p.Phone, p.Occupation, p.Company, p.Position,
			p.Address, p.TicketType.Name, p.TicketCode,
			boolString(p.IsPaid), boolString(p.IsCheckedIn),
		})
	}

	return header, rows, nil
}

func (s *ParticipantService) generateUniqueTicketCode() (string, error) {
	// Rejection sampling: draw until the code is unused. The loop, not the
	// entropy, is the correctness guarantee.
	for {
		code, err := utils.GenerateTicketCode()
		if err != nil {
			return "", err
		}

		exists, err := s.repo.ParticipantRepo.TicketCodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}

func boolString(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

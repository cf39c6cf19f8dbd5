package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"workshop-management-backend/internal/config"
	"workshop-management-backend/internal/models"
	"workshop-management-backend/internal/repositories"
	"workshop-management-backend/pkg/logger"

	"gorm.io/gorm"
)

// Check-in error kinds surfaced to the HTTP layer
const (
	ErrKindNotFound            = "not_found"
	ErrKindWrongWorkshop       = "wrong_workshop"
	ErrKindAlreadyCheckedIn    = "already_checked_in"
	ErrKindNotCheckedIn        = "not_checked_in"
	ErrKindInvalidFormat       = "invalid_format"
	ErrKindMissingTicketCode   = "missing_ticket_code"
	ErrKindWorkshopMismatch    = "workshop_mismatch"
	ErrKindParticipantMismatch = "participant_mismatch"
	ErrKindSystemError         = "system_error"
)

// ParticipantSnapshot is the formatted participant view returned by every
// check-in operation.
type ParticipantSnapshot struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	TicketCode   string `json:"ticket_code"`
	WorkshopID   string `json:"workshop_id"`
	WorkshopName string `json:"workshop_name"`
	TicketType   string `json:"ticket_type"`
	IsPaid       bool   `json:"is_paid"`
	IsCheckedIn  bool   `json:"is_checked_in"`
}

// CheckInResult is the tagged outcome of a single check-in operation.
// Success carries a snapshot; failure carries an error kind and message.
// The service never lets an error escape as a Go error: unexpected
// failures become ErrKindSystemError.
type CheckInResult struct {
	Success     bool                 `json:"success"`
	Message     string               `json:"message"`
	ErrorType   string               `json:"error_type,omitempty"`
	Participant *ParticipantSnapshot `json:"participant,omitempty"`
}

type BulkCheckInResult struct {
	Success          bool     `json:"success"`
	CheckedIn        int      `json:"checked_in"`
	AlreadyCheckedIn int      `json:"already_checked_in"`
	Failed           int      `json:"failed"`
	Errors           []string `json:"errors,omitempty"`
	ErrorType        string   `json:"error_type,omitempty"`
	Message          string   `json:"message,omitempty"`
}

type WorkshopCheckInStats struct {
	WorkshopID        string  `json:"workshop_id"`
	WorkshopName      string  `json:"workshop_name"`
	Total             int64   `json:"total"`
	CheckedIn         int64   `json:"checked_in"`
	NotCheckedIn      int64   `json:"not_checked_in"`
	Paid              int64   `json:"paid"`
	Unpaid            int64   `json:"unpaid"`
	CheckedInPaid     int64   `json:"checked_in_paid"`
	CheckedInUnpaid   int64   `json:"checked_in_unpaid"`
	CheckinPercentage float64 `json:"checkin_percentage"`
	PaymentPercentage float64 `json:"payment_percentage"`
}

type SearchResult struct {
	Success      bool                  `json:"success"`
	Participants []ParticipantSnapshot `json:"participants"`
	Message      string                `json:"message,omitempty"`
}

// qrPayload is the JSON shape accepted by the advanced verification path.
type qrPayload struct {
	Action        string `json:"action,omitempty"`
	TicketCode    string `json:"ticket_code"`
	WorkshopID    string `json:"workshop_id,omitempty"`
	ParticipantID string `json:"participant_id,omitempty"`
	Timestamp     int64  `json:"timestamp,omitempty"`
}

type CheckInService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewCheckInService(repo *repositories.Repository, cfg *config.Config) *CheckInService {
	return &CheckInService{repo: repo, cfg: cfg}
}

// CheckInByTicketCode looks a participant up by exact ticket code and flips
// the check-in flag. workshopID optionally pins the scan to one workshop;
// a mismatch is rejected with the participant and workshop names echoed
// back for the operator.
func (s *CheckInService) CheckInByTicketCode(ticketCode, workshopID string) *CheckInResult {
	ticketCode = strings.TrimSpace(strings.ToUpper(ticketCode))
	if ticketCode == "" {
		return failure(ErrKindMissingTicketCode, "Ticket code is required")
	}

	participant, err := s.repo.ParticipantRepo.GetParticipantByTicketCode(ticketCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrKindNotFound, fmt.Sprintf("No participant found for ticket code %s", ticketCode))
		}
		return s.systemError("check-in lookup failed", err)
	}

	if workshopID != "" && participant.WorkshopID.String() != workshopID {
		return failure(ErrKindWrongWorkshop, fmt.Sprintf(
			"%s belongs to workshop \"%s\", not this one",
			participant.Name, participant.Workshop.Name,
		))
	}

	return s.performCheckIn(participant)
}

// CheckInByID is the same flow keyed by primary key. The caller is assumed
// to have scoped the id already, so there is no workshop-mismatch check.
func (s *CheckInService) CheckInByID(id string) *CheckInResult {
	participant, err := s.repo.ParticipantRepo.GetParticipantByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrKindNotFound, "Participant not found")
		}
		return s.systemError("check-in lookup failed", err)
	}

	return s.performCheckIn(participant)
}

// UndoCheckIn reverses a check-in. A participant that is not checked in is
// left untouched.
func (s *CheckInService) UndoCheckIn(id string) *CheckInResult {
	participant, err := s.repo.ParticipantRepo.GetParticipantByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrKindNotFound, "Participant not found")
		}
		return s.systemError("undo lookup failed", err)
	}

	if !participant.IsCheckedIn {
		result := failure(ErrKindNotCheckedIn, fmt.Sprintf("%s is not checked in", participant.Name))
		result.Participant = snapshot(participant)
		return result
	}

	err = s.repo.ParticipantRepo.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Participant{}).
			Where("id = ?", participant.ID).
			Update("is_checked_in", false).Error
	})
	if err != nil {
		return s.systemError("undo check-in failed", err)
	}

	participant.IsCheckedIn = false
	return &CheckInResult{
		Success:     true,
		Message:     fmt.Sprintf("Check-in undone for %s", participant.Name),
		Participant: snapshot(participant),
	}
}

// BulkCheckIn checks in every id in one transaction with partial-success
// semantics: a per-row failure lands in its bucket and never aborts the
// batch. Only a failure of the surrounding transaction itself takes the
// whole call down.
func (s *CheckInService) BulkCheckIn(ids []string) *BulkCheckInResult {
	result := &BulkCheckInResult{Success: true}

	err := s.repo.ParticipantRepo.Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			var participant models.Participant
			if err := tx.Where("id = ?", id).First(&participant).Error; err != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: participant not found", id))
				continue
			}

			if participant.IsCheckedIn {
				result.AlreadyCheckedIn++
				continue
			}

			if err := tx.Model(&models.Participant{}).
				Where("id = ?", participant.ID).
				Update("is_checked_in", true).Error; err != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", id, err))
				continue
			}
			result.CheckedIn++
		}
		return nil
	})
	if err != nil {
		logger.WithField("error", err).Error("bulk check-in transaction failed")
		return &BulkCheckInResult{
			Success:   false,
			ErrorType: ErrKindSystemError,
			Message:   "Bulk check-in failed",
		}
	}

	result.Message = fmt.Sprintf(
		"Checked in %d, already checked in %d, failed %d",
		result.CheckedIn, result.AlreadyCheckedIn, result.Failed,
	)
	return result
}

// GetWorkshopStatistics returns the check-in dashboard counts for one
// workshop. Percentages are rounded to one decimal and zero when the
// workshop has no participants.
func (s *CheckInService) GetWorkshopStatistics(workshopID string) (*WorkshopCheckInStats, error) {
	workshop, err := s.repo.WorkshopRepo.GetWorkshopByID(workshopID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.ParticipantRepo.GetParticipantCounts(workshopID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant counts: %w", err)
	}

	return &WorkshopCheckInStats{
		WorkshopID:        workshop.ID.String(),
		WorkshopName:      workshop.Name,
		Total:             counts.Total,
		CheckedIn:         counts.CheckedIn,
		NotCheckedIn:      counts.Total - counts.CheckedIn,
		Paid:              counts.Paid,
		Unpaid:            counts.Total - counts.Paid,
		CheckedInPaid:     counts.CheckedInPaid,
		CheckedInUnpaid:   counts.CheckedInUnpaid,
		CheckinPercentage: Percentage(counts.CheckedIn, counts.Total),
		PaymentPercentage: Percentage(counts.Paid, counts.Total),
	}, nil
}

// ExportRows returns the CSV header and one check-in report row per
// participant, ticket code first since that is what the desk scans by.
func (s *CheckInService) ExportRows(workshopID string) ([]string, [][]string, error) {
	participants, err := s.repo.ParticipantRepo.ListAllParticipantsByWorkshop(workshopID)
	if err != nil {
		return nil, nil, err
	}

	header := []string{"ticket_code", "name", "email", "ticket_type", "is_paid", "is_checked_in"}

	rows := make([][]string, 0, len(participants))
	for _, p := range participants {
		rows = append(rows, []string{
			p.TicketCode, p.Name, p.Email, p.TicketType.Name,
			boolString(p.IsPaid), boolString(p.IsCheckedIn),
		})
	}

	return header, rows, nil
}

// SearchParticipants is the operator lookup box: case-insensitive substring
// match over name, email, ticket code and phone. It never fails outward;
// any error yields an empty result with a generic message.
func (s *CheckInService) SearchParticipants(query, workshopID string, limit int) *SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{Success: true, Participants: []ParticipantSnapshot{}}
	}

	participants, err := s.repo.ParticipantRepo.SearchParticipants(query, workshopID, limit)
	if err != nil {
		logger.WithField("error", err).Error("participant search failed")
		return &SearchResult{
			Success:      false,
			Participants: []ParticipantSnapshot{},
			Message:      "Search failed",
		}
	}

	snapshots := make([]ParticipantSnapshot, 0, len(participants))
	for i := range participants {
		snapshots = append(snapshots, *snapshot(&participants[i]))
	}
	return &SearchResult{Success: true, Participants: snapshots}
}

// ScanQRPayload accepts either a bare ticket-code string or the JSON
// payload {ticket_code, workshop_id?, participant_id?} and performs the
// check-in. The optional fields are cross-checked against the stored
// participant; a mismatch is reported distinctly from a plain not-found.
func (s *CheckInService) ScanQRPayload(data, workshopID string) *CheckInResult {
	data = strings.TrimSpace(data)
	if data == "" {
		return failure(ErrKindMissingTicketCode, "QR payload is empty")
	}

	if !strings.HasPrefix(data, "{") {
		return s.CheckInByTicketCode(data, workshopID)
	}

	var payload qrPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return failure(ErrKindInvalidFormat, "QR payload is not valid JSON")
	}
	if payload.TicketCode == "" {
		return failure(ErrKindMissingTicketCode, "QR payload has no ticket_code")
	}

	participant, err := s.repo.ParticipantRepo.GetParticipantByTicketCode(strings.ToUpper(payload.TicketCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(ErrKindNotFound, fmt.Sprintf("No participant found for ticket code %s", payload.TicketCode))
		}
		return s.systemError("QR scan lookup failed", err)
	}

	if payload.WorkshopID != "" && payload.WorkshopID != participant.WorkshopID.String() {
		return failure(ErrKindWorkshopMismatch, "QR payload workshop does not match the ticket")
	}
	if payload.ParticipantID != "" && payload.ParticipantID != participant.ID.String() {
		return failure(ErrKindParticipantMismatch, "QR payload participant does not match the ticket")
	}
	if workshopID != "" && participant.WorkshopID.String() != workshopID {
		return failure(ErrKindWrongWorkshop, fmt.Sprintf(
			"%s belongs to workshop \"%s\", not this one",
			participant.Name, participant.Workshop.Name,
		))
	}

	return s.performCheckIn(participant)
}

// GenerateCheckInPayload builds the check-in QR payload for one participant.
func (s *CheckInService) GenerateCheckInPayload(id string) (string, error) {
	participant, err := s.repo.ParticipantRepo.GetParticipantByID(id)
	if err != nil {
		return "", fmt.Errorf("participant not found: %w", err)
	}

	payload := qrPayload{
		Action:        "checkin",
		TicketCode:    participant.TicketCode,
		WorkshopID:    participant.WorkshopID.String(),
		ParticipantID: participant.ID.String(),
		Timestamp:     time.Now().Unix(),
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	return string(encoded), nil
}

func (s *CheckInService) performCheckIn(participant *models.Participant) *CheckInResult {
	if participant.IsCheckedIn {
		result := failure(ErrKindAlreadyCheckedIn, fmt.Sprintf("%s is already checked in", participant.Name))
		result.Participant = snapshot(participant)
		return result
	}

	err := s.repo.ParticipantRepo.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Participant{}).
			Where("id = ?", participant.ID).
			Update("is_checked_in", true).Error
	})
	if err != nil {
		return s.systemError("check-in update failed", err)
	}

	participant.IsCheckedIn = true
	return &CheckInResult{
		Success:     true,
		Message:     "Check-in successful!",
		Participant: snapshot(participant),
	}
}

func (s *CheckInService) systemError(context string, err error) *CheckInResult {
	logger.WithField("error", err).Error(context)
	return failure(ErrKindSystemError, "An unexpected error occurred")
}

func failure(errorType, message string) *CheckInResult {
	return &CheckInResult{
		Success:   false,
		ErrorType: errorType,
		Message:   message,
	}
}

func snapshot(p *models.Participant) *ParticipantSnapshot {
	return &ParticipantSnapshot{
		ID:           p.ID.String(),
		Name:         p.Name,
		Email:        p.Email,
		TicketCode:   p.TicketCode,
		WorkshopID:   p.WorkshopID.String(),
		WorkshopName: p.Workshop.Name,
		TicketType:   p.TicketType.Name,
		IsPaid:       p.IsPaid,
		IsCheckedIn:  p.IsCheckedIn,
	}
}

// Percentage is round(n/total*100, 1) with a zero guard on the denominator.
func Percentage(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*1000) / 10
}

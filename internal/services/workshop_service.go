package services

import (
	"errors"
	"fmt"
	"time"

	"workshop-management-backend/internal/config"
	"workshop-management-backend/internal/models"
	"workshop-management-backend/internal/repositories"

	"github.com/google/uuid"
)

// workshopTransitions is the allowed status transition table. completed is
// terminal; cancelled can only be restarted back to draft.
var workshopTransitions = map[string][]string{
	models.WorkshopStatusDraft:     {models.WorkshopStatusPublished, models.WorkshopStatusCancelled},
	models.WorkshopStatusPublished: {models.WorkshopStatusOngoing, models.WorkshopStatusCancelled},
	models.WorkshopStatusOngoing:   {models.WorkshopStatusCompleted, models.WorkshopStatusCancelled},
	models.WorkshopStatusCompleted: {},
	models.WorkshopStatusCancelled: {models.WorkshopStatusDraft},
}

// ongoingLeadTime is how early a workshop may be moved to ongoing.
const ongoingLeadTime = 2 * time.Hour

type WorkshopService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewWorkshopService(repo *repositories.Repository, cfg *config.Config) *WorkshopService {
	return &WorkshopService{repo: repo, cfg: cfg}
}

type CreateWorkshopRequest struct {
	Name        string
	Description string
	DateTime    time.Time
	Location    string
}

// UpdateWorkshopRequest carries partial updates: nil fields are left as
// they are, so a request naming only one field never blanks the rest.
type UpdateWorkshopRequest struct {
	Name        *string
	Description *string
	DateTime    *time.Time
	Location    *string
}

func (s *WorkshopService) CreateWorkshop(req CreateWorkshopRequest) (*models.Workshop, error) {
	if req.Name == "" {
		return nil, errors.New("workshop name is required")
	}

	workshop := &models.Workshop{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		DateTime:    req.DateTime,
		Location:    req.Location,
		Status:      models.WorkshopStatusDraft,
	}

	if err := s.repo.WorkshopRepo.CreateWorkshop(workshop); err != nil {
		return nil, err
	}

	return workshop, nil
}

func (s *WorkshopService) GetWorkshop(id string) (*models.Workshop, error) {
	return s.repo.WorkshopRepo.GetWorkshopWithTicketTypes(id)
}

func (s *WorkshopService) ListWorkshops(page, pageSize int, filters *repositories.WorkshopFilters) ([]models.Workshop, int64, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	workshops, total, err := s.repo.WorkshopRepo.ListWorkshops(offset, pageSize, filters)
	if err != nil {
		return nil, 0, 0, err
	}

	totalPages := (int(total) + pageSize - 1) / pageSize
	return workshops, total, totalPages, nil
}

func (s *WorkshopService) UpdateWorkshop(id string, req UpdateWorkshopRequest) (*models.Workshop, error) {
	workshop, err := s.repo.WorkshopRepo.GetWorkshopByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		workshop.Name = *req.Name
	}
	if req.Description != nil {
		workshop.Description = *req.Description
	}
	if req.DateTime != nil && !req.DateTime.IsZero() {
		workshop.DateTime = *req.DateTime
	}
	if req.Location != nil {
		workshop.Location = *req.Location
	}

	if err := s.repo.WorkshopRepo.UpdateWorkshop(workshop); err != nil {
		return nil, err
	}
	return workshop, nil
}

// ChangeStatus moves a workshop through the status state machine. Any move
// outside the transition table fails, naming both statuses. Publishing a
// workshop whose date has passed and starting one more than two hours early
// are rejected on top of the table.
func (s *WorkshopService) ChangeStatus(id, newStatus string) (*models.Workshop, error) {
	if !models.ValidWorkshopStatus(newStatus) {
		return nil, fmt.Errorf("unknown workshop status: %s", newStatus)
	}

	workshop, err := s.repo.WorkshopRepo.GetWorkshopByID(id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(workshop.Status, newStatus) {
		return nil, fmt.Errorf(
			"cannot change status from '%s' to '%s'",
			workshop.Status, newStatus,
		)
	}

	now := time.Now()
	switch newStatus {
	case models.WorkshopStatusPublished:
		if workshop.DateTime.Before(now) {
			return nil, errors.New("cannot publish a workshop whose date is in the past")
		}
	case models.WorkshopStatusOngoing:
		if workshop.DateTime.After(now.Add(ongoingLeadTime)) {
			return nil, errors.New("cannot start a workshop more than 2 hours before its start time")
		}
	}

	if err := s.repo.WorkshopRepo.UpdateWorkshopStatus(id, newStatus); err != nil {
		return nil, err
	}

	workshop.Status = newStatus
	return workshop, nil
}

// DeleteWorkshop removes a workshop once nothing references it
func (s *WorkshopService) DeleteWorkshop(id string) error {
	workshop, err := s.repo.WorkshopRepo.GetWorkshopByID(id)
	if err != nil {
		return err
	}

	counts, err := s.repo.ParticipantRepo.GetParticipantCounts(id)
	if err != nil {
		return fmt.Errorf("failed to check workshop participants: %w", err)
	}
	if counts.Total > 0 {
		return fmt.Errorf("cannot delete workshop '%s' with registered participants", workshop.Name)
	}

	ticketTypes, err := s.repo.TicketTypeRepo.ListTicketTypesByWorkshop(id)
	if err != nil {
		return err
	}
	if len(ticketTypes) > 0 {
		return fmt.Errorf("cannot delete workshop '%s' with ticket types", workshop.Name)
	}

	return s.repo.WorkshopRepo.DeleteWorkshop(id)
}

// Ticket types

type TicketTypeRequest struct {
	Name     string
	FeeCents int64
}

func (s *WorkshopService) AddTicketType(workshopID string, req TicketTypeRequest) (*models.TicketType, error) {
	if req.Name == "" {
		return nil, errors.New("ticket type name is required")
	}
	if req.FeeCents < 0 {
		return nil, errors.New("ticket fee cannot be negative")
	}

	workshop, err := s.repo.WorkshopRepo.GetWorkshopByID(workshopID)
	if err != nil {
		return nil, err
	}

	tt := &models.TicketType{
		ID:         uuid.New(),
		WorkshopID: workshop.ID,
		Name:       req.Name,
		FeeCents:   req.FeeCents,
	}

	if err := s.repo.TicketTypeRepo.CreateTicketType(tt); err != nil {
		return nil, err
	}
	return tt, nil
}

func (s *WorkshopService) ListTicketTypes(workshopID string) ([]models.TicketType, error) {
	return s.repo.TicketTypeRepo.ListTicketTypesByWorkshop(workshopID)
}

func (s *WorkshopService) UpdateTicketType(id string, req TicketTypeRequest) (*models.TicketType, error) {
	tt, err := s.repo.TicketTypeRepo.GetTicketTypeByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		tt.Name = req.Name
	}
	if req.FeeCents < 0 {
		return nil, errors.New("ticket fee cannot be negative")
	}
	tt.FeeCents = req.FeeCents

	if err := s.repo.TicketTypeRepo.UpdateTicketType(tt); err != nil {
		return nil, err
	}
	return tt, nil
}

func (s *WorkshopService) DeleteTicketType(id string) error {
	return s.repo.TicketTypeRepo.DeleteTicketType(id)
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range workshopTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

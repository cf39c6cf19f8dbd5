package repositories

import (
	"errors"
	"fmt"

	"workshop-management-backend/internal/models"

	"gorm.io/gorm"
)

type ticketTypeRepo struct {
	db *gorm.DB
}

func NewTicketTypeRepository(db *gorm.DB) TicketTypeRepository {
	return &ticketTypeRepo{db: db}
}

func (r *ticketTypeRepo) CreateTicketType(tt *models.TicketType) error {
	if tt == nil {
		return errors.New("ticket type cannot be nil")
	}

	// Workshop must exist
	var workshop models.Workshop
	if err := r.db.Where("id = ?", tt.WorkshopID).First(&workshop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("workshop not found with ID: %s", tt.WorkshopID)
		}
		return fmt.Errorf("failed to check workshop existence: %w", err)
	}

	return r.db.Create(tt).Error
}

func (r *ticketTypeRepo) GetTicketTypeByID(id string) (*models.TicketType, error) {
	if id == "" {
		return nil, errors.New("ticket type ID cannot be empty")
	}

	var tt models.TicketType
	if err := r.db.Where("id = ?", id).First(&tt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ticket type not found with ID: %s", id)
		}
		return nil, fmt.Errorf("failed to get ticket type: %w", err)
	}

	return &tt, nil
}

func (r *ticketTypeRepo) GetTicketTypeByName(workshopID, name string) (*models.TicketType, error) {
	var tt models.TicketType
	if err := r.db.Where("workshop_id = ? AND name = ?", workshopID, name).First(&tt).Error; err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *ticketTypeRepo) ListTicketTypesByWorkshop(workshopID string) ([]models.TicketType, error) {
	if workshopID == "" {
		return nil, errors.New("workshop ID cannot be empty")
	}

	var types []models.TicketType
	if err := r.db.
		Where("workshop_id = ?", workshopID).
		Order("name ASC").
		Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list ticket types: %w", err)
	}

	return types, nil
}

func (r *ticketTypeRepo) UpdateTicketType(tt *models.TicketType) error {
	if tt == nil {
		return errors.New("ticket type cannot be nil")
	}

	var existing models.TicketType
	if err := r.db.Where("id = ?", tt.ID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("ticket type not found with ID: %s", tt.ID)
		}
		return fmt.Errorf("failed to check ticket type existence: %w", err)
	}

	return r.db.Save(tt).Error
}

// DeleteTicketType deletes a ticket type unless participants still reference it
func (r *ticketTypeRepo) DeleteTicketType(id string) error {
	if id == "" {
		return errors.New("ticket type ID cannot be empty")
	}

	count, err := r.CountParticipantsByTicketType(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("cannot delete ticket type with registered participants")
	}

	result := r.db.Where("id = ?", id).Delete(&models.TicketType{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete ticket type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("ticket type not found with ID: %s", id)
	}
	return nil
}

func (r *ticketTypeRepo) CountParticipantsByTicketType(id string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Participant{}).
		Where("ticket_type_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

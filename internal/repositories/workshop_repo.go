package repositories

import (
	"errors"
	"fmt"

	"workshop-management-backend/internal/models"

	"gorm.io/gorm"
)

type workshopRepo struct {
	db *gorm.DB
}

func NewWorkshopRepository(db *gorm.DB) WorkshopRepository {
	return &workshopRepo{db: db}
}

// CreateWorkshop creates a new workshop
func (r *workshopRepo) CreateWorkshop(workshop *models.Workshop) error {
	if workshop == nil {
		return errors.New("workshop cannot be nil")
	}
	return r.db.Create(workshop).Error
}

// GetWorkshopByID retrieves a workshop by its ID
func (r *workshopRepo) GetWorkshopByID(id string) (*models.Workshop, error) {
	if id == "" {
		return nil, errors.New("workshop ID cannot be empty")
	}

	var workshop models.Workshop
	if err := r.db.Where("id = ?", id).First(&workshop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("workshop not found with ID %s: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get workshop: %w", err)
	}

	return &workshop, nil
}

// GetWorkshopWithTicketTypes retrieves a workshop with its ticket types preloaded
func (r *workshopRepo) GetWorkshopWithTicketTypes(id string) (*models.Workshop, error) {
	if id == "" {
		return nil, errors.New("workshop ID cannot be empty")
	}

	var workshop models.Workshop
	if err := r.db.
		Preload("TicketTypes", func(db *gorm.DB) *gorm.DB {
			return db.Order("ticket_types.name ASC")
		}).
		Where("id = ?", id).
		First(&workshop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("workshop not found with ID %s: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get workshop with ticket types: %w", err)
	}

	return &workshop, nil
}

// ListWorkshops retrieves a paginated list of workshops with optional filters
func (r *workshopRepo) ListWorkshops(offset, limit int, filters *WorkshopFilters) ([]models.Workshop, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var workshops []models.Workshop
	var total int64

	query := r.db.Model(&models.Workshop{})

	if filters != nil {
		if filters.Status != "" {
			query = query.Where("status = ?", filters.Status)
		}
		if filters.Search != "" {
			searchTerm := "%" + filters.Search + "%"
			query = query.Where("name LIKE ? OR description LIKE ?", searchTerm, searchTerm)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count workshops: %w", err)
	}

	if err := query.
		Offset(offset).
		Limit(limit).
		Order("date_time DESC").
		Find(&workshops).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list workshops: %w", err)
	}

	return workshops, total, nil
}

// UpdateWorkshop updates an existing workshop
func (r *workshopRepo) UpdateWorkshop(workshop *models.Workshop) error {
	if workshop == nil {
		return errors.New("workshop cannot be nil")
	}

	var existing models.Workshop
	if err := r.db.Where("id = ?", workshop.ID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("workshop not found with ID %s: %w", workshop.ID, err)
		}
		return fmt.Errorf("failed to check workshop existence: %w", err)
	}

	return r.db.Save(workshop).Error
}

// UpdateWorkshopStatus updates only the status column
func (r *workshopRepo) UpdateWorkshopStatus(id, status string) error {
	if id == "" {
		return errors.New("workshop ID cannot be empty")
	}

	result := r.db.Model(&models.Workshop{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return fmt.Errorf("failed to update workshop status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("workshop not found with ID %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteWorkshop deletes a workshop. Dependency checks live in the service.
func (r *workshopRepo) DeleteWorkshop(id string) error {
	if id == "" {
		return errors.New("workshop ID cannot be empty")
	}

	result := r.db.Where("id = ?", id).Delete(&models.Workshop{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete workshop: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("workshop not found with ID %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// CountWorkshopsByStatus returns workshop counts grouped by status
func (r *workshopRepo) CountWorkshopsByStatus() (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	if err := r.db.Model(&models.Workshop{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count workshops by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

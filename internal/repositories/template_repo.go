package repositories

import (
	"errors"
	"fmt"

	"workshop-management-backend/internal/models"

	"gorm.io/gorm"
)

type templateRepo struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepo{db: db}
}

func (r *templateRepo) CreateTemplate(tpl *models.EmailTemplate) error {
	if tpl == nil {
		return errors.New("template cannot be nil")
	}

	// One template per (workshop, type)
	var existing models.EmailTemplate
	if err := r.db.Where("workshop_id = ? AND type = ?", tpl.WorkshopID, tpl.Type).First(&existing).Error; err == nil {
		return fmt.Errorf("template of type '%s' already exists for this workshop", tpl.Type)
	}

	return r.db.Create(tpl).Error
}

func (r *templateRepo) GetTemplateByID(id string) (*models.EmailTemplate, error) {
	if id == "" {
		return nil, errors.New("template ID cannot be empty")
	}

	var tpl models.EmailTemplate
	if err := r.db.Where("id = ?", id).First(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("template not found with ID: %s", id)
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return &tpl, nil
}

func (r *templateRepo) GetTemplateByWorkshopAndType(workshopID, templateType string) (*models.EmailTemplate, error) {
	var tpl models.EmailTemplate
	if err := r.db.Where("workshop_id = ? AND type = ?", workshopID, templateType).First(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) ListTemplatesByWorkshop(workshopID string) ([]models.EmailTemplate, error) {
	if workshopID == "" {
		return nil, errors.New("workshop ID cannot be empty")
	}

	var templates []models.EmailTemplate
	if err := r.db.Where("workshop_id = ?", workshopID).Order("type ASC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func (r *templateRepo) UpdateTemplate(tpl *models.EmailTemplate) error {
	if tpl == nil {
		return errors.New("template cannot be nil")
	}

	var existing models.EmailTemplate
	if err := r.db.Where("id = ?", tpl.ID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("template not found with ID: %s", tpl.ID)
		}
		return fmt.Errorf("failed to check template existence: %w", err)
	}

	// Changing the type must not collide with another template of the workshop
	if tpl.Type != existing.Type {
		var conflict models.EmailTemplate
		if err := r.db.Where("workshop_id = ? AND type = ? AND id != ?", tpl.WorkshopID, tpl.Type, tpl.ID).First(&conflict).Error; err == nil {
			return fmt.Errorf("template of type '%s' already exists for this workshop", tpl.Type)
		}
	}

	return r.db.Save(tpl).Error
}

func (r *templateRepo) DeleteTemplate(id string) error {
	if id == "" {
		return errors.New("template ID cannot be empty")
	}

	result := r.db.Where("id = ?", id).Delete(&models.EmailTemplate{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete template: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("template not found with ID: %s", id)
	}
	return nil
}

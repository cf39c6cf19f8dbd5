package repositories

import (
	"errors"
	"fmt"

	"workshop-management-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) CreateRole(role *models.Role) error {
	if role == nil {
		return errors.New("role cannot be nil")
	}

	var existing models.Role
	if err := r.db.Where("name = ?", role.Name).First(&existing).Error; err == nil {
		return fmt.Errorf("role with name '%s' already exists", role.Name)
	}

	return r.db.Create(role).Error
}

func (r *roleRepo) GetRoleByID(id string) (*models.Role, error) {
	if id == "" {
		return nil, errors.New("role ID cannot be empty")
	}

	var role models.Role
	if err := r.db.Preload("Permissions").Where("id = ?", id).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role not found with ID: %s", id)
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return &role, nil
}

func (r *roleRepo) GetRoleByName(name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Preload("Permissions").Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) ListRoles() ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Preload("Permissions").Order("name ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func (r *roleRepo) UpdateRole(role *models.Role) error {
	if role == nil {
		return errors.New("role cannot be nil")
	}

	var existing models.Role
	if err := r.db.Where("id = ?", role.ID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("role not found with ID: %s", role.ID)
		}
		return fmt.Errorf("failed to check role existence: %w", err)
	}

	if role.Name != existing.Name {
		var conflict models.Role
		if err := r.db.Where("name = ? AND id != ?", role.Name, role.ID).First(&conflict).Error; err == nil {
			return fmt.Errorf("role with name '%s' already exists", role.Name)
		}
	}

	return r.db.Save(role).Error
}

// DeleteRole deletes a role and its permissions. Blocked while users
// still reference the role.
func (r *roleRepo) DeleteRole(id string) error {
	if id == "" {
		return errors.New("role ID cannot be empty")
	}

	var userCount int64
	if err := r.db.Model(&models.User{}).Where("role_id = ?", id).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to count role users: %w", err)
	}
	if userCount > 0 {
		return errors.New("cannot delete role with assigned users")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.Permission{}).Error; err != nil {
			return fmt.Errorf("failed to delete role permissions: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&models.Role{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete role: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("role not found with ID: %s", id)
		}
		return nil
	})
}

func (r *roleRepo) GetPermissionsByRole(roleID string) ([]models.Permission, error) {
	var permissions []models.Permission
	if err := r.db.Where("role_id = ?", roleID).Order("route_name ASC").Find(&permissions).Error; err != nil {
		return nil, fmt.Errorf("failed to get permissions: %w", err)
	}
	return permissions, nil
}

// ReplacePermissions swaps a role's entire permission set in one transaction
func (r *roleRepo) ReplacePermissions(roleID string, routeNames []string) error {
	parsedRoleID, err := uuid.Parse(roleID)
	if err != nil {
		return errors.New("invalid role ID")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.Where("id = ?", roleID).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("role not found with ID: %s", roleID)
			}
			return fmt.Errorf("failed to check role existence: %w", err)
		}

		if err := tx.Where("role_id = ?", roleID).Delete(&models.Permission{}).Error; err != nil {
			return fmt.Errorf("failed to clear permissions: %w", err)
		}

		seen := make(map[string]bool, len(routeNames))
		for _, routeName := range routeNames {
			if routeName == "" || seen[routeName] {
				continue
			}
			seen[routeName] = true

			permission := models.Permission{
				ID:        uuid.New(),
				RoleID:    parsedRoleID,
				RouteName: routeName,
			}
			if err := tx.Create(&permission).Error; err != nil {
				return fmt.Errorf("failed to create permission: %w", err)
			}
		}
		return nil
	})
}

package services

import (
	"errors"
	"fmt"
	"time"

	"workshop-management-backend/internal/cache"
	"workshop-management-backend/internal/config"
	"workshop-management-backend/internal/models"
	"workshop-management-backend/internal/repositories"

	"github.com/google/uuid"
)

const permCachePrefix = "perm:"

// RolePermissionService answers "may this user hit this route" from a
// per-role route-name allow list. Lookups are cached per (user, route);
// any permission or role change clears the whole permission cache.
type RolePermissionService struct {
	repo  *repositories.Repository
	cache cache.Cache
	ttl   time.Duration
}

func NewRolePermissionService(repo *repositories.Repository, c cache.Cache, cfg *config.Config) *RolePermissionService {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RolePermissionService{repo: repo, cache: c, ttl: ttl}
}

// Can reports whether the user may access the named route. Inactive
// users are always denied, regardless of role.
func (s *RolePermissionService) Can(userID, routeName string) (bool, error) {
	if userID == "" || routeName == "" {
		return false, nil
	}

	cacheKey := fmt.Sprintf("%s%s:%s", permCachePrefix, userID, routeName)
	if cached, ok := s.cache.Get(cacheKey); ok {
		if allowed, ok := cached.(bool); ok {
			return allowed, nil
		}
	}

	user, err := s.repo.UserRepo.GetUserByID(userID)
	if err != nil {
		return false, err
	}
	if !user.IsActive {
		s.cache.Set(cacheKey, false, s.ttl)
		return false, nil
	}

	permissions, err := s.repo.RoleRepo.GetPermissionsByRole(user.RoleID.String())
	if err != nil {
		return false, err
	}

	allowed := false
	for _, p := range permissions {
		if p.RouteName == routeName {
			allowed = true
			break
		}
	}

	s.cache.Set(cacheKey, allowed, s.ttl)
	return allowed, nil
}

type RoleRequest struct {
	Name        string
	Description string
}

func (s *RolePermissionService) CreateRole(req RoleRequest) (*models.Role, error) {
	if req.Name == "" {
		return nil, errors.New("role name is required")
	}

	role := &models.Role{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.RoleRepo.CreateRole(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RolePermissionService) GetRole(id string) (*models.Role, error) {
	return s.repo.RoleRepo.GetRoleByID(id)
}

func (s *RolePermissionService) ListRoles() ([]models.Role, error) {
	return s.repo.RoleRepo.ListRoles()
}

func (s *RolePermissionService) UpdateRole(id string, req RoleRequest) (*models.Role, error) {
	role, err := s.repo.RoleRepo.GetRoleByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		role.Name = req.Name
	}
	role.Description = req.Description

	if err := s.repo.RoleRepo.UpdateRole(role); err != nil {
		return nil, err
	}

	s.ClearPermissionCache()
	return role, nil
}

func (s *RolePermissionService) DeleteRole(id string) error {
	if err := s.repo.RoleRepo.DeleteRole(id); err != nil {
		return err
	}
	s.ClearPermissionCache()
	return nil
}

func (s *RolePermissionService) GetPermissions(roleID string) ([]models.Permission, error) {
	if _, err := s.repo.RoleRepo.GetRoleByID(roleID); err != nil {
		return nil, err
	}
	return s.repo.RoleRepo.GetPermissionsByRole(roleID)
}

// SetPermissions replaces the role's allow list wholesale and drops all
// cached permission decisions.
func (s *RolePermissionService) SetPermissions(roleID string, routeNames []string) error {
	if err := s.repo.RoleRepo.ReplacePermissions(roleID, routeNames); err != nil {
		return err
	}
	s.ClearPermissionCache()
	return nil
}

func (s *RolePermissionService) ClearPermissionCache() {
	s.cache.DeletePrefix(permCachePrefix)
}

// ClearUserCache drops one user's cached decisions, for when the user's
// role or active flag changes.
func (s *RolePermissionService) ClearUserCache(userID string) {
	s.cache.DeletePrefix(permCachePrefix + userID + ":")
}

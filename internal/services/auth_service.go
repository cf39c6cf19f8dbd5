package services

import (
	"errors"
	"strings"
	"time"

	"workshop-management-backend/internal/config"
	"workshop-management-backend/internal/models"
	"workshop-management-backend/internal/repositories"
	"workshop-management-backend/internal/utils"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const tokenLifetime = 24 * time.Hour

type AuthService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewAuthService(repo *repositories.Repository, cfg *config.Config) *AuthService {
	return &AuthService{repo: repo, cfg: cfg}
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies credentials and issues a signed token carrying the
// user's id, email and role name. Inactive accounts cannot log in.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.repo.UserRepo.GetUserByEmail(email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}
	if !user.IsActive {
		return nil, errors.New("account is deactivated")
	}
	if err := utils.CheckPassword(password, user.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role.Name,
		"exp":     time.Now().Add(tokenLifetime).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: signed, User: user}, nil
}

func (s *AuthService) GetProfile(userID string) (*models.User, error) {
	return s.repo.UserRepo.GetUserByID(userID)
}

type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
	RoleID   string
}

type UpdateUserRequest struct {
	Name     string
	Email    string
	Password string
	RoleID   string
	IsActive *bool
}

func (s *AuthService) CreateUser(req CreateUserRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" {
		return nil, errors.New("name and email are required")
	}

	role, err := s.repo.RoleRepo.GetRoleByID(req.RoleID)
	if err != nil {
		return nil, errors.New("role not found")
	}

	if existing, _ := s.repo.UserRepo.GetUserByEmail(req.Email); existing != nil {
		return nil, errors.New("email already in use")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		RoleID:   role.ID,
		IsActive: true,
	}

	if err := s.repo.UserRepo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetUser(id string) (*models.User, error) {
	return s.repo.UserRepo.GetUserByID(id)
}

func (s *AuthService) ListUsers(page, pageSize int) ([]models.User, int64, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	users, total, err := s.repo.UserRepo.ListUsers(offset, pageSize)
	if err != nil {
		return nil, 0, 0, err
	}

	totalPages := (int(total) + pageSize - 1) / pageSize
	return users, total, totalPages, nil
}

func (s *AuthService) UpdateUser(id string, req UpdateUserRequest) (*models.User, error) {
	user, err := s.repo.UserRepo.GetUserByID(id)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if req.Email != "" {
		email := strings.TrimSpace(strings.ToLower(req.Email))
		if email != user.Email {
			if existing, _ := s.repo.UserRepo.GetUserByEmail(email); existing != nil {
				return nil, errors.New("email already in use")
			}
			user.Email = email
		}
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Password != "" {
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}
	if req.RoleID != "" {
		role, err := s.repo.RoleRepo.GetRoleByID(req.RoleID)
		if err != nil {
			return nil, errors.New("role not found")
		}
		user.RoleID = role.ID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.UserRepo.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ExportRows returns the CSV header and one row per back-office user.
func (s *AuthService) ExportRows() ([]string, [][]string, error) {
	users, err := s.repo.UserRepo.ListAllUsers()
	if err != nil {
		return nil, nil, err
	}

	header := []string{"name", "email", "role", "is_active", "created_at"}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			u.Name, u.Email, u.Role.Name,
			boolString(u.IsActive),
			u.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return header, rows, nil
}

func (s *AuthService) DeleteUser(id string) error {
	if _, err := s.repo.UserRepo.GetUserByID(id); err != nil {
		return errors.New("user not found")
	}
	return s.repo.UserRepo.DeleteUser(id)
}

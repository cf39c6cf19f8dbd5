package repositories

import (
	"time"

	"workshop-management-backend/internal/models"

	"gorm.io/gorm"
)

type Repository struct {
	DB             *gorm.DB
	WorkshopRepo   WorkshopRepository
	TicketTypeRepo TicketTypeRepository
	ParticipantRepo ParticipantRepository
	UserRepo       UserRepository
	RoleRepo       RoleRepository
	TemplateRepo   TemplateRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:              db,
		WorkshopRepo:    NewWorkshopRepository(db),
		TicketTypeRepo:  NewTicketTypeRepository(db),
		ParticipantRepo: NewParticipantRepository(db),
		UserRepo:        NewUserRepository(db),
		RoleRepo:        NewRoleRepository(db),
		TemplateRepo:    NewTemplateRepository(db),
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.Workshop{},
		&models.TicketType{},
		&models.Participant{},
		&models.EmailTemplate{},
	)
}

// Interface definitions

type WorkshopFilters struct {
	Status string
	Search string
}

type WorkshopRepository interface {
	CreateWorkshop(workshop *models.Workshop) error
	GetWorkshopByID(id string) (*models.Workshop, error)
	GetWorkshopWithTicketTypes(id string) (*models.Workshop, error)
	ListWorkshops(offset, limit int, filters *WorkshopFilters) ([]models.Workshop, int64, error)
	UpdateWorkshop(workshop *models.Workshop) error
	UpdateWorkshopStatus(id, status string) error
	DeleteWorkshop(id string) error
	CountWorkshopsByStatus() (map[string]int64, error)
}

type TicketTypeRepository interface {
	CreateTicketType(tt *models.TicketType) error
	GetTicketTypeByID(id string) (*models.TicketType, error)
	GetTicketTypeByName(workshopID, name string) (*models.TicketType, error)
	ListTicketTypesByWorkshop(workshopID string) ([]models.TicketType, error)
	UpdateTicketType(tt *models.TicketType) error
	DeleteTicketType(id string) error
	CountParticipantsByTicketType(id string) (int64, error)
}

type ParticipantCounts struct {
	Total           int64
	CheckedIn       int64
	Paid            int64
	CheckedInPaid   int64
	CheckedInUnpaid int64
}

type MonthValue struct {
	Month time.Time
	Value int64
}

type ParticipantRepository interface {
	CreateParticipant(participant *models.Participant) error
	GetParticipantByID(id string) (*models.Participant, error)
	GetParticipantByTicketCode(code string) (*models.Participant, error)
	GetParticipantByEmailAndWorkshop(email, workshopID, excludeID string) (*models.Participant, error)
	TicketCodeExists(code string) (bool, error)
	ListParticipantsByWorkshop(workshopID string, offset, limit int) ([]models.Participant, int64, error)
	ListAllParticipantsByWorkshop(workshopID string) ([]models.Participant, error)
	SearchParticipants(query, workshopID string, limit int) ([]models.Participant, error)
	GetParticipantCounts(workshopID string) (*ParticipantCounts, error)
	UpdateParticipant(participant *models.Participant) error
	DeleteParticipant(id string) error
	RevenueCents(workshopID string, paidOnly bool) (int64, error)
	RegistrationsByMonth(since time.Time) ([]MonthValue, error)
	RevenueByMonth(since time.Time) ([]MonthValue, error)
	CountAllParticipants() (int64, error)
	Transaction(txFunc func(*gorm.DB) error) error
}

type UserRepository interface {
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	ListUsers(offset, limit int) ([]models.User, int64, error)
	ListAllUsers() ([]models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
	DeleteUser(id string) error
	CountUsersByRole(roleID string) (int64, error)
}

type RoleRepository interface {
	CreateRole(role *models.Role) error
	GetRoleByID(id string) (*models.Role, error)
	GetRoleByName(name string) (*models.Role, error)
	ListRoles() ([]models.Role, error)
	UpdateRole(role *models.Role) error
	DeleteRole(id string) error
	GetPermissionsByRole(roleID string) ([]models.Permission, error)
	ReplacePermissions(roleID string, routeNames []string) error
}

type TemplateRepository interface {
	CreateTemplate(tpl *models.EmailTemplate) error
	GetTemplateByID(id string) (*models.EmailTemplate, error)
	GetTemplateByWorkshopAndType(workshopID, templateType string) (*models.EmailTemplate, error)
	ListTemplatesByWorkshop(workshopID string) ([]models.EmailTemplate, error)
	UpdateTemplate(tpl *models.EmailTemplate) error
	DeleteTemplate(id string) error
}

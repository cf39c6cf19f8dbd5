package services

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"workshop-management-backend/internal/config"
	"workshop-management-backend/internal/models"
	"workshop-management-backend/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func strptr(s string) *string { return &s }

func newTestRepo(t *testing.T) (*repositories.Repository, *config.Config) {
	t.Helper()

	// A plain ":memory:" DSN gives every pooled connection its own empty
	// database; name the DB and share the cache so queries issued outside
	// an open transaction still see the migrated schema.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := repositories.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		QRDir:           t.TempDir(),
		CacheTTLMinutes: 15,
	}

	return repositories.NewRepository(db), cfg
}

func seedWorkshop(t *testing.T, repo *repositories.Repository, name, status string, dateTime time.Time) *models.Workshop {
	t.Helper()

	workshop := &models.Workshop{
		ID:       uuid.New(),
		Name:     name,
		DateTime: dateTime,
		Location: "Hall A",
		Status:   status,
	}
	if err := repo.DB.Create(workshop).Error; err != nil {
		t.Fatalf("failed to seed workshop: %v", err)
	}
	return workshop
}

func seedTicketType(t *testing.T, repo *repositories.Repository, workshop *models.Workshop, name string, feeCents int64) *models.TicketType {
	t.Helper()

	tt := &models.TicketType{
		ID:         uuid.New(),
		WorkshopID: workshop.ID,
		Name:       name,
		FeeCents:   feeCents,
	}
	if err := repo.DB.Create(tt).Error; err != nil {
		t.Fatalf("failed to seed ticket type: %v", err)
	}
	return tt
}

func seedRole(t *testing.T, repo *repositories.Repository, name string, routeNames ...string) *models.Role {
	t.Helper()

	role := &models.Role{
		ID:   uuid.New(),
		Name: name,
	}
	if err := repo.DB.Create(role).Error; err != nil {
		t.Fatalf("failed to seed role: %v", err)
	}

	for _, routeName := range routeNames {
		perm := &models.Permission{
			ID:        uuid.New(),
			RoleID:    role.ID,
			RouteName: routeName,
		}
		if err := repo.DB.Create(perm).Error; err != nil {
			t.Fatalf("failed to seed permission: %v", err)
		}
	}
	return role
}

func seedUser(t *testing.T, repo *repositories.Repository, role *models.Role, name, email, passwordHash string, active bool) *models.User {
	t.Helper()

	user := &models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: passwordHash,
		RoleID:   role.ID,
		IsActive: active,
	}
	if err := repo.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	if !active {
		// the column default would override a zero-value insert
		if err := repo.DB.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate seeded user: %v", err)
		}
	}
	return user
}

func seedParticipant(t *testing.T, repo *repositories.Repository, workshop *models.Workshop, tt *models.TicketType, name, email, code string, paid, checkedIn bool) *models.Participant {
	t.Helper()

	participant := &models.Participant{
		ID:           uuid.New(),
		WorkshopID:   workshop.ID,
		TicketTypeID: tt.ID,
		Name:         name,
		Email:        email,
		TicketCode:   code,
		IsPaid:       paid,
		IsCheckedIn:  checkedIn,
	}
	if err := repo.DB.Create(participant).Error; err != nil {
		t.Fatalf("failed to seed participant: %v", err)
	}
	return participant
}

package main

import (
	"log"

	"workshop-management-backend/internal/config"
	"workshop-management-backend/internal/models"
	"workshop-management-backend/internal/repositories"
	"workshop-management-backend/internal/utils"
	"workshop-management-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// defaultAdminRoutes is the full route allow list granted to the seeded
// admin role.
var defaultAdminRoutes = []string{
	"workshops.list", "workshops.create", "workshops.view", "workshops.update",
	"workshops.delete", "workshops.change_status",
	"ticket_types.list", "ticket_types.create", "ticket_types.update", "ticket_types.delete",
	"participants.list", "participants.create", "participants.view", "participants.update",
	"participants.delete", "participants.import", "participants.export", "participants.send_ticket",
	"checkin.perform", "checkin.scan", "checkin.bulk", "checkin.undo",
	"checkin.search", "checkin.stats", "checkin.export",
	"templates.list", "templates.create", "templates.view", "templates.update", "templates.delete",
	"statistics.dashboard", "statistics.workshop", "statistics.clear_cache",
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Load configuration
	cfg, err := config.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Initialize database
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// Run migrations
	if err := repositories.AutoMigrate(db); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	log.Println("✅ Database migrations completed successfully")

	if err := createDefaultAdmin(db); err != nil {
		log.Fatalf("Failed to create default admin: %v", err)
	}

	log.Println("🎉 Migration process completed!")
}

func createDefaultAdmin(db *gorm.DB) error {
	adminEmail := "admin@workshop.local"
	adminPassword := "admin123"

	// Admin role with the full route allow list
	var role models.Role
	if err := db.Where("name = ?", "admin").First(&role).Error; err != nil {
		role = models.Role{
			ID:          uuid.New(),
			Name:        "admin",
			Description: "Full access to the back office",
		}
		if err := db.Create(&role).Error; err != nil {
			return err
		}
	}

	for _, routeName := range defaultAdminRoutes {
		var existing models.Permission
		if err := db.Where("role_id = ? AND route_name = ?", role.ID, routeName).First(&existing).Error; err == nil {
			continue
		}
		perm := models.Permission{
			ID:        uuid.New(),
			RoleID:    role.ID,
			RouteName: routeName,
		}
		if err := db.Create(&perm).Error; err != nil {
			return err
		}
	}

	// Admin user
	var existingAdmin models.User
	if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err == nil {
		log.Println("ℹ️  Default admin user already exists")
		return nil
	}

	hashedPassword, err := utils.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:       uuid.New(),
		Name:     "Administrator",
		Email:    adminEmail,
		Password: hashedPassword,
		RoleID:   role.ID,
		IsActive: true,
	}

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Default admin user created:")
	log.Printf("   Email: %s", adminEmail)
	log.Printf("   Password: %s", adminPassword)
	return nil
}

package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"workshop-management-backend/internal/cache"
	"workshop-management-backend/internal/config"
	"workshop-management-backend/internal/handlers"
	"workshop-management-backend/internal/queue"
	"workshop-management-backend/internal/repositories"
	"workshop-management-backend/internal/services"
	"workshop-management-backend/pkg/database"
	"workshop-management-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

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

	// Initialize logger
	logger.Init(cfg.LogLevel, cfg.Env)

	// Initialize database
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// Run migrations
	if err := repositories.AutoMigrate(db); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	// Initialize repositories
	repo := repositories.NewRepository(db)

	// Job queue; the server only publishes, the worker binary consumes
	rmq, err := queue.NewClient(cfg.AMQPUrl, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		log.Fatalf("RabbitMQ connection error: %v", err)
	}
	defer rmq.Close()

	// Initialize services
	memCache := cache.NewMemoryCache()
	authSvc := services.NewAuthService(repo, cfg)
	workshopSvc := services.NewWorkshopService(repo, cfg)
	participantSvc := services.NewParticipantService(repo, cfg)
	checkinSvc := services.NewCheckInService(repo, cfg)
	statsSvc := services.NewStatisticsService(repo, memCache, cfg)
	emailSvc := services.NewEmailService(repo, cfg, rmq)
	permSvc := services.NewRolePermissionService(repo, memCache, cfg)

	// Initialize handlers
	handler := handlers.NewHandler(
		authSvc, workshopSvc, participantSvc, checkinSvc,
		statsSvc, emailSvc, permSvc, rmq, cfg,
	)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Workshop Management API",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Create upload directories
	if err := os.MkdirAll(cfg.QRDir, 0755); err != nil {
		log.Fatalf("Failed to create QR directory: %v", err)
	}

	// Static file serving
	app.Static("/qrcodes", cfg.QRDir)

	// Register routes
	api := app.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("🚀 Server starting on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped gracefully")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"workshop-management-backend/internal/config"
	"workshop-management-backend/internal/queue"
	"workshop-management-backend/internal/repositories"
	"workshop-management-backend/internal/services"
	"workshop-management-backend/pkg/database"
	"workshop-management-backend/pkg/logger"

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

	repo := repositories.NewRepository(db)

	rmq, err := queue.NewClient(cfg.AMQPUrl, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		log.Fatalf("RabbitMQ connection error: %v", err)
	}
	defer rmq.Close()

	participantSvc := services.NewParticipantService(repo, cfg)
	emailSvc := services.NewEmailService(repo, cfg, rmq)
	mailer := queue.NewMailer(cfg)

	worker := queue.NewWorker(rmq, repo, participantSvc, emailSvc, mailer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down worker...")

	worker.Stop()
	log.Println("Worker stopped gracefully")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fichasrpg/fichas/internal/config"
	"github.com/fichasrpg/fichas/internal/database"
	"github.com/fichasrpg/fichas/internal/repositories"
	"github.com/fichasrpg/fichas/internal/server"
	"github.com/fichasrpg/fichas/internal/services"
	"github.com/fichasrpg/fichas/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting character sheet manager...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Create the schema when absent
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed a starter template on first run
	if err := database.SeedDefaultTemplate(db); err != nil {
		logger.Warn("Failed to seed default template", "error", err)
	}

	// Wire stores and handlers
	templateRepo := repositories.NewTemplateRepository(db)
	characterRepo := repositories.NewCharacterRepository(db)
	userRepo := repositories.NewUserRepository(db)
	sheets := services.NewSheetService(templateRepo, characterRepo)

	srv := server.NewServer(cfg, templateRepo, characterRepo, userRepo, sheets)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("HTTP server failed", err)
		}
	}()

	logger.Info("Server started successfully", "env", cfg.AppEnv, "auth", cfg.AuthEnabled)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fichasrpg/fichas/internal/config"
	"github.com/fichasrpg/fichas/internal/models"
	"github.com/fichasrpg/fichas/pkg/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	var dialector gorm.Dialector
	if cfg.DBDriver == config.DriverPostgres {
		dialector = postgres.Open(cfg.GetDSN())
	} else {
		// SQLite leaves foreign keys off by default, and the cascades on
		// template/field deletion depend on them. The pragma goes in the
		// DSN so every pooled connection gets it.
		dialector = sqlite.Open(cfg.GetDSN() + "?_pragma=foreign_keys(1)")
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("Database connected", "driver", cfg.DBDriver)
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.Template{},
		&models.Field{},
		&models.Character{},
		&models.Value{},
		&models.User{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedDefaultTemplate inserts a starter template with a few fields so a
// fresh install has something to create characters from. Runs only when
// the templates table is empty.
func SeedDefaultTemplate(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Template{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	logger.Info("Seeding default template...")
	tmpl := models.Template{
		Name: "Aventureiro Clássico",
		Fields: []models.Field{
			{Name: "Força", Type: models.FieldTypeInteger},
			{Name: "Destreza", Type: models.FieldTypeInteger},
			{Name: "Antecedente", Type: models.FieldTypeLongText},
			{Name: "Vivo?", Type: models.FieldTypeBoolean},
		},
	}

	return db.Create(&tmpl).Error
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Auth (optional login gate)
	AuthEnabled bool
	JWTSecret   string

	// Application
	AppEnv   string
	AppPort  string
	LogLevel string

	// Rate limiting
	RateLimitPerIP int
}

// Database driver constants
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBDriver:   getEnv("DB_DRIVER", DriverSQLite),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "fichas"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "fichas_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "fichas.db"),

		AuthEnabled: getEnvBool("AUTH_ENABLED", false),
		JWTSecret:   getEnv("JWT_SECRET_KEY", ""),

		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RateLimitPerIP: getEnvInt("RATE_LIMIT_PER_IP", 100),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverSQLite, DriverPostgres)
	}
	if c.DBDriver == DriverPostgres && c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required with the postgres driver")
	}
	if c.AuthEnabled {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET_KEY is required when AUTH_ENABLED is true")
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
		}
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBDriver == DriverPostgres && c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.AuthEnabled && c.JWTSecret == "your_jwt_secret_minimum_32_chars_here_change_this" {
		return fmt.Errorf("JWT_SECRET_KEY must be changed from default in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

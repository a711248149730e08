package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// Config carries everything the application reads from the environment.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	OCRServiceURL string

	AssignmentAcceptTimeout time.Duration
	MatchTTL                time.Duration
}

// LoadConfig reads the configuration from .env and the process environment.
// Missing optional values fall back to defaults; a malformed duration is fatal.
func LoadConfig() Config {
	_ = godotenv.Load(".env")

	return Config{
		HTTPPort:   envOrDefault("HTTP_PORT", "8080"),
		DBHost:     envOrDefault("DB_HOST", "localhost"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBUser:     envOrDefault("DB_USER", "postgres"),
		DBPassword: envOrDefault("DB_PASSWORD", "postgres"),
		DBName:     envOrDefault("DB_NAME", "pharmaflow"),
		DBSslMode:  envOrDefault("DB_SSLMODE", "disable"),

		OCRServiceURL: envOrDefault("OCR_SERVICE_URL", "http://localhost:5001"),

		AssignmentAcceptTimeout: durationEnv("ASSIGNMENT_ACCEPT_TIMEOUT", time.Minute),
		MatchTTL:                durationEnv("MATCH_TTL", 3*time.Minute),
	}
}

// DSN renders the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return parsed
}

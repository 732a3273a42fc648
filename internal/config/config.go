package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	PageSize     int // default page size for the paginated task views
	Environment  string
}

// Load loads configuration from a .env file (if present) and the environment,
// falling back to defaults.
func Load() (*Config, error) {
	// A missing .env file is not an error; plain env vars still apply.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}
	pageSize, err := strconv.Atoi(getEnv("PAGE_SIZE", "20"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:   port,
		DatabasePath: getEnv("DATABASE_PATH", "./kanmind.db"),
		PageSize:     pageSize,
		Environment:  getEnv("APP_ENV", "development"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

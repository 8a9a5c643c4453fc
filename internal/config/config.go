package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string // Editor UI
	StorePort   string // Dev store service
	Environment string
	// Remote store the editor talks to
	TreeStoreURL string
	// Dev store service backing; empty means in-memory
	StoreDBURL  string
	TablePrefix string
	CORSOrigins string
	// Logging
	LogDir      string // Empty disables file logging
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:         getEnv("PORT", "8080"),
		StorePort:    getEnv("STORE_PORT", "8081"),
		Environment:  env,
		TreeStoreURL: getEnv("TREE_STORE_URL", "http://localhost:8081"),
		StoreDBURL:   getEnv("STORE_DB_URL", ""),
		TablePrefix:  getTablePrefix(env),
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:8080"),
		LogDir:       getEnv("LOG_DIR", ""),
		LogMaxFiles:  getEnvInt("LOG_MAX_FILES", 10),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// internal/config/config.go
//
// Environment-driven configuration shared by the server and the terminal client.
// Responsibilities:
//   - Read PORT, LOG_LEVEL, STORE, DB_PATH, CATALOG_FILE, ASSETS_DIR.
//   - Round sizing: QUESTIONS_PER_GAME, MIN_QUESTIONS_REQUIRED.
//   - Session tokens and the daily challenge: SESSION_SECRET, SESSION_TTL, DAILY_SALT.
//   - CORS origin for the web client: CLIENT_ORIGIN.
//
// Numeric and duration values that fail to parse or are not positive fall back to
// their defaults. A .env file, when present, is loaded by main via godotenv.

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port             string
	LogLevel         string
	StoreBackend     string // "memory" or "sqlite"
	DatabasePath     string
	CatalogFile      string // empty means the embedded catalog
	AssetsDir        string // image root for preload checks; empty disables them
	QuestionsPerGame int
	MinQuestions     int
	SessionSecret    string
	SessionTTL       time.Duration
	DailySalt        string
	ClientOrigin     string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "5175"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		StoreBackend:     getEnv("STORE", "sqlite"),
		DatabasePath:     getEnv("DB_PATH", "./data/susunkata.db"),
		CatalogFile:      os.Getenv("CATALOG_FILE"),
		AssetsDir:        os.Getenv("ASSETS_DIR"),
		QuestionsPerGame: getEnvInt("QUESTIONS_PER_GAME", 10),
		MinQuestions:     getEnvInt("MIN_QUESTIONS_REQUIRED", 5),
		SessionSecret:    getEnv("SESSION_SECRET", "dev_secret_change_me"),
		SessionTTL:       getEnvDuration("SESSION_TTL", 2*time.Hour),
		DailySalt:        getEnv("DAILY_SALT", "local_dev_salt"),
		ClientOrigin:     getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

package config

import (
	"os"
	"strconv"
	"time"
)

// Backend selection values.
const (
	BackendGoogleSheets = "gsheets"
	BackendWorkbook     = "workbook"
	BackendMemory       = "memory"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	Environment string // "production" switches logging to JSON
	LogLevel    string

	// Backend selects the tabular store: gsheets, workbook or memory.
	Backend string

	// Google Sheets backend.
	SpreadsheetID         string
	GoogleCredentialsFile string

	// Workbook backend.
	WorkbookPath string

	// Read-cache TTL and retry budget for the resilient wrapper.
	CacheTTL   time.Duration
	MaxRetries int
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Backend: getEnv("TABULAR_BACKEND", BackendWorkbook),

		SpreadsheetID:         getEnv("SPREADSHEET_ID", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),

		WorkbookPath: getEnv("WORKBOOK_PATH", "ai-care-data.xlsx"),

		CacheTTL:   time.Duration(getIntEnv("CACHE_TTL_SECONDS", 60)) * time.Second,
		MaxRetries: getIntEnv("BACKEND_MAX_RETRIES", 3),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

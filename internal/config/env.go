package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Required
	OpenRouterAPIKey         string
	GoogleServiceAccountFile string

	// Optional with defaults
	CalendarID      string
	HTTPPort        int
	DBPath          string
	LLMBaseURL      string
	LLMModels       []string
	LLMModelTimeout int // seconds, per model in the cascade
	ResendAPIKey    string
	EmailFrom       string
	DayStartHour    int
	DayEndHour      int
}

func LoadFromEnv() *Config {
	cfg := &Config{
		// Required
		OpenRouterAPIKey:         os.Getenv("OPENROUTER_API_KEY"),
		GoogleServiceAccountFile: getEnvOrDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "./service_account.json"),

		// Optional with defaults
		CalendarID:      getEnvOrDefault("TAILORTALK_CALENDAR_ID", "primary"),
		HTTPPort:        getEnvAsIntOrDefault("TAILORTALK_HTTP_PORT", 8080),
		DBPath:          getEnvOrDefault("TAILORTALK_DB_PATH", "./tailortalk.db"),
		LLMBaseURL:      getEnvOrDefault("TAILORTALK_LLM_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMModels:       getEnvAsListOrDefault("TAILORTALK_LLM_MODELS", nil),
		LLMModelTimeout: getEnvAsIntOrDefault("TAILORTALK_LLM_TIMEOUT_SECONDS", 20),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		EmailFrom:       getEnvOrDefault("TAILORTALK_EMAIL_FROM", "TailorTalk <bookings@tailortalk.app>"),
		DayStartHour:    getEnvAsIntOrDefault("TAILORTALK_DAY_START_HOUR", 9),
		DayEndHour:      getEnvAsIntOrDefault("TAILORTALK_DAY_END_HOUR", 17),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Quality  QualityAPIConfig
	Review   ReviewConfig
	Keys     APIKeys
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	EventLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

// QualityAPIConfig points at the quality-inspection backend.
type QualityAPIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type ReviewConfig struct {
	DraftBackend string        // "redis" or "memory"
	DraftTTL     time.Duration // 0 keeps drafts until submitted
	WorkspaceTTL time.Duration
}

type APIKeys struct {
	JwtSecret         string
	ReviewEventsTopic string
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			EventLogFilePath:   getEnv("EVENT_LOG_FILE_PATH", "logs/review_events.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Quality: QualityAPIConfig{
			BaseURL: getEnv("QUALITY_API_BASE_URL", "http://localhost:8000/api"),
			Token:   getEnv("QUALITY_API_TOKEN", ""),
			Timeout: time.Duration(getEnvAsInt("QUALITY_API_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Review: ReviewConfig{
			DraftBackend: getEnv("DRAFT_BACKEND", "redis"),
			DraftTTL:     time.Duration(getEnvAsInt("DRAFT_TTL_HOURS", 0)) * time.Hour,
			WorkspaceTTL: time.Duration(getEnvAsInt("WORKSPACE_TTL_MINUTES", 60)) * time.Minute,
		},
		Keys: APIKeys{
			JwtSecret:         getEnv("JWT_SECRET", ""),
			ReviewEventsTopic: getEnv("REVIEW_EVENTS_TOPIC", "REVIEW_EVENTS"),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

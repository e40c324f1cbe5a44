package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	AppEnv         string
	SelfID         string
	StorageDriver  string
	DBDSN          string
	RedisURL       string
	AMQPURL        string
	AMQPExchange   string
	AuditExchange  string
	OTLPEndpoint   string
	DemoData       bool
	DebugRoutes    bool
	APIDelay       time.Duration
	TypingTimeout  time.Duration
	SearchDebounce time.Duration
	DemoTimeout    time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:           getEnv("PORT", "8083"),
		AppEnv:         normalizeEnv(getEnv("APP_ENV", "development")),
		SelfID:         getEnv("SELF_ID", "me"),
		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", "memory")),
		DBDSN:          getEnv("DB_DSN", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "social.events"),
		AuditExchange:  getEnv("AUDIT_EXCHANGE", "audit"),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		DemoData:       getEnvBool("DEMO_DATA", false),
		DebugRoutes:    getEnvBool("DEBUG_ROUTES", false),
		APIDelay:       getEnvDuration("API_DELAY", 200*time.Millisecond),
		TypingTimeout:  getEnvDuration("TYPING_TIMEOUT", time.Second),
		SearchDebounce: getEnvDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		DemoTimeout:    getEnvDuration("DEMO_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d < 0 {
		log.Printf("invalid duration for %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

// DebugEnabled reports whether debug-only routes may be registered.
func (c *Config) DebugEnabled() bool {
	return c != nil && c.DebugRoutes && c.AppEnv == "development"
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	SessionBackendDatabase = "database"
	SessionBackendRedis    = "redis"

	ChatBackendStatic = "static"
	ChatBackendOpenAI = "openai"
)

type Config struct {
	Port string

	// Storage
	DBDriver     string
	DatabaseURL  string
	SQLiteDBPath string

	// Sessions
	SessionSecret      string
	SessionIdleTimeout time.Duration
	SessionMaxAge      time.Duration
	SessionSweepEvery  time.Duration
	SessionBackend     string
	RedisURL           string
	CookieSecure       bool
	BcryptCost         int

	// HTTP
	AllowedOrigins []string
	DemoMode       bool
	AuthRateLimit  float64
	AuthRateBurst  int

	// Chat
	ChatBackend string
	ChatAPIURL  string
	ChatAPIKey  string
	ChatModel   string

	// Logging
	LogLevel string
	LogDev   bool

	// Timezone used to decide "today" for expense dates and the weekly window
	TimeZone string
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "5000"),

		DBDriver:     getEnv("DB_DRIVER", DriverSQLite),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/budgetit.db"),

		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 24*time.Hour),
		SessionMaxAge:      getEnvDuration("SESSION_MAX_AGE", 168*time.Hour),
		SessionSweepEvery:  getEnvDuration("SESSION_SWEEP_INTERVAL", time.Hour),
		SessionBackend:     getEnv("SESSION_BACKEND", SessionBackendDatabase),
		RedisURL:           getEnv("REDIS_URL", ""),
		CookieSecure:       getEnvBool("COOKIE_SECURE", false),
		BcryptCost:         getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		DemoMode:       getEnvBool("DEMO_MODE", false),
		AuthRateLimit:  getEnvFloat("AUTH_RATE_LIMIT", 1),
		AuthRateBurst:  getEnvInt("AUTH_RATE_BURST", 10),

		ChatBackend: getEnv("CHAT_BACKEND", ChatBackendStatic),
		ChatAPIURL:  getEnv("CHAT_API_URL", "https://api.openai.com/v1/chat/completions"),
		ChatAPIKey:  getEnv("CHAT_API_KEY", ""),
		ChatModel:   getEnv("CHAT_MODEL", "gpt-4o-mini"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogDev:   getEnvBool("LOG_DEV", false),

		TimeZone: getEnv("TZ_NAME", "Local"),
	}
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLITE_DB_PATH is required when DB_DRIVER=sqlite")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid DB_DRIVER '%s': must be one of [%s %s]", c.DBDriver, DriverSQLite, DriverPostgres))
	}

	switch c.SessionBackend {
	case SessionBackendDatabase:
	case SessionBackendRedis:
		if c.RedisURL == "" {
			problems = append(problems, "REDIS_URL is required when SESSION_BACKEND=redis")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid SESSION_BACKEND '%s': must be one of [%s %s]", c.SessionBackend, SessionBackendDatabase, SessionBackendRedis))
	}

	if c.SessionIdleTimeout < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid SESSION_IDLE_TIMEOUT %v: must be at least 1 minute", c.SessionIdleTimeout))
	}
	if c.SessionMaxAge < c.SessionIdleTimeout {
		problems = append(problems, fmt.Sprintf("invalid SESSION_MAX_AGE %v: must not be shorter than SESSION_IDLE_TIMEOUT", c.SessionMaxAge))
	}
	if c.SessionSweepEvery < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid SESSION_SWEEP_INTERVAL %v: must be at least 1 minute", c.SessionSweepEvery))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		problems = append(problems, fmt.Sprintf("invalid BCRYPT_COST %d: must be between %d and %d", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst < 1 {
		problems = append(problems, "AUTH_RATE_LIMIT must be positive and AUTH_RATE_BURST at least 1")
	}

	switch c.ChatBackend {
	case ChatBackendStatic:
	case ChatBackendOpenAI:
		if c.ChatAPIKey == "" {
			problems = append(problems, "CHAT_API_KEY is required when CHAT_BACKEND=openai")
		}
		if u, err := url.Parse(c.ChatAPIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			problems = append(problems, fmt.Sprintf("invalid CHAT_API_URL '%s'", c.ChatAPIURL))
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid CHAT_BACKEND '%s': must be one of [%s %s]", c.ChatBackend, ChatBackendStatic, ChatBackendOpenAI))
	}

	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid TZ_NAME '%s': %v", c.TimeZone, err))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

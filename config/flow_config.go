package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// Store
	StoreBackend   string
	RedisURL       string
	RedisKeyPrefix string

	// Workflow
	AutonomousDefault    bool
	BatchWorkers         int
	BatchMaxEmails       int
	ScoreCacheTTL        time.Duration
	ScoreCacheMaxEntries int
	AuditMaxEntries      int

	// Activity stream
	SSEHeartbeat    time.Duration
	ActivityHistory int

	// HTTP
	AllowedOrigins  []string
	RateLimitPerMin int
	MaxBodyBytes    int
	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Store
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		RedisURL:       getEnv("REDIS_URL", ""),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "flowpilot:"),

		// Workflow
		AutonomousDefault:    getEnvBool("AUTONOMOUS_DEFAULT", false),
		BatchWorkers:         getEnvInt("BATCH_WORKERS", 4),
		BatchMaxEmails:       getEnvInt("BATCH_MAX_EMAILS", 50),
		ScoreCacheTTL:        time.Duration(getEnvInt("SCORE_CACHE_TTL_MIN", 30)) * time.Minute,
		ScoreCacheMaxEntries: getEnvInt("SCORE_CACHE_MAX_ENTRIES", 1000),
		AuditMaxEntries:      getEnvInt("AUDIT_MAX_ENTRIES", 500),

		// Activity stream
		SSEHeartbeat:    time.Duration(getEnvInt("SSE_HEARTBEAT_SEC", 30)) * time.Second,
		ActivityHistory: getEnvInt("ACTIVITY_HISTORY", 50),

		// HTTP
		AllowedOrigins:  getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 120),
		MaxBodyBytes:    getEnvInt("MAX_BODY_KB", 256) * 1024,
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required when STORE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q (want memory or redis)", c.StoreBackend)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("config: BATCH_WORKERS must be at least 1, got %d", c.BatchWorkers)
	}
	if c.BatchMaxEmails < 1 {
		return fmt.Errorf("config: BATCH_MAX_EMAILS must be at least 1, got %d", c.BatchMaxEmails)
	}
	if c.SSEHeartbeat <= 0 {
		return fmt.Errorf("config: SSE_HEARTBEAT_SEC must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

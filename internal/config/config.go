package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration (sessions, lookup cache)
	Redis RedisConfig

	// Object storage configuration for media
	Storage StorageConfig

	// Background scheduler configuration
	Scheduler SchedulerConfig

	// Draft autosave configuration
	Autosave AutosaveConfig

	// Media upload limits
	Media MediaConfig

	// Admin credentials and sessions
	Admin AdminConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MigrationsPath  string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	URL      string
	Prefix   string
	CacheTTL time.Duration
}

// StorageConfig holds S3-compatible bucket settings
type StorageConfig struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	UsePathStyle  bool
}

// SchedulerConfig holds the scheduled-publish sweep settings
type SchedulerConfig struct {
	Enabled      bool
	Spec         string
	TriggerToken string
}

// AutosaveConfig holds draft autosave settings
type AutosaveConfig struct {
	Interval time.Duration
}

// MediaConfig holds media upload settings
type MediaConfig struct {
	MaxUploadSize int64 // in bytes
	AllowedTypes  []string
}

// AdminConfig holds the admin login settings
type AdminConfig struct {
	Username   string
	Password   string
	SessionTTL time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from the environment, after applying a .env file if one exists
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "pickteum"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
			Prefix:   getEnv("REDIS_PREFIX", "pickteum:"),
			CacheTTL: getDurationEnv("CACHE_TTL", 10*time.Minute),
		},
		Storage: StorageConfig{
			Endpoint:      getEnv("S3_ENDPOINT", ""),
			Region:        getEnv("S3_REGION", "auto"),
			Bucket:        getEnv("S3_BUCKET", "pickteum-media"),
			AccessKey:     getEnv("S3_ACCESS_KEY", ""),
			SecretKey:     getEnv("S3_SECRET_KEY", ""),
			PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
			UsePathStyle:  getBoolEnv("S3_USE_PATH_STYLE", true),
		},
		Scheduler: SchedulerConfig{
			Enabled:      getBoolEnv("SCHEDULER_ENABLED", true),
			Spec:         getEnv("SCHEDULER_SPEC", "@every 60s"),
			TriggerToken: getEnv("SCHEDULER_TRIGGER_TOKEN", ""),
		},
		Autosave: AutosaveConfig{
			Interval: getDurationEnv("AUTOSAVE_INTERVAL", 30*time.Second),
		},
		Media: MediaConfig{
			MaxUploadSize: getInt64Env("MEDIA_MAX_UPLOAD_SIZE", 5*1024*1024), // 5MB
			AllowedTypes:  getListEnv("MEDIA_ALLOWED_TYPES", []string{"image/jpeg", "image/png", "image/gif", "image/webp"}),
		},
		Admin: AdminConfig{
			Username:   getEnv("ADMIN_USERNAME", "admin"),
			Password:   getEnv("ADMIN_PASSWORD", ""),
			SessionTTL: getDurationEnv("SESSION_TTL", 12*time.Hour),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required")
	}
	if c.Autosave.Interval <= 0 {
		return fmt.Errorf("AUTOSAVE_INTERVAL must be positive")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

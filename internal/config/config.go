// internal/config/config.go
// Configuration management using environment variables and optional config files

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Adapters    AdaptersConfig
	Features    FeatureFlags
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	LogLevel       string
}

// DatabaseConfig contains all database connection settings
type DatabaseConfig struct {
	MySQL   MySQLConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
}

// MySQLConfig contains MySQL-specific settings. MySQL is the store of
// record for the five structured, index-heavy entity kinds (Raceplan,
// Race, StartEntry, Startlist, RaceResult) — see SPEC_FULL.md §2.
type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MongoDBConfig contains MongoDB-specific settings. MongoDB holds the
// append-only TimeEvent stream (including its embedded Changelog).
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig contains Redis-specific settings. Redis backs both the
// read-through entity cache and the per-key logical mutexes required by
// spec.md §5 (per (race_id, timing_point) and per event_id serialization).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AdaptersConfig holds the host/port/credentials for the three external
// collaborators named in spec.md §6.
type AdaptersConfig struct {
	EventsBaseURL             string
	CompetitionFormatBaseURL  string
	UsersBaseURL              string
	AdminUsername             string
	AdminPassword             string
	RequestTimeout            time.Duration
}

// FeatureFlags allows toggling features without code changes
type FeatureFlags struct {
	EnableWebSocket     bool
	EnableRateLimiting  bool
	MaintenanceMode     bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist in production
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:           getEnvOrDefault("HOST", "0.0.0.0"),
			Port:           getEnvOrDefault("PORT", "8080"),
			ReadTimeout:    getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationOrDefault("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			AllowedOrigins: getListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
			LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			MySQL: MySQLConfig{
				DSN:             getEnvOrDefault("MYSQL_DSN", ""),
				MaxOpenConns:    getIntOrDefault("MYSQL_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    getIntOrDefault("MYSQL_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: getDurationOrDefault("MYSQL_CONN_MAX_LIFETIME", 5*time.Minute),
			},
			MongoDB: MongoDBConfig{
				URI:      getEnvOrDefault("MONGO_URI", ""),
				Database: getEnvOrDefault("MONGO_DATABASE", "ski_timing"),
			},
			Redis: RedisConfig{
				Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getIntOrDefault("REDIS_DB", 0),
			},
		},
		Adapters: AdaptersConfig{
			EventsBaseURL:            getEnvOrDefault("EVENTS_HOST", "http://event-service"),
			CompetitionFormatBaseURL: getEnvOrDefault("COMPETITION_FORMAT_HOST", "http://competition-format-service"),
			UsersBaseURL:             getEnvOrDefault("USERS_HOST", "http://user-service"),
			AdminUsername:            getEnvOrDefault("ADMIN_USERNAME", ""),
			AdminPassword:            getEnvOrDefault("ADMIN_PASSWORD", ""),
			RequestTimeout:           getDurationOrDefault("ADAPTER_REQUEST_TIMEOUT", 10*time.Second),
		},
		Features: FeatureFlags{
			EnableWebSocket:    getBoolOrDefault("ENABLE_WEBSOCKET", true),
			EnableRateLimiting: getBoolOrDefault("ENABLE_RATE_LIMITING", true),
			MaintenanceMode:    getBoolOrDefault("MAINTENANCE_MODE", false),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.Database.MySQL.DSN == "" {
		return fmt.Errorf("MYSQL_DSN is required")
	}
	if c.Database.MongoDB.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.Environment == "production" {
		if c.Adapters.AdminUsername == "" || c.Adapters.AdminPassword == "" {
			return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required in production")
		}
	}
	return nil
}

// Helper functions to read environment variables with defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Season used when a command does not name one
	Season int

	// Upstream data
	NFLVerse NFLVerseConfig

	// Outbound HTTP
	HTTP HTTPConfig

	// Export
	Export ExportConfig

	// Filter profile overrides (YAML), empty means built-in profiles
	PipelineConfig string

	// Database (optional, snapshot persistence only)
	Database DatabaseConfig

	// Redis (optional, L2 season cache)
	Redis RedisConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// NFLVerseConfig holds nflverse data release locations
type NFLVerseConfig struct {
	PBPBaseURL  string // .../releases/download/pbp
	ScheduleURL string // games.csv (all seasons)
	TeamsURL    string // teams_colors_logos.csv
	ReleasesURL string // expanded asset listing of the pbp release
	PBPFormat   string // csv, parquet
}

// HTTPConfig holds outbound HTTP client configuration
type HTTPConfig struct {
	Timeout    time.Duration
	MaxRetries int
	RatePerSec float64 // 0 disables local throttling
}

// ExportConfig holds batch export configuration
type ExportConfig struct {
	Path            string
	Schedule        string // cron spec with seconds
	RefreshSchedule string // season cache refresh, cron spec with seconds
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	CacheTTL time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether snapshot persistence is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only caller of os.Getenv
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Season: getEnvAsInt("SEASON", 2025),

		NFLVerse: NFLVerseConfig{
			PBPBaseURL:  getEnv("NFLVERSE_PBP_BASE_URL", "https://github.com/nflverse/nflverse-data/releases/download/pbp"),
			ScheduleURL: getEnv("NFLVERSE_SCHEDULE_URL", "https://raw.githubusercontent.com/nflverse/nfldata/master/data/games.csv"),
			TeamsURL:    getEnv("NFLVERSE_TEAMS_URL", "https://github.com/nflverse/nflverse-data/releases/download/teams/teams_colors_logos.csv"),
			ReleasesURL: getEnv("NFLVERSE_RELEASES_URL", "https://github.com/nflverse/nflverse-data/releases/expanded_assets/pbp"),
			PBPFormat:   getEnv("PBP_FORMAT", "csv"),
		},

		HTTP: HTTPConfig{
			Timeout:    getEnvAsDuration("HTTP_TIMEOUT", "2m"),
			MaxRetries: getEnvAsInt("HTTP_MAX_RETRIES", 3),
			RatePerSec: getEnvAsFloat("HTTP_RATE_PER_SEC", 2),
		},

		Export: ExportConfig{
			Path:            getEnv("EXPORT_PATH", filepath.Join("public", "data", "team_stats.json")),
			Schedule:        getEnv("EXPORT_SCHEDULE", "0 0 9 * * 2"),         // Tuesday 09:00, after MNF
			RefreshSchedule: getEnv("CACHE_REFRESH_SCHEDULE", "0 30 7 * * *"), // nflverse republishes overnight
		},

		PipelineConfig: getEnv("PIPELINE_CONFIG", ""),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			CacheTTL: getEnvAsDuration("CACHE_TTL", "6h"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	// nflfastR play-by-play starts in 1999
	if c.Season < 1999 || c.Season > 2100 {
		return fmt.Errorf("SEASON out of range: %d", c.Season)
	}

	if c.NFLVerse.PBPFormat != "csv" && c.NFLVerse.PBPFormat != "parquet" {
		return fmt.Errorf("PBP_FORMAT must be one of: csv, parquet")
	}

	if c.Export.Path == "" {
		return fmt.Errorf("EXPORT_PATH is required")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

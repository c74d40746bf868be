package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"solarweb/domain/table"
	"solarweb/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	AnalysisAPI AnalysisAPIConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Display     DisplayConfig
	LogLevel    string
}

// AnalysisAPIConfig holds the external analysis service settings
type AnalysisAPIConfig struct {
	URL     string
	Timeout time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	GinMode        string
	MaxUploadBytes int64
}

// DatabaseConfig selects the upload history backend. An empty URL keeps the
// history in memory.
type DatabaseConfig struct {
	URL string
}

// Driver returns the database/sql driver name for the configured URL
func (d DatabaseConfig) Driver() string {
	switch {
	case d.URL == "":
		return ""
	case strings.HasPrefix(d.URL, "sqlite://"), strings.HasPrefix(d.URL, "file:"):
		return "sqlite"
	default:
		return "postgres"
	}
}

// DSN returns the data source name handed to the driver
func (d DatabaseConfig) DSN() string {
	return strings.TrimPrefix(d.URL, "sqlite://")
}

// DisplayConfig holds presentation settings for result pages
type DisplayConfig struct {
	Timezone   *time.Location
	CopyGroups []table.CopyGroup
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		AnalysisAPI: AnalysisAPIConfig{
			URL:     strings.TrimRight(os.Getenv("SOLAR_ANALYSIS_API_URL"), "/"),
			Timeout: getEnvDurationOrDefault("API_TIMEOUT", 30*time.Second),
		},
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8080"),
			GinMode:        getEnvOrDefault("GIN_MODE", "release"),
			MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 32)) << 20,
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	display, err := loadDisplayConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load display configuration")
	}
	config.Display = *display

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDisplayConfig() (*DisplayConfig, error) {
	tzName := getEnvOrDefault("DISPLAY_TIMEZONE", "Europe/Madrid")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, errors.ConfigInvalid("DISPLAY_TIMEZONE " + tzName + " is not a known time zone")
	}

	groups := table.DefaultCopyGroups()
	if path := os.Getenv("COPY_GROUPS_FILE"); path != "" {
		groups, err = LoadCopyGroups(path)
		if err != nil {
			return nil, err
		}
	}

	return &DisplayConfig{Timezone: loc, CopyGroups: groups}, nil
}

// LoadCopyGroups reads copy group definitions from a YAML file
func LoadCopyGroups(path string) ([]table.CopyGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read copy groups file %s", path)
	}
	groups, err := table.ParseCopyGroups(data)
	if err != nil {
		return nil, &errors.AppError{Code: errors.CodeConfigInvalid, Message: "invalid copy groups file " + path, Cause: err}
	}
	return groups, nil
}

func validateConfig(config *Config) error {
	if config.AnalysisAPI.URL == "" {
		return errors.ConfigInvalid("SOLAR_ANALYSIS_API_URL is required")
	}
	u, err := url.Parse(config.AnalysisAPI.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.ConfigInvalid("SOLAR_ANALYSIS_API_URL must be an absolute http(s) URL")
	}
	if config.AnalysisAPI.Timeout <= 0 {
		return errors.ConfigInvalid("API_TIMEOUT must be positive")
	}
	if config.Server.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

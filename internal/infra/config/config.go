package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultCronSpecRetention = "0 0 * * *" // Daily at midnight
	DefaultRetentionDays     = 30
	DefaultRetentionTimeout  = 5 * time.Minute
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseDriver    string
	DatabaseURL       string
	LogLevel          string
	Environment       string
	CronSpecRetention string
	SchedulerLocation *time.Location
	RetentionWindow   time.Duration
	RetentionTimeout  time.Duration // Zero disables the per-run timeout
	TelegramToken     string        // Optional, enables failure alerts
	AdminTelegramID   int64
}

// AlertsEnabled reports whether failed runs should be sent to the admin chat.
func (c *AppConfig) AlertsEnabled() bool {
	return c.TelegramToken != ""
}

// requiredVars are checked together so a misconfigured deployment reports
// everything that is missing in one go.
var requiredVars = []string{"DATABASE_URL"}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current process environment only.
func FromEnv() (*AppConfig, error) {
	if missing := MissingVars(requiredVars); len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.DatabaseDriver = strings.ToLower(os.Getenv("DATABASE_DRIVER"))
	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = "postgres"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecRetention = os.Getenv("CRON_SPEC_RETENTION")
	if cfg.CronSpecRetention == "" {
		cfg.CronSpecRetention = DefaultCronSpecRetention
	}

	cfg.SchedulerLocation = time.Local // Host local time unless overridden
	if tz := os.Getenv("SCHEDULER_TIMEZONE"); tz != "" {
		cfg.SchedulerLocation, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid SCHEDULER_TIMEZONE: %w", err)
		}
	}

	days := DefaultRetentionDays
	if v := os.Getenv("RETENTION_DAYS"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RETENTION_DAYS: %w", err)
		}
		if days <= 0 {
			return nil, fmt.Errorf("invalid RETENTION_DAYS: must be positive, got %d", days)
		}
	}
	cfg.RetentionWindow = time.Duration(days) * 24 * time.Hour

	cfg.RetentionTimeout = DefaultRetentionTimeout
	if v := os.Getenv("RETENTION_TIMEOUT"); v != "" {
		cfg.RetentionTimeout, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RETENTION_TIMEOUT: %w", err)
		}
		if cfg.RetentionTimeout < 0 {
			return nil, fmt.Errorf("invalid RETENTION_TIMEOUT: must not be negative, got %s", cfg.RetentionTimeout)
		}
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken != "" {
		adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
		if adminIDStr == "" {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is required when TELEGRAM_TOKEN is set")
		}
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	return cfg, nil
}

// MissingVars returns the names from vars that are unset or empty, in order.
func MissingVars(vars []string) []string {
	var missing []string
	for _, name := range vars {
		if strings.TrimSpace(os.Getenv(name)) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

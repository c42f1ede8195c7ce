package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable FromEnv reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"DATABASE_DRIVER", "DATABASE_URL", "LOG_LEVEL", "ENVIRONMENT",
		"CRON_SPEC_RETENTION", "SCHEDULER_TIMEZONE", "RETENTION_DAYS",
		"RETENTION_TIMEOUT", "TELEGRAM_TOKEN", "ADMIN_TELEGRAM_ID",
	} {
		t.Setenv(name, "")
	}
}

func TestFromEnv_defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/elearning?sslmode=disable")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, DefaultCronSpecRetention, cfg.CronSpecRetention)
	assert.Equal(t, time.Local, cfg.SchedulerLocation)
	assert.Equal(t, 30*24*time.Hour, cfg.RetentionWindow)
	assert.Equal(t, DefaultRetentionTimeout, cfg.RetentionTimeout)
	assert.False(t, cfg.AlertsEnabled())
}

func TestFromEnv_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", ":memory:")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CRON_SPEC_RETENTION", "30 2 * * *")
	t.Setenv("SCHEDULER_TIMEZONE", "UTC")
	t.Setenv("RETENTION_DAYS", "7")
	t.Setenv("RETENTION_TIMEOUT", "30s")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ADMIN_TELEGRAM_ID", "424242")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "30 2 * * *", cfg.CronSpecRetention)
	assert.Equal(t, time.UTC, cfg.SchedulerLocation)
	assert.Equal(t, 7*24*time.Hour, cfg.RetentionWindow)
	assert.Equal(t, 30*time.Second, cfg.RetentionTimeout)
	assert.True(t, cfg.AlertsEnabled())
	assert.Equal(t, int64(424242), cfg.AdminTelegramID)
}

func TestFromEnv_reports_missing_required_vars(t *testing.T) {
	clearEnv(t)

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestFromEnv_invalid_values(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non numeric days", "RETENTION_DAYS", "thirty"},
		{"zero days", "RETENTION_DAYS", "0"},
		{"negative days", "RETENTION_DAYS", "-3"},
		{"bad timeout", "RETENTION_TIMEOUT", "soon"},
		{"negative timeout", "RETENTION_TIMEOUT", "-1m"},
		{"unknown timezone", "SCHEDULER_TIMEZONE", "Mars/Olympus_Mons"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DATABASE_URL", ":memory:")
			t.Setenv(tt.key, tt.val)

			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestFromEnv_telegram_requires_admin_id(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", ":memory:")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_TELEGRAM_ID")

	t.Setenv("ADMIN_TELEGRAM_ID", "not-a-number")
	_, err = FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_TELEGRAM_ID")
}

func TestMissingVars(t *testing.T) {
	t.Setenv("JANITOR_TEST_SET", "value")
	t.Setenv("JANITOR_TEST_BLANK", "   ")
	t.Setenv("JANITOR_TEST_EMPTY", "")

	missing := MissingVars([]string{"JANITOR_TEST_SET", "JANITOR_TEST_BLANK", "JANITOR_TEST_EMPTY"})
	assert.Equal(t, []string{"JANITOR_TEST_BLANK", "JANITOR_TEST_EMPTY"}, missing)
}

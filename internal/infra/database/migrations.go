package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// migration holds a single schema migration with its target version.
// Statements may use the {{timestamp}} token, replaced per driver.
type migration struct {
	version    int
	statements []string
}

// migrations is the ordered list of schema migrations.
var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS notifications (
				id         VARCHAR(36) PRIMARY KEY,
				status     VARCHAR(16) NOT NULL DEFAULT 'unread',
				message    TEXT NOT NULL DEFAULT '',
				recipient  TEXT NOT NULL DEFAULT '',
				created_at {{timestamp}} NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_notifications_status_created_at
				ON notifications (status, created_at)`,
		},
	},
}

func timestampType(driver string) string {
	if driver == DriverPostgres {
		return "TIMESTAMPTZ"
	}
	return "TIMESTAMP"
}

// migrate applies every migration newer than the recorded schema version.
func migrate(db *sqlx.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var current int
	if err := db.Get(&current, `SELECT COALESCE(MAX(version), 0) FROM schema_version`); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("beginning migration v%d: %w", m.version, err)
		}
		for _, stmt := range m.statements {
			if _, err := tx.Exec(expandTokens(stmt, db.DriverName())); err != nil {
				tx.Rollback()
				return fmt.Errorf("applying migration v%d: %w", m.version, err)
			}
		}
		if _, err := tx.Exec(db.Rebind(`INSERT INTO schema_version (version) VALUES (?)`), m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration v%d: %w", m.version, err)
		}
	}

	return nil
}

func expandTokens(stmt, driver string) string {
	return strings.ReplaceAll(stmt, "{{timestamp}}", timestampType(driver))
}

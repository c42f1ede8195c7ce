// internal/infra/database/notification_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"notification_janitor/internal/domain/notification"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Custom errors specific to notification repository
var ErrNotificationNotFound = fmt.Errorf("notification not found")
var ErrAlreadyRead = fmt.Errorf("notification is already read")
var ErrInvalidStatus = fmt.Errorf("invalid notification status")

// SQLNotificationRepository stores notifications in PostgreSQL or SQLite.
// Queries are written with '?' placeholders and rebound for the driver.
type SQLNotificationRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSQLNotificationRepository(db *sqlx.DB) *SQLNotificationRepository {
	return &SQLNotificationRepository{db: db, now: time.Now}
}

// normalizeTime keeps stored and compared timestamps in one representation:
// UTC, microsecond precision, no monotonic reading.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

type notificationRow struct {
	ID        string    `db:"id"`
	Status    string    `db:"status"`
	Message   string    `db:"message"`
	Recipient string    `db:"recipient"`
	CreatedAt time.Time `db:"created_at"`
}

func (r notificationRow) toDomain() *notification.Notification {
	return &notification.Notification{
		ID:        r.ID,
		Status:    notification.Status(r.Status),
		Message:   r.Message,
		Recipient: r.Recipient,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

func (r *SQLNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Status == "" {
		n.Status = notification.StatusUnread
	}
	if !n.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, n.Status)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.now()
	}
	n.CreatedAt = normalizeTime(n.CreatedAt)

	query := r.db.Rebind(`INSERT INTO notifications (id, status, message, recipient, created_at)
               VALUES (?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, n.ID, string(n.Status), n.Message, n.Recipient, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

func (r *SQLNotificationRepository) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	query := r.db.Rebind(`SELECT id, status, message, recipient, created_at FROM notifications WHERE id = ?`)
	var row notificationRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("error getting notification by ID: %w", err)
	}
	return row.toDomain(), nil
}

// MarkRead moves a notification from unread to read. The transition happens once.
func (r *SQLNotificationRepository) MarkRead(ctx context.Context, id string) error {
	query := r.db.Rebind(`UPDATE notifications SET status = ? WHERE id = ? AND status = ?`)
	res, err := r.db.ExecContext(ctx, query, string(notification.StatusRead), id, string(notification.StatusUnread))
	if err != nil {
		return fmt.Errorf("error marking notification %s as read: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows for notification %s: %w", id, err)
	}
	if affected == 1 {
		return nil
	}

	// Nothing updated: either missing or already read.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrAlreadyRead
}

func (r *SQLNotificationRepository) List(ctx context.Context) ([]*notification.Notification, error) {
	query := `SELECT id, status, message, recipient, created_at FROM notifications ORDER BY created_at, id`
	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}

	notifications := make([]*notification.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, row.toDomain())
	}
	return notifications, nil
}

// DeleteReadBefore issues one DELETE statement, so either every eligible row
// is removed or none is.
func (r *SQLNotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := r.db.Rebind(`DELETE FROM notifications WHERE status = ? AND created_at < ?`)
	res, err := r.db.ExecContext(ctx, query, string(notification.StatusRead), normalizeTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("deleting read notifications before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading deleted row count: %w", err)
	}
	return deleted, nil
}

// internal/domain/notification/repository.go
package notification

import (
	"context"
	"time"
)

// Repository defines storage operations for notification records.
type Repository interface {
	// Producer and admin side. The janitor never calls these.
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	MarkRead(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Notification, error)

	// DeleteReadBefore removes every read record created before cutoff in a
	// single bulk statement and returns the number of rows removed.
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// internal/domain/notification/notification.go
package notification

import "time"

// Status is the read state of a notification record.
type Status string

const (
	StatusUnread Status = "unread" // Initial state of every record
	StatusRead   Status = "read"   // Terminal state, set once by an admin action
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusUnread || s == StatusRead
}

// Notification is an entry of the admin dashboard notification log.
// Corresponds to the 'notifications' table.
type Notification struct {
	ID        string
	Status    Status
	Message   string // Opaque to the janitor
	Recipient string // Opaque to the janitor
	CreatedAt time.Time
}

// EligibleForPurge reports whether n may be permanently deleted given cutoff.
// Only read records created strictly before cutoff qualify.
func (n *Notification) EligibleForPurge(cutoff time.Time) bool {
	return n.Status == StatusRead && n.CreatedAt.Before(cutoff)
}

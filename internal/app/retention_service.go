// internal/app/retention_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"notification_janitor/internal/domain/notification"
)

// DefaultRetentionWindow is how long a read notification is kept.
const DefaultRetentionWindow = 30 * 24 * time.Hour

var ErrInvalidRetentionWindow = fmt.Errorf("retention window must be positive")

// PurgeOutcome is the result of one retention run.
type PurgeOutcome struct {
	StartedAt time.Time
	Cutoff    time.Time
	Deleted   int64
	Duration  time.Duration
	Err       error // Non-nil when the bulk delete failed; nothing was removed
}

// Succeeded reports whether the bulk delete completed.
func (o PurgeOutcome) Succeeded() bool {
	return o.Err == nil
}

// OutcomeReporter receives the outcome of every run.
type OutcomeReporter interface {
	Report(ctx context.Context, outcome PurgeOutcome)
}

// RetentionService deletes read notifications older than the retention window.
// It performs no logging; callers decide what to do with the outcome.
type RetentionService struct {
	notifRepo notification.Repository
	window    time.Duration
	now       func() time.Time
}

func NewRetentionService(nr notification.Repository, window time.Duration) (*RetentionService, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidRetentionWindow, window)
	}
	return &RetentionService{
		notifRepo: nr,
		window:    window,
		now:       time.Now,
	}, nil
}

// WithClock replaces the time source. Intended for tests.
func (s *RetentionService) WithClock(now func() time.Time) *RetentionService {
	s.now = now
	return s
}

// Purge issues a single bulk delete of every read notification created
// before now minus the retention window.
func (s *RetentionService) Purge(ctx context.Context) PurgeOutcome {
	started := s.now()
	outcome := PurgeOutcome{
		StartedAt: started,
		Cutoff:    started.Add(-s.window),
	}

	deleted, err := s.notifRepo.DeleteReadBefore(ctx, outcome.Cutoff)
	outcome.Duration = s.now().Sub(started)
	if err != nil {
		outcome.Err = fmt.Errorf("purging read notifications: %w", err)
		return outcome
	}

	outcome.Deleted = deleted
	return outcome
}

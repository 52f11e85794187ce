package reminder

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReminderRepository defines the interface for reminder persistence
type ReminderRepository interface {
	// FindByID finds a reminder by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Reminder, error)

	// FindByContact finds all reminders of a contact
	FindByContact(ctx context.Context, contactID uuid.UUID, filter shared.Filter) ([]Reminder, error)

	// FindPending finds all pending reminders
	FindPending(ctx context.Context, filter shared.Filter) ([]Reminder, error)

	// FindDue finds pending reminders whose due instant has passed.
	// Detection is pull-based: callers invoke this on demand.
	FindDue(ctx context.Context, now time.Time) ([]Reminder, error)

	// Save creates or updates a reminder
	Save(ctx context.Context, r *Reminder) error

	// SaveWithLock saves with optimistic locking and fails with
	// shared.ErrConcurrencyConflict on a stale version
	SaveWithLock(ctx context.Context, r *Reminder) error

	// Delete deletes a reminder
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByContact deletes all reminders of a contact
	DeleteByContact(ctx context.Context, contactID uuid.UUID) error

	// Count counts reminders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

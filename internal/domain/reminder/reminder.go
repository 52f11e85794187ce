package reminder

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/timeutil"
	"github.com/google/uuid"
)

// ReminderStatus represents the lifecycle state of a reminder
type ReminderStatus string

const (
	StatusPending   ReminderStatus = "PENDING"
	StatusCompleted ReminderStatus = "COMPLETED"
)

// RecurrenceUnit is the calendar unit of a recurrence interval
type RecurrenceUnit string

const (
	UnitDay   RecurrenceUnit = "DAY"
	UnitWeek  RecurrenceUnit = "WEEK"
	UnitMonth RecurrenceUnit = "MONTH"
	UnitYear  RecurrenceUnit = "YEAR"
)

// Reminder belongs to a contact and optionally references one of its
// notes. Due and completion instants are stored in UTC; the originating
// timezone is kept alongside so the local wall-clock time can be
// re-derived for display.
type Reminder struct {
	shared.BaseAggregateRoot
	ContactID          uuid.UUID
	NoteID             *uuid.UUID
	Text               string
	DueAt              time.Time
	DueTimezone        string
	RecurrenceInterval *int
	RecurrenceUnit     *RecurrenceUnit
	RecurrenceEndAt    *time.Time
	Status             ReminderStatus
	CompletedAt        *time.Time
	CompletionTimezone string
}

// NewReminder creates a pending reminder. dueAt may carry any zone; it
// is normalized to UTC, and timezone names the IANA zone used for
// display.
func NewReminder(contactID uuid.UUID, text string, dueAt time.Time, timezone string) (*Reminder, error) {
	if contactID == uuid.Nil {
		return nil, shared.NewValidationError("contact_id", "cannot be empty")
	}
	if dueAt.IsZero() {
		return nil, shared.NewValidationError("due_at", "is required")
	}
	if err := timeutil.ValidateZone(timezone); err != nil {
		return nil, err
	}

	return &Reminder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContactID:         contactID,
		Text:              text,
		DueAt:             dueAt.UTC(),
		DueTimezone:       timezone,
		Status:            StatusPending,
	}, nil
}

// LinkNote references the note this reminder originated from
func (r *Reminder) LinkNote(noteID uuid.UUID) error {
	if noteID == uuid.Nil {
		return shared.NewValidationError("note_id", "cannot be empty")
	}
	id := noteID
	r.NoteID = &id
	r.Touch()
	return nil
}

// SetRecurrence configures the reminder to repeat every interval units,
// optionally until endAt.
func (r *Reminder) SetRecurrence(interval int, unit RecurrenceUnit, endAt *time.Time) error {
	if interval < 1 {
		return shared.NewValidationError("recurrence_interval", "must be at least 1")
	}
	switch unit {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
	default:
		return shared.NewValidationError("recurrence_unit", "must be one of DAY, WEEK, MONTH, YEAR")
	}
	if endAt != nil && endAt.Before(r.DueAt) {
		return shared.NewValidationError("recurrence_end_date", "cannot precede the due date")
	}

	i := interval
	u := unit
	r.RecurrenceInterval = &i
	r.RecurrenceUnit = &u
	if endAt != nil {
		utc := endAt.UTC()
		r.RecurrenceEndAt = &utc
	} else {
		r.RecurrenceEndAt = nil
	}
	r.Touch()
	return nil
}

// ClearRecurrence makes the reminder one-shot again
func (r *Reminder) ClearRecurrence() {
	r.RecurrenceInterval = nil
	r.RecurrenceUnit = nil
	r.RecurrenceEndAt = nil
	r.Touch()
}

// IsRecurring reports whether a recurrence is configured
func (r *Reminder) IsRecurring() bool {
	return r.RecurrenceInterval != nil && r.RecurrenceUnit != nil
}

// Complete marks the reminder done. Completion fields are only ever set
// together with the COMPLETED status.
func (r *Reminder) Complete(at time.Time, timezone string) error {
	if r.Status == StatusCompleted {
		return shared.NewDomainError("ALREADY_COMPLETED", "Reminder is already completed")
	}
	if at.IsZero() {
		return shared.NewValidationError("completion_date", "is required")
	}
	if err := timeutil.ValidateZone(timezone); err != nil {
		return err
	}

	utc := at.UTC()
	r.Status = StatusCompleted
	r.CompletedAt = &utc
	r.CompletionTimezone = timezone
	r.Touch()
	return nil
}

// Reopen reverts a completed reminder to pending and clears the
// completion fields, which are forbidden outside COMPLETED.
func (r *Reminder) Reopen() error {
	if r.Status != StatusCompleted {
		return shared.NewDomainError("NOT_COMPLETED", "Reminder is not completed")
	}

	r.Status = StatusPending
	r.CompletedAt = nil
	r.CompletionTimezone = ""
	r.Touch()
	return nil
}

// IsDue reports whether a pending reminder has reached its due instant
func (r *Reminder) IsDue(now time.Time) bool {
	return r.Status == StatusPending && !now.UTC().Before(r.DueAt)
}

// NextOccurrence computes the due instant following the current one for
// a recurring reminder. It returns nil when the reminder does not recur
// or the next occurrence would fall past the recurrence end.
func (r *Reminder) NextOccurrence() *time.Time {
	if !r.IsRecurring() {
		return nil
	}

	var next time.Time
	switch *r.RecurrenceUnit {
	case UnitDay:
		next = r.DueAt.AddDate(0, 0, *r.RecurrenceInterval)
	case UnitWeek:
		next = r.DueAt.AddDate(0, 0, 7**r.RecurrenceInterval)
	case UnitMonth:
		next = r.DueAt.AddDate(0, *r.RecurrenceInterval, 0)
	case UnitYear:
		next = r.DueAt.AddDate(*r.RecurrenceInterval, 0, 0)
	default:
		return nil
	}

	if r.RecurrenceEndAt != nil && next.After(*r.RecurrenceEndAt) {
		return nil
	}
	return &next
}

// DueInLocalZone returns the due instant re-derived in the originating
// timezone for display
func (r *Reminder) DueInLocalZone() (time.Time, error) {
	loc, err := time.LoadLocation(r.DueTimezone)
	if err != nil {
		return time.Time{}, shared.NewValidationError("due_date_timezone", "unknown IANA zone: "+r.DueTimezone)
	}
	return r.DueAt.In(loc), nil
}

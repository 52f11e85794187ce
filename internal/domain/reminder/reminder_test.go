package reminder

import (
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingReminder(t *testing.T) *Reminder {
	t.Helper()
	due := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	r, err := NewReminder(uuid.New(), "call about the move", due, "Europe/Berlin")
	require.NoError(t, err)
	return r
}

func TestNewReminder(t *testing.T) {
	contactID := uuid.New()

	t.Run("creates pending reminder with UTC due instant", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		due := time.Date(2024, 6, 1, 9, 0, 0, 0, loc)

		r, err := NewReminder(contactID, "birthday call", due, "America/New_York")

		require.NoError(t, err)
		assert.Equal(t, StatusPending, r.Status)
		assert.Equal(t, time.UTC, r.DueAt.Location())
		assert.True(t, r.DueAt.Equal(due))
		assert.Equal(t, "America/New_York", r.DueTimezone)
		assert.Nil(t, r.CompletedAt)
		assert.Empty(t, r.CompletionTimezone)
	})

	t.Run("fails without contact", func(t *testing.T) {
		_, err := NewReminder(uuid.Nil, "x", time.Now(), "UTC")
		assert.Error(t, err)
	})

	t.Run("fails without due date", func(t *testing.T) {
		_, err := NewReminder(contactID, "x", time.Time{}, "UTC")
		assert.Error(t, err)
	})

	t.Run("fails without timezone", func(t *testing.T) {
		_, err := NewReminder(contactID, "x", time.Now(), "")
		assert.ErrorIs(t, err, shared.ErrAmbiguousTime)
	})

	t.Run("fails with unknown timezone", func(t *testing.T) {
		_, err := NewReminder(contactID, "x", time.Now(), "Atlantis/Capital")
		assert.Error(t, err)
	})
}

func TestReminderRecurrence(t *testing.T) {
	t.Run("sets a valid recurrence", func(t *testing.T) {
		r := newPendingReminder(t)

		require.NoError(t, r.SetRecurrence(2, UnitWeek, nil))

		assert.True(t, r.IsRecurring())
		assert.Equal(t, 2, *r.RecurrenceInterval)
		assert.Equal(t, UnitWeek, *r.RecurrenceUnit)
	})

	t.Run("rejects interval below one", func(t *testing.T) {
		r := newPendingReminder(t)
		assert.Error(t, r.SetRecurrence(0, UnitDay, nil))
	})

	t.Run("rejects unknown unit", func(t *testing.T) {
		r := newPendingReminder(t)
		assert.Error(t, r.SetRecurrence(1, RecurrenceUnit("FORTNIGHT"), nil))
	})

	t.Run("rejects end before due date", func(t *testing.T) {
		r := newPendingReminder(t)
		end := r.DueAt.AddDate(0, 0, -1)
		assert.Error(t, r.SetRecurrence(1, UnitDay, &end))
	})

	t.Run("clear makes it one-shot", func(t *testing.T) {
		r := newPendingReminder(t)
		require.NoError(t, r.SetRecurrence(1, UnitMonth, nil))

		r.ClearRecurrence()

		assert.False(t, r.IsRecurring())
		assert.Nil(t, r.NextOccurrence())
	})
}

func TestReminderNextOccurrence(t *testing.T) {
	cases := []struct {
		unit     RecurrenceUnit
		interval int
		want     time.Time
	}{
		{UnitDay, 3, time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC)},
		{UnitWeek, 2, time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)},
		{UnitMonth, 1, time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)},
		{UnitYear, 1, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(string(tc.unit), func(t *testing.T) {
			r := newPendingReminder(t)
			require.NoError(t, r.SetRecurrence(tc.interval, tc.unit, nil))

			next := r.NextOccurrence()

			require.NotNil(t, next)
			assert.True(t, next.Equal(tc.want), "got %v want %v", next, tc.want)
		})
	}

	t.Run("nil when past recurrence end", func(t *testing.T) {
		r := newPendingReminder(t)
		end := r.DueAt.AddDate(0, 0, 2)
		require.NoError(t, r.SetRecurrence(1, UnitWeek, &end))

		assert.Nil(t, r.NextOccurrence())
	})

	t.Run("nil for one-shot reminders", func(t *testing.T) {
		r := newPendingReminder(t)
		assert.Nil(t, r.NextOccurrence())
	})
}

func TestReminderComplete(t *testing.T) {
	t.Run("stamps completion with zone", func(t *testing.T) {
		r := newPendingReminder(t)
		at := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

		require.NoError(t, r.Complete(at, "Europe/Berlin"))

		assert.Equal(t, StatusCompleted, r.Status)
		require.NotNil(t, r.CompletedAt)
		assert.True(t, r.CompletedAt.Equal(at))
		assert.Equal(t, "Europe/Berlin", r.CompletionTimezone)
	})

	t.Run("fails when already completed", func(t *testing.T) {
		r := newPendingReminder(t)
		require.NoError(t, r.Complete(time.Now(), "UTC"))

		assert.Error(t, r.Complete(time.Now(), "UTC"))
	})

	t.Run("fails without zone", func(t *testing.T) {
		r := newPendingReminder(t)
		assert.ErrorIs(t, r.Complete(time.Now(), ""), shared.ErrAmbiguousTime)
	})

	t.Run("reopen clears completion fields", func(t *testing.T) {
		r := newPendingReminder(t)
		require.NoError(t, r.Complete(time.Now(), "UTC"))

		require.NoError(t, r.Reopen())

		assert.Equal(t, StatusPending, r.Status)
		assert.Nil(t, r.CompletedAt)
		assert.Empty(t, r.CompletionTimezone)
	})

	t.Run("reopen fails on a pending reminder", func(t *testing.T) {
		r := newPendingReminder(t)
		assert.Error(t, r.Reopen())
	})
}

func TestReminderIsDue(t *testing.T) {
	r := newPendingReminder(t)

	assert.False(t, r.IsDue(r.DueAt.Add(-time.Minute)))
	assert.True(t, r.IsDue(r.DueAt))
	assert.True(t, r.IsDue(r.DueAt.Add(time.Hour)))

	require.NoError(t, r.Complete(r.DueAt, "UTC"))
	assert.False(t, r.IsDue(r.DueAt.Add(time.Hour)))
}

func TestReminderDueInLocalZone(t *testing.T) {
	r := newPendingReminder(t)

	local, err := r.DueInLocalZone()

	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", local.Location().String())
	assert.True(t, local.Equal(r.DueAt))
	// June is CEST, UTC+2
	assert.Equal(t, 11, local.Hour())
}

func TestReminderLinkNote(t *testing.T) {
	r := newPendingReminder(t)

	noteID := uuid.New()
	require.NoError(t, r.LinkNote(noteID))
	assert.Equal(t, noteID, *r.NoteID)

	assert.Error(t, r.LinkNote(uuid.Nil))
}

package contact

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactRepository defines the interface for contact persistence.
// Save and Delete are transactional over the whole aggregate: either all
// owned rows (notes, statements, tag attachments) reach the new state or
// none do.
type ContactRepository interface {
	// FindByID finds a contact with notes, statements, and tags eagerly
	// loaded; statements are ordered by sequence number, notes by
	// creation time.
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)

	// FindAll finds all contacts matching the filter, children excluded
	FindAll(ctx context.Context, filter shared.Filter) ([]Contact, error)

	// FindByTag finds contacts carrying the normalized tag name
	FindByTag(ctx context.Context, name string) ([]Contact, error)

	// FindStale finds contacts with at least one stale tag as of now
	FindStale(ctx context.Context, now time.Time) ([]Contact, error)

	// Save creates or updates the contact and all owned children in one
	// transaction. Children removed from the aggregate are deleted.
	Save(ctx context.Context, c *Contact) error

	// SaveWithLock saves with optimistic locking and fails with
	// shared.ErrConcurrencyConflict on a stale version
	SaveWithLock(ctx context.Context, c *Contact) error

	// Delete cascades over the contact's notes and statements and
	// removes their tag attachments, in one transaction
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts contacts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// NoteRepository defines the interface for standalone note persistence.
// Notes saved through their contact do not need it; it exists for
// callers working on a single note aggregate.
type NoteRepository interface {
	// FindByID finds a note with statements and tags eagerly loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Note, error)

	// FindByContact finds all notes of a contact in creation order
	FindByContact(ctx context.Context, contactID uuid.UUID, filter shared.Filter) ([]Note, error)

	// FindInteractions finds a contact's interaction records
	FindInteractions(ctx context.Context, contactID uuid.UUID, filter shared.Filter) ([]Note, error)

	// FindByTag finds notes carrying the normalized tag name
	FindByTag(ctx context.Context, name string) ([]Note, error)

	// FindStale finds notes with at least one stale tag as of now
	FindStale(ctx context.Context, now time.Time) ([]Note, error)

	// Save creates or updates the note and its statements and tag
	// attachments in one transaction
	Save(ctx context.Context, n *Note) error

	// SaveWithLock saves with optimistic locking and fails with
	// shared.ErrConcurrencyConflict on a stale version
	SaveWithLock(ctx context.Context, n *Note) error

	// Delete cascades over the note's statements and removes tag
	// attachments, in one transaction
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts notes matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

package tag

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CascadePolicy decides what happens to tag rows when their owner is
// deleted. Rows are entity-scoped, so the default removes them with the
// owner; DetachOnly keeps the rows behind for a natural-key dedup story.
type CascadePolicy string

const (
	CascadeDelete CascadePolicy = "delete"
	DetachOnly    CascadePolicy = "detach"
)

// TagRepository defines the interface for tag persistence
type TagRepository interface {
	// FindByID finds a tag by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tag, error)

	// FindForOwner finds all tags attached to the given owner. Both the
	// ID and the kind filter the lookup; the ID alone is insufficient.
	FindForOwner(ctx context.Context, owner OwnerRef) ([]Tag, error)

	// FindByName finds all attachments of the normalized name across owners
	FindByName(ctx context.Context, name string, filter shared.Filter) ([]Tag, error)

	// FindWithFrequency finds all tags that carry a reminder cadence
	FindWithFrequency(ctx context.Context) ([]Tag, error)

	// FindStale finds all tags whose cadence has lapsed as of now
	FindStale(ctx context.Context, now time.Time) ([]Tag, error)

	// Save creates or updates a tag. A duplicate natural key
	// (owner_id, owner_kind, name) fails with shared.ErrAlreadyExists.
	Save(ctx context.Context, t *Tag) error

	// Delete deletes a tag attachment
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteForOwner deletes all tag attachments of the given owner
	DeleteForOwner(ctx context.Context, owner OwnerRef) error

	// Count counts tags matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

package tag

import (
	"github.com/crm/backend/internal/domain/shared"
)

// Event types for the tag aggregate
const (
	EventTagAttached         = "tag.attached"
	EventTagFrequencyChanged = "tag.frequency_changed"
	EventTagDetached         = "tag.detached"
)

// TagAttachedEvent is raised when a tag is attached to an entity
type TagAttachedEvent struct {
	shared.BaseDomainEvent
	OwnerKind OwnerKind `json:"owner_kind"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
}

// NewTagAttachedEvent creates a new TagAttachedEvent
func NewTagAttachedEvent(t *Tag) *TagAttachedEvent {
	return &TagAttachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTagAttached, "Tag", t.ID),
		OwnerKind:       t.Owner.Kind,
		OwnerID:         t.Owner.ID.String(),
		Name:            t.Name,
	}
}

// TagDetachedEvent is raised when a tag is removed from its owner
type TagDetachedEvent struct {
	shared.BaseDomainEvent
	OwnerKind OwnerKind `json:"owner_kind"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
}

// NewTagDetachedEvent creates a new TagDetachedEvent
func NewTagDetachedEvent(t *Tag) *TagDetachedEvent {
	return &TagDetachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTagDetached, "Tag", t.ID),
		OwnerKind:       t.Owner.Kind,
		OwnerID:         t.Owner.ID.String(),
		Name:            t.Name,
	}
}

package contact

import (
	"github.com/crm/backend/internal/domain/shared"
)

// Event types for the contact aggregate
const (
	EventContactCreated = "contact.created"
	EventContactUpdated = "contact.updated"
	EventContactDeleted = "contact.deleted"
)

// ContactCreatedEvent is raised when a contact is created
type ContactCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewContactCreatedEvent creates a new ContactCreatedEvent
func NewContactCreatedEvent(c *Contact) *ContactCreatedEvent {
	return &ContactCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventContactCreated, "Contact", c.ID),
		Name:            c.Name,
	}
}

// ContactUpdatedEvent is raised when a contact's fields change
type ContactUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewContactUpdatedEvent creates a new ContactUpdatedEvent
func NewContactUpdatedEvent(c *Contact) *ContactUpdatedEvent {
	return &ContactUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventContactUpdated, "Contact", c.ID),
		Name:            c.Name,
	}
}

// ContactDeletedEvent is raised when a contact and its subtree are deleted
type ContactDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewContactDeletedEvent creates a new ContactDeletedEvent
func NewContactDeletedEvent(c *Contact) *ContactDeletedEvent {
	return &ContactDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventContactDeleted, "Contact", c.ID),
		Name:            c.Name,
	}
}

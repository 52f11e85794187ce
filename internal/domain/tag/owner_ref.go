package tag

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OwnerKind discriminates which entity type a tag is attached to.
// IDs are not type-namespaced, so lookups must always pair the ID with
// the kind.
type OwnerKind string

const (
	OwnerKindContact   OwnerKind = "CONTACT"
	OwnerKindNote      OwnerKind = "NOTE"
	OwnerKindStatement OwnerKind = "STATEMENT"
)

// OwnerRef is a tagged owner reference. Keeping the ID and the
// discriminator in one value means they cannot drift apart.
type OwnerRef struct {
	Kind OwnerKind
	ID   uuid.UUID
}

// ContactOwner builds an owner reference to a contact
func ContactOwner(id uuid.UUID) OwnerRef {
	return OwnerRef{Kind: OwnerKindContact, ID: id}
}

// NoteOwner builds an owner reference to a note
func NoteOwner(id uuid.UUID) OwnerRef {
	return OwnerRef{Kind: OwnerKindNote, ID: id}
}

// StatementOwner builds an owner reference to a statement
func StatementOwner(id uuid.UUID) OwnerRef {
	return OwnerRef{Kind: OwnerKindStatement, ID: id}
}

// Validate checks that the reference names a known kind and a real ID
func (o OwnerRef) Validate() error {
	switch o.Kind {
	case OwnerKindContact, OwnerKindNote, OwnerKindStatement:
	default:
		return shared.NewValidationError("owner_kind", "must be one of CONTACT, NOTE, STATEMENT")
	}
	if o.ID == uuid.Nil {
		return shared.NewValidationError("owner_id", "cannot be empty")
	}
	return nil
}

// Equals reports whether two references point at the same owner
func (o OwnerRef) Equals(other OwnerRef) bool {
	return o.Kind == other.Kind && o.ID == other.ID
}

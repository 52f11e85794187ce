package contact

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/tag"
	"github.com/google/uuid"
)

// Note belongs to exactly one contact and is either a free-text note or
// an interaction record. It owns an ordered sequence of Statements whose
// sequence numbers it assigns on append.
type Note struct {
	shared.BaseAggregateRoot
	ContactID       uuid.UUID
	Content         string
	IsInteraction   bool
	InteractionDate *time.Time
	Statements      []Statement
	Tags            []tag.Tag
}

// NewNote creates a free-text note for a contact
func NewNote(contactID uuid.UUID, content string) (*Note, error) {
	if contactID == uuid.Nil {
		return nil, shared.NewValidationError("contact_id", "cannot be empty")
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, shared.NewValidationError("content", "is required for a free-text note")
	}

	return &Note{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContactID:         contactID,
		Content:           trimmed,
	}, nil
}

// NewInteraction creates an interaction record for a contact. The date
// is normalized to its UTC instant.
func NewInteraction(contactID uuid.UUID, date time.Time) (*Note, error) {
	if contactID == uuid.Nil {
		return nil, shared.NewValidationError("contact_id", "cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("interaction_date", "is required for an interaction")
	}
	utc := date.UTC()

	return &Note{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContactID:         contactID,
		IsInteraction:     true,
		InteractionDate:   &utc,
	}, nil
}

// SetContent updates the note text. A free-text note cannot end up empty.
func (n *Note) SetContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if !n.IsInteraction && trimmed == "" {
		return shared.NewValidationError("content", "is required for a free-text note")
	}

	n.Content = trimmed
	n.Touch()
	return nil
}

// AddStatement appends a statement with the next dense sequence number.
// Sequence numbers are assigned here and nowhere else.
func (n *Note) AddStatement(content string) (*Statement, error) {
	s, err := newStatement(n.ID, content, len(n.Statements))
	if err != nil {
		return nil, err
	}

	n.Statements = append(n.Statements, *s)
	n.Touch()

	return &n.Statements[len(n.Statements)-1], nil
}

// RemoveStatement removes an owned statement and renumbers the remainder
// so sequence numbers stay dense and ordered.
func (n *Note) RemoveStatement(statementID uuid.UUID) error {
	idx := -1
	for i := range n.Statements {
		if n.Statements[i].ID == statementID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}

	n.Statements = append(n.Statements[:idx], n.Statements[idx+1:]...)
	for i := range n.Statements {
		n.Statements[i].SequenceNumber = i
	}
	n.Touch()
	return nil
}

// FindStatement returns the owned statement with the given ID, or nil
func (n *Note) FindStatement(statementID uuid.UUID) *Statement {
	for i := range n.Statements {
		if n.Statements[i].ID == statementID {
			return &n.Statements[i]
		}
	}
	return nil
}

// AttachTag attaches a new tag to the note
func (n *Note) AttachTag(name string) (*tag.Tag, error) {
	t, err := tag.NewTag(tag.NoteOwner(n.ID), name)
	if err != nil {
		return nil, err
	}
	for i := range n.Tags {
		if n.Tags[i].Name == t.Name {
			return nil, shared.NewDomainError("DUPLICATE_TAG", "Note already carries tag "+t.Name)
		}
	}

	n.Tags = append(n.Tags, *t)
	n.Touch()

	return &n.Tags[len(n.Tags)-1], nil
}

// DetachTag removes the named tag from the note
func (n *Note) DetachTag(name string) error {
	normalized, err := tag.NormalizeName(name)
	if err != nil {
		return err
	}
	for i := range n.Tags {
		if n.Tags[i].Name == normalized {
			n.Tags = append(n.Tags[:i], n.Tags[i+1:]...)
			n.Touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// NeedsAttention reports whether any of the note's own tags is stale as
// of now
func (n *Note) NeedsAttention(now time.Time) bool {
	return tag.AnyStale(n.Tags, now)
}

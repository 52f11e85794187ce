package contact

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/tag"
	"github.com/google/uuid"
)

// Statement is one line of a note. Its sequence number is assigned by
// the owning note at append time; it is never user-settable.
type Statement struct {
	shared.BaseEntity
	NoteID         uuid.UUID
	Content        string
	SequenceNumber int
	Tags           []tag.Tag
}

// newStatement is only reachable through Note.AddStatement, which owns
// sequence assignment.
func newStatement(noteID uuid.UUID, content string, sequence int) (*Statement, error) {
	if noteID == uuid.Nil {
		return nil, shared.NewValidationError("note_id", "cannot be empty")
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, shared.NewValidationError("content", "cannot be empty")
	}

	return &Statement{
		BaseEntity:     shared.NewBaseEntity(),
		NoteID:         noteID,
		Content:        trimmed,
		SequenceNumber: sequence,
	}, nil
}

// SetContent updates the statement text
func (s *Statement) SetContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return shared.NewValidationError("content", "cannot be empty")
	}

	s.Content = trimmed
	s.Touch()
	return nil
}

// AttachTag attaches a new tag to the statement
func (s *Statement) AttachTag(name string) (*tag.Tag, error) {
	t, err := tag.NewTag(tag.StatementOwner(s.ID), name)
	if err != nil {
		return nil, err
	}
	for i := range s.Tags {
		if s.Tags[i].Name == t.Name {
			return nil, shared.NewDomainError("DUPLICATE_TAG", "Statement already carries tag "+t.Name)
		}
	}

	s.Tags = append(s.Tags, *t)
	s.Touch()

	return &s.Tags[len(s.Tags)-1], nil
}

// DetachTag removes the named tag from the statement
func (s *Statement) DetachTag(name string) error {
	normalized, err := tag.NormalizeName(name)
	if err != nil {
		return err
	}
	for i := range s.Tags {
		if s.Tags[i].Name == normalized {
			s.Tags = append(s.Tags[:i], s.Tags[i+1:]...)
			s.Touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// NeedsAttention reports whether any of the statement's own tags is
// stale as of now
func (s *Statement) NeedsAttention(now time.Time) bool {
	return tag.AnyStale(s.Tags, now)
}

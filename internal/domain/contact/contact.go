package contact

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/tag"
	"github.com/crm/backend/internal/domain/template"
	"github.com/google/uuid"
)

// Contact is the aggregate root of the journal. It exclusively owns its
// Notes (and transitively their Statements); deleting a contact deletes
// that whole subtree. Tags attach by reference and follow the cascade
// policy of the tag context.
type Contact struct {
	shared.BaseAggregateRoot
	Name           string
	FirstName      string
	BriefingText   string
	SubInformation map[string]string
	Notes          []Note
	Tags           []tag.Tag
}

// NewContact creates a new contact with the required display name
func NewContact(name string) (*Contact, error) {
	trimmed := strings.TrimSpace(name)
	if err := validateContactName(trimmed); err != nil {
		return nil, err
	}

	c := &Contact{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              trimmed,
		SubInformation:    map[string]string{},
	}

	c.AddDomainEvent(NewContactCreatedEvent(c))

	return c, nil
}

// Rename updates the contact's display and first name
func (c *Contact) Rename(name, firstName string) error {
	trimmed := strings.TrimSpace(name)
	if err := validateContactName(trimmed); err != nil {
		return err
	}

	c.Name = trimmed
	c.FirstName = strings.TrimSpace(firstName)
	c.Touch()

	c.AddDomainEvent(NewContactUpdatedEvent(c))

	return nil
}

// SetBriefing updates the free-form briefing text
func (c *Contact) SetBriefing(text string) {
	c.BriefingText = text
	c.Touch()
}

// SetSubInformation replaces the contact's sub-information after
// validating it against the given template version. Callers supply the
// current version; the domain re-validates even pre-validated input.
func (c *Contact) SetSubInformation(info map[string]string, tv *template.TemplateVersion) error {
	if tv == nil {
		return shared.NewValidationError("template_version", "is required to validate sub information")
	}
	if err := tv.Validate(info); err != nil {
		return err
	}

	c.SubInformation = make(map[string]string, len(info))
	for k, v := range info {
		c.SubInformation[k] = v
	}
	c.Touch()

	c.AddDomainEvent(NewContactUpdatedEvent(c))

	return nil
}

// AddNote appends a free-text note to the contact
func (c *Contact) AddNote(content string) (*Note, error) {
	note, err := NewNote(c.ID, content)
	if err != nil {
		return nil, err
	}

	c.Notes = append(c.Notes, *note)
	c.Touch()

	return &c.Notes[len(c.Notes)-1], nil
}

// AddInteraction appends an interaction record to the contact
func (c *Contact) AddInteraction(date time.Time) (*Note, error) {
	note, err := NewInteraction(c.ID, date)
	if err != nil {
		return nil, err
	}

	c.Notes = append(c.Notes, *note)
	c.Touch()

	return &c.Notes[len(c.Notes)-1], nil
}

// RemoveNote removes an owned note. The repository deletes the note's
// subtree when the contact is next saved.
func (c *Contact) RemoveNote(noteID uuid.UUID) error {
	for i := range c.Notes {
		if c.Notes[i].ID == noteID {
			c.Notes = append(c.Notes[:i], c.Notes[i+1:]...)
			c.Touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// FindNote returns the owned note with the given ID, or nil
func (c *Contact) FindNote(noteID uuid.UUID) *Note {
	for i := range c.Notes {
		if c.Notes[i].ID == noteID {
			return &c.Notes[i]
		}
	}
	return nil
}

// AttachTag attaches a new tag to the contact. The name is normalized
// first; attaching a name the contact already carries fails.
func (c *Contact) AttachTag(name string) (*tag.Tag, error) {
	t, err := tag.NewTag(tag.ContactOwner(c.ID), name)
	if err != nil {
		return nil, err
	}
	if c.hasTag(t.Name) {
		return nil, shared.NewDomainError("DUPLICATE_TAG", "Contact already carries tag "+t.Name)
	}

	c.Tags = append(c.Tags, *t)
	c.Touch()

	return &c.Tags[len(c.Tags)-1], nil
}

// DetachTag removes the named tag from the contact
func (c *Contact) DetachTag(name string) error {
	normalized, err := tag.NormalizeName(name)
	if err != nil {
		return err
	}
	for i := range c.Tags {
		if c.Tags[i].Name == normalized {
			c.Tags = append(c.Tags[:i], c.Tags[i+1:]...)
			c.Touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// NeedsAttention reports whether any of the contact's own tags is stale
// as of now
func (c *Contact) NeedsAttention(now time.Time) bool {
	return tag.AnyStale(c.Tags, now)
}

func (c *Contact) hasTag(normalized string) bool {
	for i := range c.Tags {
		if c.Tags[i].Name == normalized {
			return true
		}
	}
	return false
}

func validateContactName(name string) error {
	if name == "" {
		return shared.NewValidationError("name", "cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("name", "cannot exceed 200 characters")
	}
	return nil
}

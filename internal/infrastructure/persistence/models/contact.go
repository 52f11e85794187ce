package models

import (
	"encoding/json"
	"time"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/google/uuid"
)

// ContactModel is the persistence model for the Contact aggregate root.
// Tags are polymorphic and live in their own table; repositories attach
// them outside the GORM association machinery.
type ContactModel struct {
	AggregateModel
	Name           string      `gorm:"type:varchar(200);not null;index"`
	FirstName      string      `gorm:"type:varchar(100)"`
	BriefingText   string      `gorm:"type:text"`
	SubInformation string      `gorm:"type:jsonb"`
	Notes          []NoteModel `gorm:"foreignKey:ContactID;references:ID"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact entity.
func (m *ContactModel) ToDomain() *contact.Contact {
	sub := map[string]string{}
	if m.SubInformation != "" {
		// rows written before sub information existed hold no JSON
		_ = json.Unmarshal([]byte(m.SubInformation), &sub)
	}

	c := &contact.Contact{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		FirstName:         m.FirstName,
		BriefingText:      m.BriefingText,
		SubInformation:    sub,
		Notes:             make([]contact.Note, len(m.Notes)),
	}
	for i, n := range m.Notes {
		c.Notes[i] = *n.ToDomain()
	}
	return c
}

// FromDomain populates the persistence model from a domain Contact entity.
func (m *ContactModel) FromDomain(c *contact.Contact) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.FirstName = c.FirstName
	m.BriefingText = c.BriefingText
	sub, _ := json.Marshal(c.SubInformation)
	m.SubInformation = string(sub)
	m.Notes = make([]NoteModel, len(c.Notes))
	for i := range c.Notes {
		m.Notes[i] = *NoteModelFromDomain(&c.Notes[i])
	}
}

// ContactModelFromDomain creates a new persistence model from a domain Contact entity.
func ContactModelFromDomain(c *contact.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}

// NoteModel is the persistence model for the Note entity.
type NoteModel struct {
	AggregateModel
	ContactID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	Content         string           `gorm:"type:text"`
	IsInteraction   bool             `gorm:"not null;default:false"`
	InteractionDate *time.Time       `gorm:"index"`
	Statements      []StatementModel `gorm:"foreignKey:NoteID;references:ID"`
}

// TableName returns the table name for GORM
func (NoteModel) TableName() string {
	return "notes"
}

// ToDomain converts the persistence model to a domain Note entity.
func (m *NoteModel) ToDomain() *contact.Note {
	n := &contact.Note{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ContactID:         m.ContactID,
		Content:           m.Content,
		IsInteraction:     m.IsInteraction,
		InteractionDate:   m.InteractionDate,
		Statements:        make([]contact.Statement, len(m.Statements)),
	}
	for i, s := range m.Statements {
		n.Statements[i] = *s.ToDomain()
	}
	return n
}

// FromDomain populates the persistence model from a domain Note entity.
func (m *NoteModel) FromDomain(n *contact.Note) {
	m.FromDomainAggregateRoot(n.BaseAggregateRoot)
	m.ContactID = n.ContactID
	m.Content = n.Content
	m.IsInteraction = n.IsInteraction
	m.InteractionDate = n.InteractionDate
	m.Statements = make([]StatementModel, len(n.Statements))
	for i := range n.Statements {
		m.Statements[i] = *StatementModelFromDomain(&n.Statements[i])
	}
}

// NoteModelFromDomain creates a new persistence model from a domain Note entity.
func NoteModelFromDomain(n *contact.Note) *NoteModel {
	m := &NoteModel{}
	m.FromDomain(n)
	return m
}

// StatementModel is the persistence model for the Statement entity.
// The (note_id, sequence_number) pair is unique so storage order can
// never diverge from the note's append order.
type StatementModel struct {
	BaseModel
	NoteID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_statement_note_seq,priority:1"`
	Content        string    `gorm:"type:text;not null"`
	SequenceNumber int       `gorm:"not null;uniqueIndex:idx_statement_note_seq,priority:2"`
}

// TableName returns the table name for GORM
func (StatementModel) TableName() string {
	return "statements"
}

// ToDomain converts the persistence model to a domain Statement entity.
func (m *StatementModel) ToDomain() *contact.Statement {
	return &contact.Statement{
		BaseEntity:     m.BaseModel.ToDomain(),
		NoteID:         m.NoteID,
		Content:        m.Content,
		SequenceNumber: m.SequenceNumber,
	}
}

// FromDomain populates the persistence model from a domain Statement entity.
func (m *StatementModel) FromDomain(s *contact.Statement) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.NoteID = s.NoteID
	m.Content = s.Content
	m.SequenceNumber = s.SequenceNumber
}

// StatementModelFromDomain creates a new persistence model from a domain Statement entity.
func StatementModelFromDomain(s *contact.Statement) *StatementModel {
	m := &StatementModel{}
	m.FromDomain(s)
	return m
}

package models

import (
	"time"

	"github.com/crm/backend/internal/domain/reminder"
	"github.com/google/uuid"
)

// ReminderModel is the persistence model for the Reminder aggregate root.
type ReminderModel struct {
	AggregateModel
	ContactID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	NoteID             *uuid.UUID `gorm:"type:uuid;index"`
	Text               string     `gorm:"type:text;not null"`
	DueAt              time.Time  `gorm:"not null;index"`
	DueTimezone        string     `gorm:"type:varchar(64);not null"`
	RecurrenceInterval *int       ``
	RecurrenceUnit     *string    `gorm:"type:varchar(10)"`
	RecurrenceEndAt    *time.Time ``
	Status             string     `gorm:"type:varchar(20);not null;index"`
	CompletedAt        *time.Time ``
	CompletionTimezone string     `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (ReminderModel) TableName() string {
	return "reminders"
}

// ToDomain converts the persistence model to a domain Reminder entity.
func (m *ReminderModel) ToDomain() *reminder.Reminder {
	r := &reminder.Reminder{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		ContactID:          m.ContactID,
		NoteID:             m.NoteID,
		Text:               m.Text,
		DueAt:              m.DueAt,
		DueTimezone:        m.DueTimezone,
		RecurrenceInterval: m.RecurrenceInterval,
		RecurrenceEndAt:    m.RecurrenceEndAt,
		Status:             reminder.ReminderStatus(m.Status),
		CompletedAt:        m.CompletedAt,
		CompletionTimezone: m.CompletionTimezone,
	}
	if m.RecurrenceUnit != nil {
		unit := reminder.RecurrenceUnit(*m.RecurrenceUnit)
		r.RecurrenceUnit = &unit
	}
	return r
}

// FromDomain populates the persistence model from a domain Reminder entity.
func (m *ReminderModel) FromDomain(r *reminder.Reminder) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.ContactID = r.ContactID
	m.NoteID = r.NoteID
	m.Text = r.Text
	m.DueAt = r.DueAt
	m.DueTimezone = r.DueTimezone
	m.RecurrenceInterval = r.RecurrenceInterval
	m.RecurrenceEndAt = r.RecurrenceEndAt
	m.Status = string(r.Status)
	m.CompletedAt = r.CompletedAt
	m.CompletionTimezone = r.CompletionTimezone
	if r.RecurrenceUnit != nil {
		unit := string(*r.RecurrenceUnit)
		m.RecurrenceUnit = &unit
	} else {
		m.RecurrenceUnit = nil
	}
}

// ReminderModelFromDomain creates a new persistence model from a domain Reminder entity.
func ReminderModelFromDomain(r *reminder.Reminder) *ReminderModel {
	m := &ReminderModel{}
	m.FromDomain(r)
	return m
}

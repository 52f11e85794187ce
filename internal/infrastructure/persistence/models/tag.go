package models

import (
	"time"

	"github.com/crm/backend/internal/domain/tag"
	"github.com/google/uuid"
)

// TagModel is the persistence model for the Tag aggregate root.
// The natural key (owner_id, owner_kind, name) is unique: an entity
// cannot carry the same tag twice, while the same name on another
// entity is a separate row.
type TagModel struct {
	AggregateModel
	OwnerID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_tag_owner_name,priority:1"`
	OwnerKind     string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_tag_owner_name,priority:2"`
	Name          string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_tag_owner_name,priority:3;index"`
	FrequencyDays *int       ``
	LastContact   *time.Time ``
}

// TableName returns the table name for GORM
func (TagModel) TableName() string {
	return "tags"
}

// ToDomain converts the persistence model to a domain Tag entity.
func (m *TagModel) ToDomain() *tag.Tag {
	return &tag.Tag{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Owner: tag.OwnerRef{
			Kind: tag.OwnerKind(m.OwnerKind),
			ID:   m.OwnerID,
		},
		Name:          m.Name,
		FrequencyDays: m.FrequencyDays,
		LastContact:   m.LastContact,
	}
}

// FromDomain populates the persistence model from a domain Tag entity.
func (m *TagModel) FromDomain(t *tag.Tag) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.OwnerID = t.Owner.ID
	m.OwnerKind = string(t.Owner.Kind)
	m.Name = t.Name
	m.FrequencyDays = t.FrequencyDays
	m.LastContact = t.LastContact
}

// TagModelFromDomain creates a new persistence model from a domain Tag entity.
func TagModelFromDomain(t *tag.Tag) *TagModel {
	m := &TagModel{}
	m.FromDomain(t)
	return m
}

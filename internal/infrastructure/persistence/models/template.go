package models

import (
	"encoding/json"

	"github.com/crm/backend/internal/domain/template"
)

// TemplateVersionModel is the persistence model for a TemplateVersion.
// Field definitions are stored as JSON documents; versions are
// append-only, so the version number carries a unique index.
type TemplateVersionModel struct {
	BaseModel
	Version       int    `gorm:"not null;uniqueIndex"`
	Categories    string `gorm:"type:jsonb;not null"`
	RemovedFields string `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (TemplateVersionModel) TableName() string {
	return "template_versions"
}

// ToDomain converts the persistence model to a domain TemplateVersion entity.
func (m *TemplateVersionModel) ToDomain() (*template.TemplateVersion, error) {
	categories := map[string]template.FieldDefinition{}
	if m.Categories != "" {
		if err := json.Unmarshal([]byte(m.Categories), &categories); err != nil {
			return nil, err
		}
	}
	removed := map[string]template.FieldDefinition{}
	if m.RemovedFields != "" {
		if err := json.Unmarshal([]byte(m.RemovedFields), &removed); err != nil {
			return nil, err
		}
	}

	return &template.TemplateVersion{
		BaseEntity:    m.BaseModel.ToDomain(),
		Version:       m.Version,
		Categories:    categories,
		RemovedFields: removed,
	}, nil
}

// FromDomain populates the persistence model from a domain TemplateVersion entity.
func (m *TemplateVersionModel) FromDomain(tv *template.TemplateVersion) error {
	m.FromDomainBaseEntity(tv.BaseEntity)
	m.Version = tv.Version

	categories, err := json.Marshal(tv.Categories)
	if err != nil {
		return err
	}
	removed, err := json.Marshal(tv.RemovedFields)
	if err != nil {
		return err
	}
	m.Categories = string(categories)
	m.RemovedFields = string(removed)
	return nil
}

// TemplateVersionModelFromDomain creates a new persistence model from a domain TemplateVersion entity.
func TemplateVersionModelFromDomain(tv *template.TemplateVersion) (*TemplateVersionModel, error) {
	m := &TemplateVersionModel{}
	if err := m.FromDomain(tv); err != nil {
		return nil, err
	}
	return m, nil
}

package template

import (
	"strconv"
	"time"

	"github.com/crm/backend/internal/domain/shared"
)

// FieldType constrains what values a sub-information field may hold
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeDate    FieldType = "date"
	FieldTypeBoolean FieldType = "boolean"
)

// FieldDefinition describes one sub-information field of the template
type FieldDefinition struct {
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Description string    `json:"description,omitempty"`
}

// TemplateVersion is the schema a contact's sub-information is validated
// against. Versions are immutable: changing the schema means creating a
// successor, and RemovedFields records what each version dropped so
// migrations between versions are auditable diffs.
type TemplateVersion struct {
	shared.BaseEntity
	Version       int
	Categories    map[string]FieldDefinition
	RemovedFields map[string]FieldDefinition
}

// NewTemplateVersion creates the first template version
func NewTemplateVersion(categories map[string]FieldDefinition) (*TemplateVersion, error) {
	if err := validateCategories(categories); err != nil {
		return nil, err
	}

	return &TemplateVersion{
		BaseEntity:    shared.NewBaseEntity(),
		Version:       1,
		Categories:    copyFields(categories),
		RemovedFields: map[string]FieldDefinition{},
	}, nil
}

// NewSuccessor creates the next template version from a new field set.
// Fields present here but absent in the successor land in the successor's
// RemovedFields.
func (tv *TemplateVersion) NewSuccessor(categories map[string]FieldDefinition) (*TemplateVersion, error) {
	if err := validateCategories(categories); err != nil {
		return nil, err
	}

	removed := map[string]FieldDefinition{}
	for name, def := range tv.Categories {
		if _, ok := categories[name]; !ok {
			removed[name] = def
		}
	}

	return &TemplateVersion{
		BaseEntity:    shared.NewBaseEntity(),
		Version:       tv.Version + 1,
		Categories:    copyFields(categories),
		RemovedFields: removed,
	}, nil
}

// Validate checks a contact's sub-information against this version's
// field definitions: unknown fields are rejected, required fields must be
// present and non-empty, and values must parse per their declared type.
func (tv *TemplateVersion) Validate(subInformation map[string]string) error {
	for name := range subInformation {
		if _, ok := tv.Categories[name]; !ok {
			return shared.NewValidationError(name, "is not defined by template version "+strconv.Itoa(tv.Version))
		}
	}
	for name, def := range tv.Categories {
		value, ok := subInformation[name]
		if !ok || value == "" {
			if def.Required {
				return shared.NewValidationError(name, "is required")
			}
			continue
		}
		if err := validateValue(name, value, def.Type); err != nil {
			return err
		}
	}
	return nil
}

// HasField reports whether the version defines the named field
func (tv *TemplateVersion) HasField(name string) bool {
	_, ok := tv.Categories[name]
	return ok
}

func validateValue(name, value string, ft FieldType) error {
	switch ft {
	case FieldTypeText:
		return nil
	case FieldTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return shared.NewValidationError(name, "must be a number")
		}
		return nil
	case FieldTypeDate:
		if _, err := time.Parse("2006-01-02", value); err == nil {
			return nil
		}
		if _, err := time.Parse(time.RFC3339, value); err == nil {
			return nil
		}
		return shared.NewValidationError(name, "must be a date (2006-01-02 or RFC 3339)")
	case FieldTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return shared.NewValidationError(name, "must be a boolean")
		}
		return nil
	default:
		return shared.NewValidationError(name, "has unknown field type "+string(ft))
	}
}

func validateCategories(categories map[string]FieldDefinition) error {
	if len(categories) == 0 {
		return shared.NewValidationError("categories", "cannot be empty")
	}
	for name, def := range categories {
		if name == "" {
			return shared.NewValidationError("categories", "field names cannot be empty")
		}
		switch def.Type {
		case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeBoolean:
		default:
			return shared.NewValidationError(name, "has unknown field type "+string(def.Type))
		}
	}
	return nil
}

func copyFields(in map[string]FieldDefinition) map[string]FieldDefinition {
	out := make(map[string]FieldDefinition, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

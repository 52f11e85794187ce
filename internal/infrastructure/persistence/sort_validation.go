package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ContactSortFields contains allowed sort fields for contacts
var ContactSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"first_name": true,
}

// NoteSortFields contains allowed sort fields for notes
var NoteSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"contact_id":       true,
	"is_interaction":   true,
	"interaction_date": true,
}

// TagSortFields contains allowed sort fields for tags
var TagSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"owner_kind":     true,
	"frequency_days": true,
	"last_contact":   true,
}

// ReminderSortFields contains allowed sort fields for reminders
var ReminderSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"contact_id": true,
	"due_at":     true,
	"status":     true,
}

// TemplateVersionSortFields contains allowed sort fields for template versions
var TemplateVersionSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"version":    true,
}

package tag

import (
	"regexp"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
)

// Tag attaches a label to exactly one contact, note, or statement.
// It is the aggregate root for tagging and reminder-cadence state.
// Rows are entity-scoped: two entities carrying the same name hold two
// independent tag rows that only share a natural key.
type Tag struct {
	shared.BaseAggregateRoot
	Owner         OwnerRef
	Name          string
	FrequencyDays *int
	LastContact   *time.Time
}

const (
	// MinFrequencyDays and MaxFrequencyDays bound the reminder cadence.
	MinFrequencyDays = 1
	MaxFrequencyDays = 365
)

var tagNamePattern = regexp.MustCompile(`^#[a-z0-9_]+$`)

// NewTag creates a tag attached to the given owner. The name is
// lowercase-normalized and must match ^#[a-z0-9_]+$.
func NewTag(owner OwnerRef, name string) (*Tag, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	normalized, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	t := &Tag{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Owner:             owner,
		Name:              normalized,
	}

	t.AddDomainEvent(NewTagAttachedEvent(t))

	return t, nil
}

// NormalizeName lowercases and validates a raw tag name.
func NormalizeName(raw string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", shared.NewValidationError("name", "cannot be empty")
	}
	if !strings.HasPrefix(name, "#") {
		return "", shared.NewValidationError("name", "must start with '#'")
	}
	if !tagNamePattern.MatchString(name) {
		return "", shared.NewValidationError("name", "may only contain lowercase letters, digits, and underscores after '#'")
	}
	return name, nil
}

// SetFrequency sets the reminder cadence in days, or clears it when days
// is nil. Clearing the cadence also resets LastContact: without a cadence
// there is nothing to measure staleness against.
func (t *Tag) SetFrequency(days *int) error {
	if days == nil {
		t.FrequencyDays = nil
		t.LastContact = nil
		t.Touch()
		return nil
	}
	if *days < MinFrequencyDays || *days > MaxFrequencyDays {
		return shared.NewValidationError("frequency_days", "must be between 1 and 365")
	}
	v := *days
	t.FrequencyDays = &v
	t.Touch()
	return nil
}

// RecordContact stamps the last contact instant. The tag never advances
// this itself; whatever records a new interaction calls it.
func (t *Tag) RecordContact(at time.Time) {
	utc := at.UTC()
	t.LastContact = &utc
	t.Touch()
}

// HasFrequency reports whether a reminder cadence is configured
func (t *Tag) HasFrequency() bool {
	return t.FrequencyDays != nil
}

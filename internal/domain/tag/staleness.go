package tag

import "time"

// IsStale reports whether the tag's owner has exceeded the configured
// reminder cadence as of now. A tag without a cadence is never stale.
// A tag with a cadence but no recorded contact is always stale. Exactly
// at the cadence boundary counts as stale.
func (t *Tag) IsStale(now time.Time) bool {
	if t.FrequencyDays == nil {
		return false
	}
	if t.LastContact == nil {
		return true
	}
	deadline := t.LastContact.Add(time.Duration(*t.FrequencyDays) * 24 * time.Hour)
	return !now.UTC().Before(deadline)
}

// AnyStale reports whether at least one of the tags is stale. An entity
// "needs attention" when any of its own tags is stale.
func AnyStale(tags []Tag, now time.Time) bool {
	for i := range tags {
		if tags[i].IsStale(now) {
			return true
		}
	}
	return false
}

// FilterStale returns the stale subset of tags as of now.
func FilterStale(tags []Tag, now time.Time) []Tag {
	stale := make([]Tag, 0)
	for i := range tags {
		if tags[i].IsStale(now) {
			stale = append(stale, tags[i])
		}
	}
	return stale
}

// Package timeutil converts incoming timestamps to canonical UTC instants.
//
// Entities store instants only; re-deriving the original local wall-clock
// time later requires retaining the zone identifier alongside the instant.
package timeutil

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
)

// ToUTC converts a zone-aware timestamp to its UTC instant.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Normalize reinterprets the wall-clock fields of naive in the named IANA
// zone and returns the corresponding UTC instant. The location attached to
// naive is ignored; callers that parsed a zone-less value hold a time whose
// location is meaningless, and trusting it would silently assume a default.
// An empty zone fails with shared.ErrAmbiguousTime; there is no fallback.
func Normalize(naive time.Time, zone string) (time.Time, error) {
	if zone == "" {
		return time.Time{}, shared.ErrAmbiguousTime
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, shared.NewValidationError("timezone", "unknown IANA zone: "+zone)
	}
	local := time.Date(
		naive.Year(), naive.Month(), naive.Day(),
		naive.Hour(), naive.Minute(), naive.Second(), naive.Nanosecond(),
		loc,
	)
	return local.UTC(), nil
}

// ParseNaive parses a zone-less timestamp string and normalizes it to UTC
// using the named zone.
func ParseNaive(layout, value, zone string) (time.Time, error) {
	if zone == "" {
		return time.Time{}, shared.ErrAmbiguousTime
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, shared.NewValidationError("timezone", "unknown IANA zone: "+zone)
	}
	t, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return time.Time{}, shared.NewValidationError("timestamp", err.Error())
	}
	return t.UTC(), nil
}

// ValidateZone reports whether zone names a loadable IANA location.
func ValidateZone(zone string) error {
	if zone == "" {
		return shared.ErrAmbiguousTime
	}
	if _, err := time.LoadLocation(zone); err != nil {
		return shared.NewValidationError("timezone", "unknown IANA zone: "+zone)
	}
	return nil
}

package timeutil

import (
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUTC(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	tokyo := time.Date(2024, 3, 15, 9, 0, 0, 0, loc)
	utc := ToUTC(tokyo)

	assert.Equal(t, time.UTC, utc.Location())
	assert.True(t, utc.Equal(tokyo))
	assert.Equal(t, 0, utc.Hour())
}

func TestNormalize(t *testing.T) {
	t.Run("converts winter wall-clock time with standard offset", func(t *testing.T) {
		naive := time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)

		utc, err := Normalize(naive, "Europe/Berlin")

		require.NoError(t, err)
		// CET is UTC+1 in January
		assert.Equal(t, time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC), utc)
	})

	t.Run("converts summer wall-clock time with DST offset", func(t *testing.T) {
		naive := time.Date(2024, 7, 15, 12, 0, 0, 0, time.Local)

		utc, err := Normalize(naive, "Europe/Berlin")

		require.NoError(t, err)
		// CEST is UTC+2 in July
		assert.Equal(t, time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC), utc)
	})

	t.Run("ignores location attached to the input value", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		naive := time.Date(2024, 1, 15, 12, 0, 0, 0, loc)

		utc, err := Normalize(naive, "Europe/Berlin")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC), utc)
	})

	t.Run("fails without a source zone", func(t *testing.T) {
		naive := time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)

		_, err := Normalize(naive, "")

		assert.ErrorIs(t, err, shared.ErrAmbiguousTime)
	})

	t.Run("fails with an unknown zone", func(t *testing.T) {
		naive := time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)

		_, err := Normalize(naive, "Mars/Olympus_Mons")

		require.Error(t, err)
		assert.True(t, shared.IsValidationError(err))
	})
}

func TestParseNaive(t *testing.T) {
	t.Run("parses and converts to UTC", func(t *testing.T) {
		utc, err := ParseNaive("2006-01-02 15:04:05", "2024-07-15 12:00:00", "Europe/Berlin")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC), utc)
	})

	t.Run("fails without a zone", func(t *testing.T) {
		_, err := ParseNaive("2006-01-02 15:04:05", "2024-07-15 12:00:00", "")

		assert.ErrorIs(t, err, shared.ErrAmbiguousTime)
	})

	t.Run("fails on malformed input", func(t *testing.T) {
		_, err := ParseNaive("2006-01-02 15:04:05", "not-a-timestamp", "Europe/Berlin")

		require.Error(t, err)
		assert.True(t, shared.IsValidationError(err))
	})
}

func TestValidateZone(t *testing.T) {
	assert.NoError(t, ValidateZone("Europe/Berlin"))
	assert.NoError(t, ValidateZone("UTC"))
	assert.ErrorIs(t, ValidateZone(""), shared.ErrAmbiguousTime)
	assert.Error(t, ValidateZone("Not/A_Zone"))
}

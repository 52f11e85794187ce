package tag

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTag(t *testing.T) {
	owner := ContactOwner(uuid.New())

	t.Run("creates tag with normalized name", func(t *testing.T) {
		tg, err := NewTag(owner, "#Family")

		require.NoError(t, err)
		assert.Equal(t, "#family", tg.Name)
		assert.Equal(t, owner, tg.Owner)
		assert.Nil(t, tg.FrequencyDays)
		assert.Nil(t, tg.LastContact)
		assert.NotEqual(t, uuid.Nil, tg.ID)
		assert.Len(t, tg.GetDomainEvents(), 1)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		tg, err := NewTag(owner, "  #work  ")

		require.NoError(t, err)
		assert.Equal(t, "#work", tg.Name)
	})

	t.Run("fails without the hash marker", func(t *testing.T) {
		tg, err := NewTag(owner, "family")

		assert.Error(t, err)
		assert.Nil(t, tg)
		assert.Contains(t, err.Error(), "must start with '#'")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		tg, err := NewTag(owner, "   ")

		assert.Error(t, err)
		assert.Nil(t, tg)
	})

	t.Run("fails with disallowed characters", func(t *testing.T) {
		tg, err := NewTag(owner, "#family-and-friends")

		assert.Error(t, err)
		assert.Nil(t, tg)
		assert.Contains(t, err.Error(), "lowercase letters")
	})

	t.Run("fails with bare hash", func(t *testing.T) {
		tg, err := NewTag(owner, "#")

		assert.Error(t, err)
		assert.Nil(t, tg)
	})

	t.Run("fails with invalid owner kind", func(t *testing.T) {
		tg, err := NewTag(OwnerRef{Kind: "USER", ID: uuid.New()}, "#family")

		assert.Error(t, err)
		assert.Nil(t, tg)
	})

	t.Run("fails with nil owner id", func(t *testing.T) {
		tg, err := NewTag(OwnerRef{Kind: OwnerKindNote, ID: uuid.Nil}, "#family")

		assert.Error(t, err)
		assert.Nil(t, tg)
	})
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"#family", "#family", false},
		{"#Family", "#family", false},
		{"#a_b_3", "#a_b_3", false},
		{" #ok ", "#ok", false},
		{"family", "", true},
		{"#fam ily", "", true},
		{"##double", "", true},
		{"#", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := NormalizeName(tc.raw)
		if tc.wantErr {
			assert.Error(t, err, "raw=%q", tc.raw)
		} else {
			require.NoError(t, err, "raw=%q", tc.raw)
			assert.Equal(t, tc.want, got)
		}
	}
}

func TestTagSetFrequency(t *testing.T) {
	newTag := func(t *testing.T) *Tag {
		tg, err := NewTag(ContactOwner(uuid.New()), "#friends")
		require.NoError(t, err)
		return tg
	}

	t.Run("accepts the full valid range", func(t *testing.T) {
		tg := newTag(t)

		for _, days := range []int{1, 30, 365} {
			d := days
			require.NoError(t, tg.SetFrequency(&d))
			require.NotNil(t, tg.FrequencyDays)
			assert.Equal(t, days, *tg.FrequencyDays)
		}
	})

	t.Run("rejects values outside the range", func(t *testing.T) {
		tg := newTag(t)

		for _, days := range []int{0, -1, 366, 1000} {
			d := days
			err := tg.SetFrequency(&d)
			assert.Error(t, err, "days=%d", days)
			assert.Contains(t, err.Error(), "between 1 and 365")
		}
	})

	t.Run("clearing the cadence resets last contact", func(t *testing.T) {
		tg := newTag(t)
		d := 30
		require.NoError(t, tg.SetFrequency(&d))
		tg.RecordContact(time.Now())
		require.NotNil(t, tg.LastContact)

		require.NoError(t, tg.SetFrequency(nil))

		assert.Nil(t, tg.FrequencyDays)
		assert.Nil(t, tg.LastContact)
	})

	t.Run("setting a cadence keeps last contact", func(t *testing.T) {
		tg := newTag(t)
		d := 30
		require.NoError(t, tg.SetFrequency(&d))
		tg.RecordContact(time.Now())

		d = 60
		require.NoError(t, tg.SetFrequency(&d))

		assert.NotNil(t, tg.LastContact)
	})

	t.Run("does not alias the caller's pointer", func(t *testing.T) {
		tg := newTag(t)
		d := 30
		require.NoError(t, tg.SetFrequency(&d))
		d = 999

		assert.Equal(t, 30, *tg.FrequencyDays)
	})
}

func TestTagRecordContact(t *testing.T) {
	tg, err := NewTag(NoteOwner(uuid.New()), "#checkin")
	require.NoError(t, err)

	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	local := time.Date(2024, 7, 15, 12, 0, 0, 0, loc)

	tg.RecordContact(local)

	require.NotNil(t, tg.LastContact)
	assert.Equal(t, time.UTC, tg.LastContact.Location())
	assert.True(t, tg.LastContact.Equal(local))
}

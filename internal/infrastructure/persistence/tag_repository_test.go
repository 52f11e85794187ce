package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/tag"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockTagRepository creates a GormTagRepository with a mocked SQL connection
func newMockTagRepository(t *testing.T) (*GormTagRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormTagRepository(gormDB), mock, mockDB
}

func TestGormTagRepository_FindByID(t *testing.T) {
	t.Run("finds existing tag", func(t *testing.T) {
		repo, mock, mockDB := newMockTagRepository(t)
		defer mockDB.Close()

		tagID := uuid.New()
		ownerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "owner_id", "owner_kind", "name", "version"}).
			AddRow(tagID, ownerID, "CONTACT", "#friends", 1)

		mock.ExpectQuery(`SELECT \* FROM "tags" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(tagID, 1).
			WillReturnRows(rows)

		found, err := repo.FindByID(context.Background(), tagID)

		require.NoError(t, err)
		assert.Equal(t, tagID, found.ID)
		assert.Equal(t, "#friends", found.Name)
		assert.Equal(t, tag.OwnerKindContact, found.Owner.Kind)
		assert.Equal(t, ownerID, found.Owner.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing tag", func(t *testing.T) {
		repo, mock, mockDB := newMockTagRepository(t)
		defer mockDB.Close()

		tagID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "tags" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(tagID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		found, err := repo.FindByID(context.Background(), tagID)

		assert.Nil(t, found)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTagRepository_FindForOwner(t *testing.T) {
	t.Run("pairs the owner ID with its kind", func(t *testing.T) {
		repo, mock, mockDB := newMockTagRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "owner_id", "owner_kind", "name", "version"}).
			AddRow(uuid.New(), ownerID, "NOTE", "#books", 1).
			AddRow(uuid.New(), ownerID, "NOTE", "#travel", 1)

		mock.ExpectQuery(`SELECT \* FROM "tags" WHERE owner_id = \$1 AND owner_kind = \$2 ORDER BY name ASC`).
			WithArgs(ownerID, "NOTE").
			WillReturnRows(rows)

		tags, err := repo.FindForOwner(context.Background(), tag.NoteOwner(ownerID))

		require.NoError(t, err)
		require.Len(t, tags, 2)
		assert.Equal(t, "#books", tags[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects invalid owner reference", func(t *testing.T) {
		repo, _, mockDB := newMockTagRepository(t)
		defer mockDB.Close()

		_, err := repo.FindForOwner(context.Background(), tag.OwnerRef{Kind: "BOOK", ID: uuid.New()})
		assert.True(t, shared.IsValidationError(err))
	})
}

func TestGormTagRepository_Delete(t *testing.T) {
	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockTagRepository(t)
		defer mockDB.Close()

		tagID := uuid.New()
		mock.ExpectExec(`DELETE FROM "tags" WHERE id = \$1`).
			WithArgs(tagID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), tagID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTagRepository_NaturalKeyUnique(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormTagRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	first, err := tag.NewTag(tag.ContactOwner(ownerID), "#friends")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	t.Run("same name on the same owner fails", func(t *testing.T) {
		dup, err := tag.NewTag(tag.ContactOwner(ownerID), "#friends")
		require.NoError(t, err)

		err = repo.Save(ctx, dup)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("same name on another owner is a separate row", func(t *testing.T) {
		other, err := tag.NewTag(tag.ContactOwner(uuid.New()), "#friends")
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, other))

		filter := shared.DefaultFilter()
		byName, err := repo.FindByName(ctx, "#friends", filter)
		require.NoError(t, err)
		assert.Len(t, byName, 2)
	})
}

func TestGormTagRepository_FindStale(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormTagRepository(db)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	days := 30

	save := func(name string, lastContact *time.Time, withFrequency bool) *tag.Tag {
		t.Helper()
		tg, err := tag.NewTag(tag.ContactOwner(uuid.New()), name)
		require.NoError(t, err)
		if withFrequency {
			require.NoError(t, tg.SetFrequency(&days))
		}
		if lastContact != nil {
			tg.RecordContact(*lastContact)
		}
		require.NoError(t, repo.Save(ctx, tg))
		return tg
	}

	over := now.AddDate(0, 0, -31)
	exact := now.AddDate(0, 0, -30)
	under := now.AddDate(0, 0, -29)

	overdue := save("#overdue", &over, true)
	boundary := save("#boundary", &exact, true)
	save("#fresh", &under, true)
	neverContacted := save("#never", nil, true)
	save("#nocadence", nil, false)

	stale, err := repo.FindStale(ctx, now)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, tg := range stale {
		names[tg.Name] = true
	}
	assert.True(t, names[overdue.Name])
	assert.True(t, names[boundary.Name], "the exact cadence boundary counts as stale")
	assert.True(t, names[neverContacted.Name])
	assert.False(t, names["#fresh"])
	assert.False(t, names["#nocadence"])
}

func TestGormTagRepository_DeleteForOwner(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormTagRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	for _, name := range []string{"#one", "#two"} {
		tg, err := tag.NewTag(tag.NoteOwner(ownerID), name)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, tg))
	}

	// same ID under a different kind must not be touched
	contactTag, err := tag.NewTag(tag.ContactOwner(ownerID), "#one")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, contactTag))

	require.NoError(t, repo.DeleteForOwner(ctx, tag.NoteOwner(ownerID)))

	remaining, err := repo.FindForOwner(ctx, tag.NoteOwner(ownerID))
	require.NoError(t, err)
	assert.Empty(t, remaining)

	kept, err := repo.FindForOwner(ctx, tag.ContactOwner(ownerID))
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

package persistence

import (
	"testing"

	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupJournalTestDB opens an in-memory SQLite database with the full
// journal schema migrated.
func setupJournalTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.ContactModel{},
		&models.NoteModel{},
		&models.StatementModel{},
		&models.TagModel{},
		&models.ReminderModel{},
		&models.TemplateVersionModel{},
	)
	require.NoError(t, err)

	return db
}

package persistence

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstTemplateVersion(t *testing.T) *template.TemplateVersion {
	t.Helper()
	tv, err := template.NewTemplateVersion(map[string]template.FieldDefinition{
		"birthday": {Type: template.FieldTypeDate},
		"employer": {Type: template.FieldTypeText, Required: true},
	})
	require.NoError(t, err)
	return tv
}

func TestGormTemplateVersionRepository_SaveAndFind(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormTemplateVersionRepository(db)
	ctx := context.Background()

	tv := firstTemplateVersion(t)
	require.NoError(t, repo.Save(ctx, tv))

	found, err := repo.FindByVersion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, tv.ID, found.ID)
	assert.Equal(t, 1, found.Version)
	require.Contains(t, found.Categories, "employer")
	assert.True(t, found.Categories["employer"].Required)
	assert.Equal(t, template.FieldTypeDate, found.Categories["birthday"].Type)
	assert.Empty(t, found.RemovedFields)
}

func TestGormTemplateVersionRepository_AppendOnly(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormTemplateVersionRepository(db)
	ctx := context.Background()

	tv := firstTemplateVersion(t)
	require.NoError(t, repo.Save(ctx, tv))

	t.Run("duplicate version number fails", func(t *testing.T) {
		dup := firstTemplateVersion(t)
		err := repo.Save(ctx, dup)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("successor records removed fields", func(t *testing.T) {
		successor, err := tv.NewSuccessor(map[string]template.FieldDefinition{
			"employer": {Type: template.FieldTypeText, Required: true},
			"website":  {Type: template.FieldTypeText},
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, successor))

		found, err := repo.FindByVersion(ctx, 2)
		require.NoError(t, err)
		require.Contains(t, found.RemovedFields, "birthday")
		assert.Equal(t, template.FieldTypeDate, found.RemovedFields["birthday"].Type)
	})
}

func TestGormTemplateVersionRepository_FindCurrent(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormTemplateVersionRepository(db)
	ctx := context.Background()

	t.Run("empty store yields ErrNotFound", func(t *testing.T) {
		_, err := repo.FindCurrent(ctx)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("returns the highest version", func(t *testing.T) {
		tv := firstTemplateVersion(t)
		require.NoError(t, repo.Save(ctx, tv))

		successor, err := tv.NewSuccessor(map[string]template.FieldDefinition{
			"employer": {Type: template.FieldTypeText, Required: true},
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, successor))

		current, err := repo.FindCurrent(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, current.Version)

		filter := shared.DefaultFilter()
		all, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, 1, all[0].Version)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

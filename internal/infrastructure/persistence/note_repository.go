package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/tag"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNoteRepository implements NoteRepository using GORM. It serves
// callers working on a single note aggregate; notes saved through
// their contact go through GormContactRepository instead.
type GormNoteRepository struct {
	db            *gorm.DB
	cascadePolicy tag.CascadePolicy
}

// NewGormNoteRepository creates a new GormNoteRepository with the
// default cascade policy: tag rows are deleted with their owner.
func NewGormNoteRepository(db *gorm.DB) *GormNoteRepository {
	return &GormNoteRepository{db: db, cascadePolicy: tag.CascadeDelete}
}

// WithCascadePolicy returns a copy of the repository using the given
// policy for tag rows on owner deletion.
func (r *GormNoteRepository) WithCascadePolicy(policy tag.CascadePolicy) *GormNoteRepository {
	return &GormNoteRepository{db: r.db, cascadePolicy: policy}
}

// FindByID finds a note with statements and tags eagerly loaded;
// statements come back ordered by sequence number.
func (r *GormNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Note, error) {
	var model models.NoteModel
	if err := r.db.WithContext(ctx).
		Preload("Statements", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_number ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateDBError("find note", err)
	}

	n := model.ToDomain()
	if err := loadNoteTags(r.db.WithContext(ctx), []*contact.Note{n}); err != nil {
		return nil, translateDBError("load tags", err)
	}
	return n, nil
}

// FindByContact finds all notes of a contact in creation order
func (r *GormNoteRepository) FindByContact(ctx context.Context, contactID uuid.UUID, filter shared.Filter) ([]contact.Note, error) {
	var noteModels []models.NoteModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.NoteModel{}).Where("contact_id = ?", contactID),
		filter,
	)
	if err := query.Find(&noteModels).Error; err != nil {
		return nil, translateDBError("find notes by contact", err)
	}

	return toDomainNotes(noteModels), nil
}

// FindInteractions finds a contact's interaction records
func (r *GormNoteRepository) FindInteractions(ctx context.Context, contactID uuid.UUID, filter shared.Filter) ([]contact.Note, error) {
	var noteModels []models.NoteModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.NoteModel{}).
			Where("contact_id = ? AND is_interaction = ?", contactID, true),
		filter,
	)
	if err := query.Find(&noteModels).Error; err != nil {
		return nil, translateDBError("find interactions", err)
	}

	return toDomainNotes(noteModels), nil
}

// FindByTag finds notes carrying the normalized tag name
func (r *GormNoteRepository) FindByTag(ctx context.Context, name string) ([]contact.Note, error) {
	normalized, err := tag.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	var ownerIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.TagModel{}).
		Where("name = ? AND owner_kind = ?", normalized, string(tag.OwnerKindNote)).
		Order("created_at ASC").
		Pluck("owner_id", &ownerIDs).Error; err != nil {
		return nil, translateDBError("find notes by tag", err)
	}

	return r.findByIDs(ctx, ownerIDs)
}

// FindStale finds notes with at least one stale tag as of now
func (r *GormNoteRepository) FindStale(ctx context.Context, now time.Time) ([]contact.Note, error) {
	var tagModels []models.TagModel
	if err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND frequency_days IS NOT NULL", string(tag.OwnerKindNote)).
		Order("created_at ASC").
		Find(&tagModels).Error; err != nil {
		return nil, translateDBError("find stale notes", err)
	}

	seen := make(map[uuid.UUID]bool)
	var ownerIDs []uuid.UUID
	for i := range tagModels {
		t := tagModels[i].ToDomain()
		if t.IsStale(now) && !seen[t.Owner.ID] {
			seen[t.Owner.ID] = true
			ownerIDs = append(ownerIDs, t.Owner.ID)
		}
	}

	return r.findByIDs(ctx, ownerIDs)
}

// Save creates or updates the note and its statements and tag
// attachments in one transaction
func (r *GormNoteRepository) Save(ctx context.Context, n *contact.Note) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveNoteTree(tx, r.cascadePolicy, n)
	})
	return translateDBError("save note", err)
}

// SaveWithLock saves with optimistic locking and fails with
// shared.ErrConcurrencyConflict on a stale version
func (r *GormNoteRepository) SaveWithLock(ctx context.Context, n *contact.Note) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.NoteModel
		if err := tx.Select("version").First(&current, "id = ?", n.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if current.Version != n.Version {
			return shared.ErrConcurrencyConflict
		}

		n.IncrementVersion()
		n.Touch()
		return saveNoteTree(tx, r.cascadePolicy, n)
	})
	return translateDBError("save note", err)
}

// Delete cascades over the note's statements and removes tag
// attachments, in one transaction
func (r *GormNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.NoteModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return deleteNoteSubtrees(tx, r.cascadePolicy, []uuid.UUID{id})
	})
	return translateDBError("delete note", err)
}

// Count counts notes matching the filter
func (r *GormNoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.NoteModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, translateDBError("count notes", err)
	}
	return count, nil
}

// findByIDs loads full note aggregates for the given IDs, skipping rows
// that vanished between the lookup and the load.
func (r *GormNoteRepository) findByIDs(ctx context.Context, ids []uuid.UUID) ([]contact.Note, error) {
	notes := make([]contact.Note, 0, len(ids))
	for _, id := range ids {
		n, err := r.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, nil
}

// applyFilter applies filter options to the query
func (r *GormNoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, NoteSortFields, "created_at")
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) == "desc" {
		orderDir = "DESC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormNoteRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(content) LIKE ?", pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "contact_id":
			query = query.Where("contact_id = ?", value)
		case "is_interaction":
			query = query.Where("is_interaction = ?", value)
		}
	}

	return query
}

func toDomainNotes(noteModels []models.NoteModel) []contact.Note {
	notes := make([]contact.Note, len(noteModels))
	for i, model := range noteModels {
		notes[i] = *model.ToDomain()
	}
	return notes
}

// Ensure GormNoteRepository implements NoteRepository
var _ contact.NoteRepository = (*GormNoteRepository)(nil)

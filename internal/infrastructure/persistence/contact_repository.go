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
	"gorm.io/gorm/clause"
)

// GormContactRepository implements ContactRepository using GORM.
// Save and Delete are transactional over the whole aggregate: the
// contact row, its notes, their statements, and the tag attachments of
// all three move to the new state together or not at all.
type GormContactRepository struct {
	db            *gorm.DB
	cascadePolicy tag.CascadePolicy
}

// NewGormContactRepository creates a new GormContactRepository with the
// default cascade policy: tag rows are deleted with their owner.
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db, cascadePolicy: tag.CascadeDelete}
}

// WithCascadePolicy returns a copy of the repository using the given
// policy for tag rows on owner deletion.
func (r *GormContactRepository) WithCascadePolicy(policy tag.CascadePolicy) *GormContactRepository {
	return &GormContactRepository{db: r.db, cascadePolicy: policy}
}

// FindByID finds a contact with notes, statements, and tags eagerly
// loaded. Notes come back in creation order, statements by sequence
// number, so iteration order always matches append order.
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Notes.Statements", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_number ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateDBError("find contact", err)
	}

	c := model.ToDomain()
	if err := r.loadTags(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// FindAll finds all contacts matching the filter, children excluded
func (r *GormContactRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contact.Contact, error) {
	var contactModels []models.ContactModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContactModel{}), filter)

	if err := query.Find(&contactModels).Error; err != nil {
		return nil, translateDBError("find contacts", err)
	}

	contacts := make([]contact.Contact, len(contactModels))
	for i, model := range contactModels {
		contacts[i] = *model.ToDomain()
	}
	return contacts, nil
}

// FindByTag finds contacts carrying the normalized tag name
func (r *GormContactRepository) FindByTag(ctx context.Context, name string) ([]contact.Contact, error) {
	normalized, err := tag.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	var ownerIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.TagModel{}).
		Where("name = ? AND owner_kind = ?", normalized, string(tag.OwnerKindContact)).
		Order("created_at ASC").
		Pluck("owner_id", &ownerIDs).Error; err != nil {
		return nil, translateDBError("find contacts by tag", err)
	}

	return r.findByIDs(ctx, ownerIDs)
}

// FindStale finds contacts with at least one stale tag as of now. The
// query narrows to tags carrying a cadence; the staleness rule itself
// runs in the domain.
func (r *GormContactRepository) FindStale(ctx context.Context, now time.Time) ([]contact.Contact, error) {
	var tagModels []models.TagModel
	if err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND frequency_days IS NOT NULL", string(tag.OwnerKindContact)).
		Order("created_at ASC").
		Find(&tagModels).Error; err != nil {
		return nil, translateDBError("find stale contacts", err)
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

// Save creates or updates the contact and all owned children in one
// transaction. Notes and statements removed from the aggregate are
// deleted together with their tag attachments.
func (r *GormContactRepository) Save(ctx context.Context, c *contact.Contact) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.ContactModelFromDomain(c)
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return r.saveChildren(tx, c)
	})
	return translateDBError("save contact", err)
}

// SaveWithLock saves with optimistic locking: the write only lands when
// the stored version still matches the version the aggregate was loaded
// with, and fails with shared.ErrConcurrencyConflict otherwise.
func (r *GormContactRepository) SaveWithLock(ctx context.Context, c *contact.Contact) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.ContactModel
		if err := tx.Select("version").First(&current, "id = ?", c.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		currentVersion := current.Version
		if currentVersion != c.Version {
			return shared.ErrConcurrencyConflict
		}

		c.IncrementVersion()
		c.Touch()

		model := models.ContactModelFromDomain(c)
		result := tx.Model(&models.ContactModel{}).
			Where("id = ? AND version = ?", c.ID, currentVersion).
			Updates(map[string]interface{}{
				"name":            model.Name,
				"first_name":      model.FirstName,
				"briefing_text":   model.BriefingText,
				"sub_information": model.SubInformation,
				"version":         model.Version,
				"updated_at":      model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.saveChildren(tx, c)
	})
	return translateDBError("save contact", err)
}

// Delete cascades over the contact's subtree: statements first, then
// notes, then the contact itself, with tag attachments handled per the
// cascade policy.
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var noteIDs []uuid.UUID
		if err := tx.Model(&models.NoteModel{}).
			Where("contact_id = ?", id).
			Pluck("id", &noteIDs).Error; err != nil {
			return err
		}

		if err := deleteNoteSubtrees(tx, r.cascadePolicy, noteIDs); err != nil {
			return err
		}
		if err := deleteOwnerTags(tx, r.cascadePolicy, string(tag.OwnerKindContact), []uuid.UUID{id}); err != nil {
			return err
		}

		result := tx.Delete(&models.ContactModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	return translateDBError("delete contact", err)
}

// Count counts contacts matching the filter
func (r *GormContactRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ContactModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, translateDBError("count contacts", err)
	}
	return count, nil
}

// saveChildren reconciles the stored note and statement rows with the
// aggregate's current children and re-syncs tag attachments at every
// level.
func (r *GormContactRepository) saveChildren(tx *gorm.DB, c *contact.Contact) error {
	currentNoteIDs := make([]uuid.UUID, len(c.Notes))
	for i := range c.Notes {
		currentNoteIDs[i] = c.Notes[i].ID
	}

	var removedNoteIDs []uuid.UUID
	query := tx.Model(&models.NoteModel{}).Where("contact_id = ?", c.ID)
	if len(currentNoteIDs) > 0 {
		query = query.Where("id NOT IN ?", currentNoteIDs)
	}
	if err := query.Pluck("id", &removedNoteIDs).Error; err != nil {
		return err
	}
	if err := deleteNoteSubtrees(tx, r.cascadePolicy, removedNoteIDs); err != nil {
		return err
	}

	for i := range c.Notes {
		c.Notes[i].ContactID = c.ID
		if err := saveNoteTree(tx, r.cascadePolicy, &c.Notes[i]); err != nil {
			return err
		}
	}

	return syncOwnerTags(tx, tag.ContactOwner(c.ID), c.Tags)
}

// loadTags attaches stored tag rows to the contact, its notes, and
// their statements.
func (r *GormContactRepository) loadTags(ctx context.Context, c *contact.Contact) error {
	ownerIDs := []uuid.UUID{c.ID}
	for i := range c.Notes {
		ownerIDs = append(ownerIDs, c.Notes[i].ID)
		for j := range c.Notes[i].Statements {
			ownerIDs = append(ownerIDs, c.Notes[i].Statements[j].ID)
		}
	}

	var tagModels []models.TagModel
	if err := r.db.WithContext(ctx).
		Where("owner_id IN ?", ownerIDs).
		Order("name ASC").
		Find(&tagModels).Error; err != nil {
		return translateDBError("load tags", err)
	}

	byOwner := bucketTagsByOwner(tagModels)
	c.Tags = byOwner[ownerKey{kind: string(tag.OwnerKindContact), id: c.ID}]
	for i := range c.Notes {
		n := &c.Notes[i]
		n.Tags = byOwner[ownerKey{kind: string(tag.OwnerKindNote), id: n.ID}]
		for j := range n.Statements {
			s := &n.Statements[j]
			s.Tags = byOwner[ownerKey{kind: string(tag.OwnerKindStatement), id: s.ID}]
		}
	}
	return nil
}

// findByIDs loads full aggregates for the given IDs, skipping rows that
// vanished between the lookup and the load.
func (r *GormContactRepository) findByIDs(ctx context.Context, ids []uuid.UUID) ([]contact.Contact, error) {
	contacts := make([]contact.Contact, 0, len(ids))
	for _, id := range ids {
		c, err := r.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, nil
}

// applyFilter applies filter options to the query
func (r *GormContactRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ContactSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormContactRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(first_name) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "name":
			query = query.Where("name = ?", value)
		case "first_name":
			query = query.Where("first_name = ?", value)
		}
	}

	return query
}

// Ensure GormContactRepository implements ContactRepository
var _ contact.ContactRepository = (*GormContactRepository)(nil)

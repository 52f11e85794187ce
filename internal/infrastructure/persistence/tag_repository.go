package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/tag"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTagRepository implements TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GormTagRepository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// FindByID finds a tag by its ID
func (r *GormTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*tag.Tag, error) {
	var model models.TagModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateDBError("find tag", err)
	}
	return model.ToDomain(), nil
}

// FindForOwner finds all tags attached to the given owner. The kind is
// part of the lookup: IDs are not namespaced across entity types.
func (r *GormTagRepository) FindForOwner(ctx context.Context, owner tag.OwnerRef) ([]tag.Tag, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	var tagModels []models.TagModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND owner_kind = ?", owner.ID, string(owner.Kind)).
		Order("name ASC").
		Find(&tagModels).Error; err != nil {
		return nil, translateDBError("find tags for owner", err)
	}

	return toDomainTags(tagModels), nil
}

// FindByName finds all attachments of the normalized name across owners
func (r *GormTagRepository) FindByName(ctx context.Context, name string, filter shared.Filter) ([]tag.Tag, error) {
	normalized, err := tag.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	var tagModels []models.TagModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TagModel{}).Where("name = ?", normalized),
		filter,
	)
	if err := query.Find(&tagModels).Error; err != nil {
		return nil, translateDBError("find tags by name", err)
	}

	return toDomainTags(tagModels), nil
}

// FindWithFrequency finds all tags that carry a reminder cadence
func (r *GormTagRepository) FindWithFrequency(ctx context.Context) ([]tag.Tag, error) {
	var tagModels []models.TagModel
	if err := r.db.WithContext(ctx).
		Where("frequency_days IS NOT NULL").
		Order("name ASC").
		Find(&tagModels).Error; err != nil {
		return nil, translateDBError("find tags with frequency", err)
	}

	return toDomainTags(tagModels), nil
}

// FindStale finds all tags whose cadence has lapsed as of now. The
// cadence comparison runs in Go so the rule lives in one place and the
// query stays portable across dialects.
func (r *GormTagRepository) FindStale(ctx context.Context, now time.Time) ([]tag.Tag, error) {
	candidates, err := r.FindWithFrequency(ctx)
	if err != nil {
		return nil, err
	}
	return tag.FilterStale(candidates, now), nil
}

// Save creates or updates a tag. A duplicate natural key
// (owner_id, owner_kind, name) fails with shared.ErrAlreadyExists.
func (r *GormTagRepository) Save(ctx context.Context, t *tag.Tag) error {
	model := models.TagModelFromDomain(t)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateDBError("save tag", err)
	}
	return nil
}

// Delete deletes a tag attachment
func (r *GormTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TagModel{}, "id = ?", id)
	if result.Error != nil {
		return translateDBError("delete tag", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForOwner deletes all tag attachments of the given owner
func (r *GormTagRepository) DeleteForOwner(ctx context.Context, owner tag.OwnerRef) error {
	if err := owner.Validate(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).
		Delete(&models.TagModel{}, "owner_id = ? AND owner_kind = ?", owner.ID, string(owner.Kind)).Error; err != nil {
		return translateDBError("delete tags for owner", err)
	}
	return nil
}

// Count counts tags matching the filter
func (r *GormTagRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.TagModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, translateDBError("count tags", err)
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormTagRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TagSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTagRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "owner_kind":
			query = query.Where("owner_kind = ?", value)
		case "owner_id":
			query = query.Where("owner_id = ?", value)
		case "has_frequency":
			if value == true {
				query = query.Where("frequency_days IS NOT NULL")
			} else {
				query = query.Where("frequency_days IS NULL")
			}
		}
	}

	return query
}

func toDomainTags(tagModels []models.TagModel) []tag.Tag {
	tags := make([]tag.Tag, len(tagModels))
	for i, model := range tagModels {
		tags[i] = *model.ToDomain()
	}
	return tags
}

// Ensure GormTagRepository implements TagRepository
var _ tag.TagRepository = (*GormTagRepository)(nil)

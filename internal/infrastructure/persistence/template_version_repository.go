package persistence

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/template"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTemplateVersionRepository implements TemplateVersionRepository
// using GORM. The store is append-only: Save only ever inserts.
type GormTemplateVersionRepository struct {
	db *gorm.DB
}

// NewGormTemplateVersionRepository creates a new GormTemplateVersionRepository
func NewGormTemplateVersionRepository(db *gorm.DB) *GormTemplateVersionRepository {
	return &GormTemplateVersionRepository{db: db}
}

// FindByID finds a template version by its ID
func (r *GormTemplateVersionRepository) FindByID(ctx context.Context, id uuid.UUID) (*template.TemplateVersion, error) {
	var model models.TemplateVersionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateDBError("find template version", err)
	}
	return model.ToDomain()
}

// FindByVersion finds a template version by its version number
func (r *GormTemplateVersionRepository) FindByVersion(ctx context.Context, version int) (*template.TemplateVersion, error) {
	var model models.TemplateVersionModel
	if err := r.db.WithContext(ctx).First(&model, "version = ?", version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateDBError("find template version", err)
	}
	return model.ToDomain()
}

// FindCurrent finds the highest version
func (r *GormTemplateVersionRepository) FindCurrent(ctx context.Context) (*template.TemplateVersion, error) {
	var model models.TemplateVersionModel
	if err := r.db.WithContext(ctx).
		Order("version DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateDBError("find current template version", err)
	}
	return model.ToDomain()
}

// FindAll lists all versions ordered by version number
func (r *GormTemplateVersionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]template.TemplateVersion, error) {
	var versionModels []models.TemplateVersionModel
	query := r.db.WithContext(ctx).Model(&models.TemplateVersionModel{}).Order("version ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&versionModels).Error; err != nil {
		return nil, translateDBError("find template versions", err)
	}

	versions := make([]template.TemplateVersion, len(versionModels))
	for i := range versionModels {
		tv, err := versionModels[i].ToDomain()
		if err != nil {
			return nil, translateDBError("find template versions", err)
		}
		versions[i] = *tv
	}
	return versions, nil
}

// Save inserts a new version. A duplicate version number fails with
// shared.ErrAlreadyExists.
func (r *GormTemplateVersionRepository) Save(ctx context.Context, tv *template.TemplateVersion) error {
	model, err := models.TemplateVersionModelFromDomain(tv)
	if err != nil {
		return translateDBError("save template version", err)
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateDBError("save template version", err)
	}
	return nil
}

// Count counts stored versions
func (r *GormTemplateVersionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TemplateVersionModel{}).Count(&count).Error; err != nil {
		return 0, translateDBError("count template versions", err)
	}
	return count, nil
}

// Ensure GormTemplateVersionRepository implements TemplateVersionRepository
var _ template.TemplateVersionRepository = (*GormTemplateVersionRepository)(nil)

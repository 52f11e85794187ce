package template

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TemplateVersionRepository defines the interface for template version
// persistence. The store is append-only: versions are never updated in
// place, superseding means inserting the successor.
type TemplateVersionRepository interface {
	// FindByID finds a template version by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*TemplateVersion, error)

	// FindByVersion finds a template version by its version number
	FindByVersion(ctx context.Context, version int) (*TemplateVersion, error)

	// FindCurrent finds the highest version
	FindCurrent(ctx context.Context) (*TemplateVersion, error)

	// FindAll lists all versions ordered by version number
	FindAll(ctx context.Context, filter shared.Filter) ([]TemplateVersion, error)

	// Save inserts a new version. A duplicate version number fails with
	// shared.ErrAlreadyExists.
	Save(ctx context.Context, tv *TemplateVersion) error

	// Count counts stored versions
	Count(ctx context.Context) (int64, error)
}

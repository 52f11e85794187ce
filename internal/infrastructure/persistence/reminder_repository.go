package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/reminder"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReminderRepository implements ReminderRepository using GORM
type GormReminderRepository struct {
	db *gorm.DB
}

// NewGormReminderRepository creates a new GormReminderRepository
func NewGormReminderRepository(db *gorm.DB) *GormReminderRepository {
	return &GormReminderRepository{db: db}
}

// FindByID finds a reminder by its ID
func (r *GormReminderRepository) FindByID(ctx context.Context, id uuid.UUID) (*reminder.Reminder, error) {
	var model models.ReminderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateDBError("find reminder", err)
	}
	return model.ToDomain(), nil
}

// FindByContact finds all reminders of a contact
func (r *GormReminderRepository) FindByContact(ctx context.Context, contactID uuid.UUID, filter shared.Filter) ([]reminder.Reminder, error) {
	var reminderModels []models.ReminderModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ReminderModel{}).Where("contact_id = ?", contactID),
		filter,
	)
	if err := query.Find(&reminderModels).Error; err != nil {
		return nil, translateDBError("find reminders by contact", err)
	}

	return toDomainReminders(reminderModels), nil
}

// FindPending finds all pending reminders
func (r *GormReminderRepository) FindPending(ctx context.Context, filter shared.Filter) ([]reminder.Reminder, error) {
	var reminderModels []models.ReminderModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ReminderModel{}).
			Where("status = ?", string(reminder.StatusPending)),
		filter,
	)
	if err := query.Find(&reminderModels).Error; err != nil {
		return nil, translateDBError("find pending reminders", err)
	}

	return toDomainReminders(reminderModels), nil
}

// FindDue finds pending reminders whose due instant has passed. The
// lookup is pull-based; nothing fires on its own.
func (r *GormReminderRepository) FindDue(ctx context.Context, now time.Time) ([]reminder.Reminder, error) {
	var reminderModels []models.ReminderModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due_at <= ?", string(reminder.StatusPending), now.UTC()).
		Order("due_at ASC").
		Find(&reminderModels).Error; err != nil {
		return nil, translateDBError("find due reminders", err)
	}

	return toDomainReminders(reminderModels), nil
}

// Save creates or updates a reminder
func (r *GormReminderRepository) Save(ctx context.Context, rem *reminder.Reminder) error {
	model := models.ReminderModelFromDomain(rem)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateDBError("save reminder", err)
	}
	return nil
}

// SaveWithLock saves with optimistic locking and fails with
// shared.ErrConcurrencyConflict on a stale version
func (r *GormReminderRepository) SaveWithLock(ctx context.Context, rem *reminder.Reminder) error {
	var current models.ReminderModel
	if err := r.db.WithContext(ctx).Select("version").First(&current, "id = ?", rem.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return translateDBError("save reminder", err)
	}
	if current.Version != rem.Version {
		return shared.ErrConcurrencyConflict
	}

	rem.IncrementVersion()
	rem.Touch()

	model := models.ReminderModelFromDomain(rem)
	result := r.db.WithContext(ctx).
		Model(&models.ReminderModel{}).
		Where("id = ? AND version = ?", rem.ID, current.Version).
		Updates(map[string]interface{}{
			"contact_id":          model.ContactID,
			"note_id":             model.NoteID,
			"text":                model.Text,
			"due_at":              model.DueAt,
			"due_timezone":        model.DueTimezone,
			"recurrence_interval": model.RecurrenceInterval,
			"recurrence_unit":     model.RecurrenceUnit,
			"recurrence_end_at":   model.RecurrenceEndAt,
			"status":              model.Status,
			"completed_at":        model.CompletedAt,
			"completion_timezone": model.CompletionTimezone,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		return translateDBError("save reminder", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a reminder
func (r *GormReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReminderModel{}, "id = ?", id)
	if result.Error != nil {
		return translateDBError("delete reminder", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByContact deletes all reminders of a contact
func (r *GormReminderRepository) DeleteByContact(ctx context.Context, contactID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.ReminderModel{}, "contact_id = ?", contactID).Error; err != nil {
		return translateDBError("delete reminders by contact", err)
	}
	return nil
}

// Count counts reminders matching the filter
func (r *GormReminderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ReminderModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, translateDBError("count reminders", err)
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormReminderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ReminderSortFields, "due_at")
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) == "desc" {
		orderDir = "DESC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReminderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(text) LIKE ?", pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "contact_id":
			query = query.Where("contact_id = ?", value)
		case "note_id":
			query = query.Where("note_id = ?", value)
		}
	}

	return query
}

func toDomainReminders(reminderModels []models.ReminderModel) []reminder.Reminder {
	reminders := make([]reminder.Reminder, len(reminderModels))
	for i, model := range reminderModels {
		reminders[i] = *model.ToDomain()
	}
	return reminders
}

// Ensure GormReminderRepository implements ReminderRepository
var _ reminder.ReminderRepository = (*GormReminderRepository)(nil)

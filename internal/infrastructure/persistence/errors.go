package persistence

import (
	"errors"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateDBError maps driver-level failures onto the domain error
// taxonomy so callers never depend on GORM sentinel values. The string
// checks cover drivers running without GORM's error translation
// (sqlite in tests reports unique violations as plain messages).
func translateDBError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed") {
		return shared.ErrAlreadyExists
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return shared.NewPersistenceError(operation, err)
}

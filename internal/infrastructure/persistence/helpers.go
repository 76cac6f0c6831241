package persistence

import (
	"errors"
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds SELECT ... FOR UPDATE
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// byPosition preloads child lines in their stored order
func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// findErr maps gorm's not-found onto the domain error for entity
func findErr(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NotFound(entity, id)
	}
	return shared.AsStorageError(err)
}

// updateVersioned writes every column of model when the stored row still
// has the expected version. The model must already carry expected+1.
func updateVersioned(db *gorm.DB, model any, expected int) error {
	res := db.Model(model).
		Where("version = ?", expected).
		Select("*").
		Omit(clause.Associations, "created_at").
		Updates(model)
	if res.Error != nil {
		return shared.AsStorageError(res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// deleteByID removes one row of model's table, NOT_FOUND when nothing matched
func deleteByID(db *gorm.DB, model any, entity string, id uuid.UUID) error {
	res := db.Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return shared.AsStorageError(res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.NotFound(entity, id)
	}
	return nil
}

// ValidateSortOrder normalizes a sort direction to ASC or DESC, DESC by default
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns field when it is whitelisted, otherwise def
func ValidateSortField(field string, allowed map[string]bool, def string) string {
	field = strings.TrimSpace(field)
	if allowed[field] {
		return field
	}
	return def
}

// SaleSortFields lists the columns sales may be ordered by
var SaleSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"sale_number":  true,
	"total_amount": true,
	"status":       true,
}

package persistence

import (
	"context"
	"reflect"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements trade.SaleRepository
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a sale repository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale with its lines
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate locks the sale row; lines are read under the same lock
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	return r.find(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormSaleRepository) find(db *gorm.DB, id uuid.UUID) (*trade.Sale, error) {
	var m models.SaleModel
	if err := db.Preload("Lines", byPosition).First(&m, "id = ?", id).Error; err != nil {
		return nil, findErr(err, "Sale", id)
	}
	return m.ToDomain(), nil
}

// FindAll lists sales matching filter. Supported filters are client_id and status.
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Sale, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.SaleModel{})
		if v, ok := filter.Filters["client_id"]; ok {
			q = q.Where("client_id = ?", v)
		}
		if v, ok := filter.Filters["status"]; ok {
			q = q.Where("status = ?", v)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, shared.AsStorageError(err)
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "created_at")
	var rows []models.SaleModel
	err := scoped().Preload("Lines", byPosition).
		Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: ValidateSortOrder(filter.OrderDir) == "DESC"}).
		Order("id ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, shared.AsStorageError(err)
	}

	out := make([]trade.Sale, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save inserts a new sale and its lines
func (r *GormSaleRepository) Save(ctx context.Context, s *trade.Sale) error {
	m := models.SaleModelFromDomain(s)
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(m).Error; err != nil {
		return shared.AsStorageError(err)
	}
	return insertLines(db, &m.Lines)
}

// SaveWithLock updates the sale if its version is unchanged and rewrites its lines
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, s *trade.Sale) error {
	m := models.SaleModelFromDomain(s)
	m.Version = s.Version + 1
	db := r.db.WithContext(ctx)
	if err := updateVersioned(db, m, s.Version); err != nil {
		return err
	}
	if err := replaceLines(db, &models.SaleLineModel{}, "sale_id", s.ID, &m.Lines); err != nil {
		return err
	}
	s.IncrementVersion()
	return nil
}

// Delete removes a sale and its lines
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("sale_id = ?", id).Delete(&models.SaleLineModel{}).Error; err != nil {
		return shared.AsStorageError(err)
	}
	return deleteByID(db, &models.SaleModel{}, "Sale", id)
}

// insertLines creates child rows; lines must point to a slice of models
func insertLines(db *gorm.DB, lines any) error {
	if reflect.Indirect(reflect.ValueOf(lines)).Len() == 0 {
		return nil
	}
	return shared.AsStorageError(db.Create(lines).Error)
}

// replaceLines drops a parent's child rows and writes the new set
func replaceLines(db *gorm.DB, model any, parentColumn string, parentID uuid.UUID, lines any) error {
	if err := db.Where(parentColumn+" = ?", parentID).Delete(model).Error; err != nil {
		return shared.AsStorageError(err)
	}
	return insertLines(db, lines)
}

var _ trade.SaleRepository = (*GormSaleRepository)(nil)

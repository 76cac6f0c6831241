package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements trade.PurchaseOrderRepository
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a purchase order repository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order with its lines
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate locks the purchase order row
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	return r.find(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormPurchaseOrderRepository) find(db *gorm.DB, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var m models.PurchaseOrderModel
	if err := db.Preload("Lines", byPosition).First(&m, "id = ?", id).Error; err != nil {
		return nil, findErr(err, "PurchaseOrder", id)
	}
	return m.ToDomain(), nil
}

// Save inserts a new purchase order and its lines
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, o *trade.PurchaseOrder) error {
	m := models.PurchaseOrderModelFromDomain(o)
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(m).Error; err != nil {
		return shared.AsStorageError(err)
	}
	return insertLines(db, &m.Lines)
}

// SaveWithLock updates the purchase order if its version is unchanged and rewrites its lines
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, o *trade.PurchaseOrder) error {
	m := models.PurchaseOrderModelFromDomain(o)
	m.Version = o.Version + 1
	db := r.db.WithContext(ctx)
	if err := updateVersioned(db, m, o.Version); err != nil {
		return err
	}
	if err := replaceLines(db, &models.PurchaseOrderLineModel{}, "order_id", o.ID, &m.Lines); err != nil {
		return err
	}
	o.IncrementVersion()
	return nil
}

var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)

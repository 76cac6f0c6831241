package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDeliveryRepository implements trade.DeliveryRepository
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a delivery repository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindByID finds a delivery by id
func (r *GormDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Delivery, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate locks the delivery row
func (r *GormDeliveryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Delivery, error) {
	return r.find(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormDeliveryRepository) find(db *gorm.DB, id uuid.UUID) (*trade.Delivery, error) {
	var m models.DeliveryModel
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		return nil, findErr(err, "Delivery", id)
	}
	return m.ToDomain(), nil
}

// ListBySale returns the deliveries of a sale, oldest first
func (r *GormDeliveryRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]trade.Delivery, error) {
	var rows []models.DeliveryModel
	if err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, shared.AsStorageError(err)
	}
	out := make([]trade.Delivery, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountPendingBySale counts the open deliveries of a sale
func (r *GormDeliveryRepository) CountPendingBySale(ctx context.Context, saleID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.DeliveryModel{}).
		Where("sale_id = ? AND status = ?", saleID, trade.SaleStatusPending).
		Count(&n).Error
	return n, shared.AsStorageError(err)
}

// CountBySale counts every delivery of the sale
func (r *GormDeliveryRepository) CountBySale(ctx context.Context, saleID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.DeliveryModel{}).Where("sale_id = ?", saleID).Count(&n).Error
	return n, shared.AsStorageError(err)
}

// Save inserts a new delivery
func (r *GormDeliveryRepository) Save(ctx context.Context, d *trade.Delivery) error {
	if err := r.db.WithContext(ctx).Create(models.DeliveryModelFromDomain(d)).Error; err != nil {
		return shared.AsStorageError(err)
	}
	return nil
}

// SaveWithLock updates the delivery if its version is unchanged
func (r *GormDeliveryRepository) SaveWithLock(ctx context.Context, d *trade.Delivery) error {
	m := models.DeliveryModelFromDomain(d)
	m.Version = d.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), m, d.Version); err != nil {
		return err
	}
	d.IncrementVersion()
	return nil
}

var _ trade.DeliveryRepository = (*GormDeliveryRepository)(nil)

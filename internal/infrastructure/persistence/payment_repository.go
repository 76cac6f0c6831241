package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements trade.PaymentRepository
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a payment repository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by id
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Payment, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate locks the payment row
func (r *GormPaymentRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Payment, error) {
	return r.find(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormPaymentRepository) find(db *gorm.DB, id uuid.UUID) (*trade.Payment, error) {
	var m models.PaymentModel
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		return nil, findErr(err, "Payment", id)
	}
	return m.ToDomain(), nil
}

// ListBySale returns a sale's payments in the order they were made
func (r *GormPaymentRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]trade.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, shared.AsStorageError(err)
	}
	out := make([]trade.Payment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormPaymentRepository) active(ctx context.Context, saleID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("sale_id = ? AND status <> ?", saleID, trade.PaymentStatusCancelled)
}

// SumActiveBySale adds up the sale's non-cancelled payments
func (r *GormPaymentRepository) SumActiveBySale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.active(ctx, saleID).Select("SUM(amount)").Row().Scan(&sum); err != nil {
		return decimal.Zero, shared.AsStorageError(err)
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// CountActiveBySale counts the sale's non-cancelled payments
func (r *GormPaymentRepository) CountActiveBySale(ctx context.Context, saleID uuid.UUID) (int64, error) {
	var n int64
	err := r.active(ctx, saleID).Count(&n).Error
	return n, shared.AsStorageError(err)
}

// CountBySale counts every payment of the sale
func (r *GormPaymentRepository) CountBySale(ctx context.Context, saleID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).Where("sale_id = ?", saleID).Count(&n).Error
	return n, shared.AsStorageError(err)
}

// Save inserts a new payment
func (r *GormPaymentRepository) Save(ctx context.Context, p *trade.Payment) error {
	return shared.AsStorageError(r.db.WithContext(ctx).Create(models.PaymentModelFromDomain(p)).Error)
}

// SaveWithLock updates the payment if its version is unchanged
func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, p *trade.Payment) error {
	m := models.PaymentModelFromDomain(p)
	m.Version = p.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), m, p.Version); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// Delete removes a payment
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.PaymentModel{}, "Payment", id)
}

var _ trade.PaymentRepository = (*GormPaymentRepository)(nil)

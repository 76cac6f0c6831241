package persistence

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRefundRepository implements trade.RefundRepository
type GormRefundRepository struct {
	db *gorm.DB
}

// NewGormRefundRepository creates a refund repository
func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

// FindByID finds a refund by id
func (r *GormRefundRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Refund, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate locks the refund row
func (r *GormRefundRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Refund, error) {
	return r.find(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormRefundRepository) find(db *gorm.DB, id uuid.UUID) (*trade.Refund, error) {
	var m models.RefundModel
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		return nil, findErr(err, "Refund", id)
	}
	return m.ToDomain(), nil
}

// FindActiveBySaleForUpdate locks the sale's pending or partial refund
func (r *GormRefundRepository) FindActiveBySaleForUpdate(ctx context.Context, saleID uuid.UUID) (*trade.Refund, error) {
	var m models.RefundModel
	err := forUpdate(r.db.WithContext(ctx)).
		Where("sale_id = ? AND status IN ?", saleID, []trade.PaymentStatus{trade.PaymentStatusPending, trade.PaymentStatusPartial}).
		Order("created_at DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound.WithDetail("sale_id", saleID.String())
	}
	if err != nil {
		return nil, shared.AsStorageError(err)
	}
	return m.ToDomain(), nil
}

// ListBySale returns the sale's refunds, oldest first
func (r *GormRefundRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]trade.Refund, error) {
	var rows []models.RefundModel
	if err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, shared.AsStorageError(err)
	}
	out := make([]trade.Refund, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountBySale counts every refund of the sale
func (r *GormRefundRepository) CountBySale(ctx context.Context, saleID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.RefundModel{}).Where("sale_id = ?", saleID).Count(&n).Error
	return n, shared.AsStorageError(err)
}

// Save inserts a new refund
func (r *GormRefundRepository) Save(ctx context.Context, ref *trade.Refund) error {
	return shared.AsStorageError(r.db.WithContext(ctx).Create(models.RefundModelFromDomain(ref)).Error)
}

// SaveWithLock updates the refund if its version is unchanged
func (r *GormRefundRepository) SaveWithLock(ctx context.Context, ref *trade.Refund) error {
	m := models.RefundModelFromDomain(ref)
	m.Version = ref.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), m, ref.Version); err != nil {
		return err
	}
	ref.IncrementVersion()
	return nil
}

// GormRefundPaymentRepository implements trade.RefundPaymentRepository
type GormRefundPaymentRepository struct {
	db *gorm.DB
}

// NewGormRefundPaymentRepository creates a refund payment repository
func NewGormRefundPaymentRepository(db *gorm.DB) *GormRefundPaymentRepository {
	return &GormRefundPaymentRepository{db: db}
}

// FindByID finds a refund payment by id
func (r *GormRefundPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.RefundPayment, error) {
	var m models.RefundPaymentModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, findErr(err, "RefundPayment", id)
	}
	return m.ToDomain(), nil
}

// ListByRefund returns the payouts of a refund, oldest first
func (r *GormRefundPaymentRepository) ListByRefund(ctx context.Context, refundID uuid.UUID) ([]trade.RefundPayment, error) {
	var rows []models.RefundPaymentModel
	if err := r.db.WithContext(ctx).Where("refund_id = ?", refundID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, shared.AsStorageError(err)
	}
	out := make([]trade.RefundPayment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountActiveByRefund counts the refund's non-cancelled payouts
func (r *GormRefundPaymentRepository) CountActiveByRefund(ctx context.Context, refundID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.RefundPaymentModel{}).
		Where("refund_id = ? AND status <> ?", refundID, trade.PaymentStatusCancelled).
		Count(&n).Error
	return n, shared.AsStorageError(err)
}

// Save inserts a new refund payment
func (r *GormRefundPaymentRepository) Save(ctx context.Context, p *trade.RefundPayment) error {
	return shared.AsStorageError(r.db.WithContext(ctx).Create(models.RefundPaymentModelFromDomain(p)).Error)
}

// SaveWithLock updates the refund payment if its version is unchanged
func (r *GormRefundPaymentRepository) SaveWithLock(ctx context.Context, p *trade.RefundPayment) error {
	m := models.RefundPaymentModelFromDomain(p)
	m.Version = p.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), m, p.Version); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// Delete removes a refund payment
func (r *GormRefundPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.RefundPaymentModel{}, "RefundPayment", id)
}

var (
	_ trade.RefundRepository        = (*GormRefundRepository)(nil)
	_ trade.RefundPaymentRepository = (*GormRefundPaymentRepository)(nil)
)

package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReturnRepository implements trade.ReturnRepository
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a sale return repository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return with its lines
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SaleReturn, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate locks the return row
func (r *GormReturnRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.SaleReturn, error) {
	return r.find(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormReturnRepository) find(db *gorm.DB, id uuid.UUID) (*trade.SaleReturn, error) {
	var m models.SaleReturnModel
	if err := db.Preload("Lines", byPosition).First(&m, "id = ?", id).Error; err != nil {
		return nil, findErr(err, "SaleReturn", id)
	}
	return m.ToDomain(), nil
}

// ListBySale returns the sale's returns, oldest first
func (r *GormReturnRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]trade.SaleReturn, error) {
	return r.list(r.db.WithContext(ctx).Where("sale_id = ?", saleID))
}

// ListByRefund returns the returns feeding a refund
func (r *GormReturnRepository) ListByRefund(ctx context.Context, refundID uuid.UUID) ([]trade.SaleReturn, error) {
	return r.list(r.db.WithContext(ctx).Where("refund_id = ?", refundID))
}

func (r *GormReturnRepository) list(q *gorm.DB) ([]trade.SaleReturn, error) {
	var rows []models.SaleReturnModel
	if err := q.Preload("Lines", byPosition).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, shared.AsStorageError(err)
	}
	out := make([]trade.SaleReturn, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// SumEligibleBySale sums refund-eligible amounts of live returns other than excludeID
func (r *GormReturnRepository) SumEligibleBySale(ctx context.Context, saleID, excludeID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&models.SaleReturnModel{}).
		Where("sale_id = ? AND id <> ? AND status <> ?", saleID, excludeID, trade.PaymentStatusCancelled).
		Select("SUM(refund_eligible)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, shared.AsStorageError(err)
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// CountPendingBySale counts returns still waiting for their refund to complete
func (r *GormReturnRepository) CountPendingBySale(ctx context.Context, saleID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.SaleReturnModel{}).
		Where("sale_id = ? AND status IN ?", saleID, []trade.PaymentStatus{trade.PaymentStatusPending, trade.PaymentStatusPartial}).
		Count(&n).Error
	return n, shared.AsStorageError(err)
}

// CountBySale counts every return of the sale
func (r *GormReturnRepository) CountBySale(ctx context.Context, saleID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.SaleReturnModel{}).Where("sale_id = ?", saleID).Count(&n).Error
	return n, shared.AsStorageError(err)
}

// Save inserts a new return and its lines
func (r *GormReturnRepository) Save(ctx context.Context, ret *trade.SaleReturn) error {
	m := models.SaleReturnModelFromDomain(ret)
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(m).Error; err != nil {
		return shared.AsStorageError(err)
	}
	return insertLines(db, &m.Lines)
}

// SaveWithLock updates the return if its version is unchanged. Lines are
// fixed once the return exists and are not rewritten.
func (r *GormReturnRepository) SaveWithLock(ctx context.Context, ret *trade.SaleReturn) error {
	m := models.SaleReturnModelFromDomain(ret)
	m.Version = ret.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), m, ret.Version); err != nil {
		return err
	}
	ret.IncrementVersion()
	return nil
}

var _ trade.ReturnRepository = (*GormReturnRepository)(nil)

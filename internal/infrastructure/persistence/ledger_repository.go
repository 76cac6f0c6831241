package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBalancePaymentRepository implements partner.BalancePaymentRepository
type GormBalancePaymentRepository struct {
	db *gorm.DB
}

// NewGormBalancePaymentRepository creates a balance record repository
func NewGormBalancePaymentRepository(db *gorm.DB) *GormBalancePaymentRepository {
	return &GormBalancePaymentRepository{db: db}
}

// FindByID finds a balance record by id
func (r *GormBalancePaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.BalancePayment, error) {
	var m models.BalancePaymentModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, findErr(err, "BalancePayment", id)
	}
	return m.ToDomain(), nil
}

// FindBySource returns the records a trade document produced
func (r *GormBalancePaymentRepository) FindBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) ([]partner.BalancePayment, error) {
	return r.list(r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("created_at ASC"))
}

// ListByClient returns a client's records, newest first
func (r *GormBalancePaymentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]partner.BalancePayment, error) {
	return r.list(r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at DESC"))
}

func (r *GormBalancePaymentRepository) list(q *gorm.DB) ([]partner.BalancePayment, error) {
	var rows []models.BalancePaymentModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, shared.AsStorageError(err)
	}
	out := make([]partner.BalancePayment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save inserts a new record
func (r *GormBalancePaymentRepository) Save(ctx context.Context, p *partner.BalancePayment) error {
	return shared.AsStorageError(r.db.WithContext(ctx).Create(models.BalancePaymentModelFromDomain(p)).Error)
}

// SaveWithLock updates the record if its version is unchanged
func (r *GormBalancePaymentRepository) SaveWithLock(ctx context.Context, p *partner.BalancePayment) error {
	m := models.BalancePaymentModelFromDomain(p)
	m.Version = p.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), m, p.Version); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// Delete removes a record
func (r *GormBalancePaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.BalancePaymentModel{}, "BalancePayment", id)
}

// GormCreditPaymentRepository implements partner.CreditPaymentRepository
type GormCreditPaymentRepository struct {
	db *gorm.DB
}

// NewGormCreditPaymentRepository creates a credit record repository
func NewGormCreditPaymentRepository(db *gorm.DB) *GormCreditPaymentRepository {
	return &GormCreditPaymentRepository{db: db}
}

// FindByID finds a credit record by id
func (r *GormCreditPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.CreditPayment, error) {
	var m models.CreditPaymentModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, findErr(err, "CreditPayment", id)
	}
	return m.ToDomain(), nil
}

// FindBySource returns the records a trade document produced
func (r *GormCreditPaymentRepository) FindBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) ([]partner.CreditPayment, error) {
	return r.list(r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("created_at ASC"))
}

// ListByClient returns a client's records, newest first
func (r *GormCreditPaymentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]partner.CreditPayment, error) {
	return r.list(r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at DESC"))
}

func (r *GormCreditPaymentRepository) list(q *gorm.DB) ([]partner.CreditPayment, error) {
	var rows []models.CreditPaymentModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, shared.AsStorageError(err)
	}
	out := make([]partner.CreditPayment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save inserts a new record
func (r *GormCreditPaymentRepository) Save(ctx context.Context, p *partner.CreditPayment) error {
	return shared.AsStorageError(r.db.WithContext(ctx).Create(models.CreditPaymentModelFromDomain(p)).Error)
}

// SaveWithLock updates the record if its version is unchanged
func (r *GormCreditPaymentRepository) SaveWithLock(ctx context.Context, p *partner.CreditPayment) error {
	m := models.CreditPaymentModelFromDomain(p)
	m.Version = p.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), m, p.Version); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// Delete removes a record
func (r *GormCreditPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.CreditPaymentModel{}, "CreditPayment", id)
}

var (
	_ partner.BalancePaymentRepository = (*GormBalancePaymentRepository)(nil)
	_ partner.CreditPaymentRepository  = (*GormCreditPaymentRepository)(nil)
)

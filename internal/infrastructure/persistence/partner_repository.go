package persistence

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements partner.ClientRepository
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a client repository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by id
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	var m models.ClientModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, findErr(err, "Client", id)
	}
	return m.ToDomain(), nil
}

// ExistsByCode reports whether a client code is taken
func (r *GormClientRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClientModel{}).Where("code = ?", code).Count(&count).Error
	return count > 0, shared.AsStorageError(err)
}

// Save inserts a new client
func (r *GormClientRepository) Save(ctx context.Context, c *partner.Client) error {
	return shared.AsStorageError(r.db.WithContext(ctx).Create(models.ClientModelFromDomain(c)).Error)
}

// SaveWithLock updates the client if its version is unchanged
func (r *GormClientRepository) SaveWithLock(ctx context.Context, c *partner.Client) error {
	m := models.ClientModelFromDomain(c)
	m.Version = c.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), m, c.Version); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

// accountRow finds the (client, currency) row of an account table
func accountRow(ctx context.Context, db *gorm.DB, dest any, clientID, currencyID uuid.UUID) error {
	err := forUpdate(db.WithContext(ctx)).
		Where("client_id = ? AND currency_id = ?", clientID, currencyID).
		First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound.
			WithDetail("client_id", clientID.String()).
			WithDetail("currency_id", currencyID.String())
	}
	return shared.AsStorageError(err)
}

// GormBalanceRepository implements partner.BalanceRepository
type GormBalanceRepository struct {
	db *gorm.DB
}

// NewGormBalanceRepository creates a balance repository
func NewGormBalanceRepository(db *gorm.DB) *GormBalanceRepository {
	return &GormBalanceRepository{db: db}
}

// FindForUpdate locks the client's balance in one currency
func (r *GormBalanceRepository) FindForUpdate(ctx context.Context, clientID, currencyID uuid.UUID) (*partner.ClientBalance, error) {
	var m models.ClientBalanceModel
	if err := accountRow(ctx, r.db, &m, clientID, currencyID); err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// ListByClient returns every balance of a client
func (r *GormBalanceRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]partner.ClientBalance, error) {
	var rows []models.ClientBalanceModel
	if err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("currency_code ASC").Find(&rows).Error; err != nil {
		return nil, shared.AsStorageError(err)
	}
	out := make([]partner.ClientBalance, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save inserts a new balance row
func (r *GormBalanceRepository) Save(ctx context.Context, b *partner.ClientBalance) error {
	return shared.AsStorageError(r.db.WithContext(ctx).Create(models.ClientBalanceModelFromDomain(b)).Error)
}

// SaveWithLock updates the balance if its version is unchanged
func (r *GormBalanceRepository) SaveWithLock(ctx context.Context, b *partner.ClientBalance) error {
	m := models.ClientBalanceModelFromDomain(b)
	m.Version = b.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), m, b.Version); err != nil {
		return err
	}
	b.IncrementVersion()
	return nil
}

// GormCreditLineRepository implements partner.CreditLineRepository
type GormCreditLineRepository struct {
	db *gorm.DB
}

// NewGormCreditLineRepository creates a credit line repository
func NewGormCreditLineRepository(db *gorm.DB) *GormCreditLineRepository {
	return &GormCreditLineRepository{db: db}
}

// FindForUpdate locks the client's credit line in one currency
func (r *GormCreditLineRepository) FindForUpdate(ctx context.Context, clientID, currencyID uuid.UUID) (*partner.CreditLine, error) {
	var m models.CreditLineModel
	if err := accountRow(ctx, r.db, &m, clientID, currencyID); err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// ListByClient returns every credit line of a client
func (r *GormCreditLineRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]partner.CreditLine, error) {
	var rows []models.CreditLineModel
	if err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("currency_code ASC").Find(&rows).Error; err != nil {
		return nil, shared.AsStorageError(err)
	}
	out := make([]partner.CreditLine, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save inserts a new credit line
func (r *GormCreditLineRepository) Save(ctx context.Context, l *partner.CreditLine) error {
	return shared.AsStorageError(r.db.WithContext(ctx).Create(models.CreditLineModelFromDomain(l)).Error)
}

// SaveWithLock updates the credit line if its version is unchanged
func (r *GormCreditLineRepository) SaveWithLock(ctx context.Context, l *partner.CreditLine) error {
	m := models.CreditLineModelFromDomain(l)
	m.Version = l.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), m, l.Version); err != nil {
		return err
	}
	l.IncrementVersion()
	return nil
}

var (
	_ partner.ClientRepository     = (*GormClientRepository)(nil)
	_ partner.BalanceRepository    = (*GormBalanceRepository)(nil)
	_ partner.CreditLineRepository = (*GormCreditLineRepository)(nil)
)

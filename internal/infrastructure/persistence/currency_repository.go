package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCurrencyRepository implements currency.Repository
type GormCurrencyRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRepository creates a currency repository
func NewGormCurrencyRepository(db *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{db: db}
}

// FindByID finds a currency by id
func (r *GormCurrencyRepository) FindByID(ctx context.Context, id uuid.UUID) (*currency.Currency, error) {
	var m models.CurrencyModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, findErr(err, "Currency", id)
	}
	return m.ToDomain(), nil
}

// FindByCode finds a currency by its ISO code
func (r *GormCurrencyRepository) FindByCode(ctx context.Context, code string) (*currency.Currency, error) {
	var m models.CurrencyModel
	err := r.db.WithContext(ctx).First(&m, "code = ?", strings.ToUpper(code)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound.WithDetail("code", code)
		}
		return nil, shared.AsStorageError(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns every currency ordered by code
func (r *GormCurrencyRepository) FindAll(ctx context.Context) ([]currency.Currency, error) {
	var rows []models.CurrencyModel
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, shared.AsStorageError(err)
	}
	out := make([]currency.Currency, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save inserts a new currency
func (r *GormCurrencyRepository) Save(ctx context.Context, c *currency.Currency) error {
	return shared.AsStorageError(r.db.WithContext(ctx).Create(models.CurrencyModelFromDomain(c)).Error)
}

// SaveWithLock updates the currency if its version is unchanged
func (r *GormCurrencyRepository) SaveWithLock(ctx context.Context, c *currency.Currency) error {
	m := models.CurrencyModelFromDomain(c)
	m.Version = c.Version + 1
	if err := updateVersioned(r.db.WithContext(ctx), m, c.Version); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

// AppendRate adds a row to the rate history
func (r *GormCurrencyRepository) AppendRate(ctx context.Context, rate *currency.ExchangeRate) error {
	return shared.AsStorageError(r.db.WithContext(ctx).Create(models.ExchangeRateModelFromDomain(rate)).Error)
}

// ListRates returns the most recent rates first
func (r *GormCurrencyRepository) ListRates(ctx context.Context, currencyID uuid.UUID, limit int) ([]currency.ExchangeRate, error) {
	q := r.db.WithContext(ctx).Where("currency_id = ?", currencyID).Order("effective_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.ExchangeRateModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, shared.AsStorageError(err)
	}
	out := make([]currency.ExchangeRate, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ currency.Repository = (*GormCurrencyRepository)(nil)

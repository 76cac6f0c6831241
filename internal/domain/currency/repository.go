package currency

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists currencies and their rate history
type Repository interface {
	// FindByID returns shared.ErrNotFound when the currency does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Currency, error)
	FindByCode(ctx context.Context, code string) (*Currency, error)
	FindAll(ctx context.Context) ([]Currency, error)
	Save(ctx context.Context, c *Currency) error
	// SaveWithLock updates the currency only if nobody changed it since it was loaded
	SaveWithLock(ctx context.Context, c *Currency) error
	AppendRate(ctx context.Context, rate *ExchangeRate) error
	ListRates(ctx context.Context, currencyID uuid.UUID, limit int) ([]ExchangeRate, error)
}

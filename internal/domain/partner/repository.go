package partner

import (
	"context"

	"github.com/google/uuid"
)

// ClientRepository persists clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, c *Client) error
	SaveWithLock(ctx context.Context, c *Client) error
}

// BalanceRepository persists per-currency client balances
type BalanceRepository interface {
	// FindForUpdate row-locks the balance; shared.ErrNotFound when the row does not exist
	FindForUpdate(ctx context.Context, clientID, currencyID uuid.UUID) (*ClientBalance, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]ClientBalance, error)
	Save(ctx context.Context, b *ClientBalance) error
	SaveWithLock(ctx context.Context, b *ClientBalance) error
}

// CreditLineRepository persists per-currency credit lines
type CreditLineRepository interface {
	// FindForUpdate row-locks the credit line; shared.ErrNotFound when the row does not exist
	FindForUpdate(ctx context.Context, clientID, currencyID uuid.UUID) (*CreditLine, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]CreditLine, error)
	Save(ctx context.Context, l *CreditLine) error
	SaveWithLock(ctx context.Context, l *CreditLine) error
}

// BalancePaymentRepository persists balance movement records
type BalancePaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BalancePayment, error)
	FindBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) ([]BalancePayment, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]BalancePayment, error)
	Save(ctx context.Context, p *BalancePayment) error
	SaveWithLock(ctx context.Context, p *BalancePayment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreditPaymentRepository persists credit movement records
type CreditPaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CreditPayment, error)
	FindBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) ([]CreditPayment, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]CreditPayment, error)
	Save(ctx context.Context, p *CreditPayment) error
	SaveWithLock(ctx context.Context, p *CreditPayment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

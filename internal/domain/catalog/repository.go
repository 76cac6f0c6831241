package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository persists products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByIDs returns the products found; missing ids are simply absent
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	// FindByIDsForUpdate row-locks the products in ascending id order
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, p *Product) error
	SaveWithLock(ctx context.Context, p *Product) error
}

// StockMovementRepository appends and lists stock ledger entries
type StockMovementRepository interface {
	Append(ctx context.Context, movements ...*StockMovement) error
	ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]StockMovement, error)
	ListBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) ([]StockMovement, error)
}

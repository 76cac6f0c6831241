package trade

import (
	"context"
	"slices"

	"github.com/erp/backoffice/internal/application/txscope"
	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// lockProducts row-locks the given products in ascending id order, the one
// lock order every operation uses, and returns them keyed by id
func lockProducts(ctx context.Context, repos txscope.Repositories, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	sorted := slices.Clone(ids)
	trade.SortIDs(sorted)
	sorted = slices.Compact(sorted)

	found, err := repos.Products().FindByIDsForUpdate(ctx, sorted)
	if err != nil {
		return nil, err
	}
	products := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		products[found[i].ID] = &found[i]
	}
	for _, id := range sorted {
		if _, ok := products[id]; !ok {
			return nil, shared.NotFound("product", id)
		}
	}
	return products, nil
}

func productSnapshots(products map[uuid.UUID]*catalog.Product) map[uuid.UUID]catalog.ProductSnapshot {
	out := make(map[uuid.UUID]catalog.ProductSnapshot, len(products))
	for id, p := range products {
		out[id] = p.Snapshot()
	}
	return out
}

func lineProductIDs(in []SaleLineInput) []uuid.UUID {
	ids := make([]uuid.UUID, len(in))
	for i, l := range in {
		ids[i] = l.ProductID
	}
	return ids
}

func saleProductIDs(lines ...[]trade.SaleLine) []uuid.UUID {
	var ids []uuid.UUID
	for _, set := range lines {
		for _, l := range set {
			ids = append(ids, l.ProductID)
		}
	}
	return ids
}

func loadClient(ctx context.Context, repos txscope.Repositories, id uuid.UUID) (partner.ClientSnapshot, error) {
	c, err := repos.Clients().FindByID(ctx, id)
	if err != nil {
		return partner.ClientSnapshot{}, err
	}
	return c.Snapshot(), nil
}

// lockSale takes the sale row lock that serializes every operation on a sale
func lockSale(ctx context.Context, repos txscope.Repositories, id uuid.UUID) (*trade.Sale, error) {
	return repos.Sales().FindByIDForUpdate(ctx, id)
}

// paidAmount is the sum of the sale's non-cancelled payments
func paidAmount(ctx context.Context, repos txscope.Repositories, saleID uuid.UUID) (decimal.Decimal, error) {
	paid, err := repos.Payments().SumActiveBySale(ctx, saleID)
	if err != nil {
		return decimal.Zero, err
	}
	return shared.Round2(paid), nil
}

package trade

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLine is one priced product line of a sale. Amounts are in the sale currency.
type SaleLine struct {
	ProductID      uuid.UUID
	ProductCode    string
	ProductName    string
	Quantity       int64
	UnitPrice      decimal.Decimal
	TaxRate        decimal.Decimal
	DiscountRate   decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// Reprice returns the line recomputed for another quantity with the same
// unit price, tax and discount rates
func (l SaleLine) Reprice(quantity int64) SaleLine {
	gross := l.UnitPrice.Mul(decimal.NewFromInt(quantity))
	discount := shared.Percent(gross, l.DiscountRate)
	tax := shared.Percent(gross.Sub(discount), l.TaxRate)

	out := l
	out.Quantity = quantity
	out.DiscountAmount = shared.Round2(discount)
	out.TaxAmount = shared.Round2(tax)
	out.Total = shared.Round2(gross.Sub(discount).Add(tax))
	return out
}

// LineInput is a requested sale line before pricing
type LineInput struct {
	ProductID    uuid.UUID
	Quantity     int64
	UnitPrice    *decimal.Decimal
	TaxRate      decimal.Decimal
	DiscountRate *decimal.Decimal
}

// PricingContext carries the sale-level values every line is priced with
type PricingContext struct {
	ExchangeRate decimal.Decimal
	// DefaultDiscount applies to lines without their own discount rate
	DefaultDiscount decimal.Decimal
}

// ResolveDefaultDiscount picks the sale-level discount when given, otherwise the client's
func ResolveDefaultDiscount(saleDiscount *decimal.Decimal, clientDiscount decimal.Decimal) decimal.Decimal {
	if saleDiscount != nil {
		return *saleDiscount
	}
	return clientDiscount
}

// PriceLines prices requested lines against resolved products. A product may
// appear only once; a missing product yields NotFound.
func PriceLines(inputs []LineInput, products map[uuid.UUID]catalog.ProductSnapshot, pc PricingContext) ([]SaleLine, error) {
	if len(inputs) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "A sale needs at least one line")
	}
	if !pc.ExchangeRate.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}
	if err := shared.ValidatePercentage("discount_percentage", pc.DefaultDiscount); err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(inputs))
	lines := make([]SaleLine, 0, len(inputs))
	for i, in := range inputs {
		if _, dup := seen[in.ProductID]; dup {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Product %s appears more than once", in.ProductID)).
				WithDetail("line", i)
		}
		seen[in.ProductID] = struct{}{}

		product, ok := products[in.ProductID]
		if !ok {
			return nil, shared.NotFound("product", in.ProductID)
		}
		if in.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive").WithDetail("line", i)
		}
		if err := shared.ValidatePercentage("tax_rate", in.TaxRate); err != nil {
			return nil, err
		}

		discountRate := pc.DefaultDiscount
		if in.DiscountRate != nil {
			if err := shared.ValidatePercentage("discount_rate", *in.DiscountRate); err != nil {
				return nil, err
			}
			discountRate = *in.DiscountRate
		}

		unitPrice := product.BasePrice.Mul(pc.ExchangeRate)
		if in.UnitPrice != nil {
			if in.UnitPrice.IsNegative() {
				return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative").WithDetail("line", i)
			}
			unitPrice = *in.UnitPrice
		}

		line := SaleLine{
			ProductID:    product.ID,
			ProductCode:  product.Code,
			ProductName:  product.Name,
			UnitPrice:    shared.Round2(unitPrice),
			TaxRate:      in.TaxRate,
			DiscountRate: discountRate,
		}
		lines = append(lines, line.Reprice(in.Quantity))
	}
	return lines, nil
}

// CheckAvailability fails with InsufficientStock when a product cannot cover
// the quantity its line needs
func CheckAvailability(required map[uuid.UUID]int64, products map[uuid.UUID]catalog.ProductSnapshot) error {
	for _, id := range SortedIDs(required) {
		qty := required[id]
		if qty <= 0 {
			continue
		}
		product, ok := products[id]
		if !ok {
			return shared.NotFound("product", id)
		}
		if product.StockQuantity < qty {
			return shared.InsufficientStock(product.Code, qty, product.StockQuantity)
		}
	}
	return nil
}

// Quantities sums line quantities per product
func Quantities(lines []SaleLine) map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(lines))
	for _, l := range lines {
		out[l.ProductID] += l.Quantity
	}
	return out
}

// StockDelta returns, per product, how many more units next needs than prev.
// Negative values are units to give back.
func StockDelta(prev, next []SaleLine) map[uuid.UUID]int64 {
	out := Quantities(next)
	for id, qty := range Quantities(prev) {
		out[id] -= qty
	}
	for id, qty := range out {
		if qty == 0 {
			delete(out, id)
		}
	}
	return out
}

// SortedIDs returns the map keys in ascending order, the order rows are locked in
func SortedIDs[V any](m map[uuid.UUID]V) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

// SortIDs sorts ids in ascending byte order
func SortIDs(ids []uuid.UUID) {
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
}

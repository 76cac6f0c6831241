// Package catalog holds products and the stock ledger that moves their on-hand quantity.
package catalog

import (
	"fmt"
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item. CurrentPrice is expressed in the base currency.
type Product struct {
	shared.BaseAggregateRoot
	Code          string
	Name          string
	CurrentPrice  decimal.Decimal
	StockQuantity int64
}

// NewProduct creates a product with an opening stock
func NewProduct(code, name string, price decimal.Decimal, openingStock int64) (*Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if openingStock < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Opening stock cannot be negative")
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		CurrentPrice:      price,
		StockQuantity:     openingStock,
	}, nil
}

// HasStock reports whether quantity units are on hand
func (p *Product) HasStock(quantity int64) bool {
	return p.StockQuantity >= quantity
}

// EnsureStock returns InsufficientStock when quantity units are not on hand
func (p *Product) EnsureStock(quantity int64) error {
	if !p.HasStock(quantity) {
		return shared.InsufficientStock(p.Code, quantity, p.StockQuantity)
	}
	return nil
}

// Adjust applies a signed stock delta and returns the movement that records it.
// Stock never goes below zero.
func (p *Product) Adjust(delta int64, reason MovementReason, source SourceRef, actor uuid.UUID) (*StockMovement, error) {
	if delta == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock adjustment cannot be zero")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Unknown movement reason %q", reason))
	}
	if delta < 0 {
		if err := p.EnsureStock(-delta); err != nil {
			return nil, err
		}
	}

	before := p.StockQuantity
	p.StockQuantity += delta
	p.Touch()
	p.AddDomainEvent(NewStockAdjustedEvent(p, before, delta, reason, actor))

	return NewStockMovement(p.ID, delta, p.StockQuantity, reason, source, actor), nil
}

// Decrease removes units from stock
func (p *Product) Decrease(quantity int64, reason MovementReason, source SourceRef, actor uuid.UUID) (*StockMovement, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return p.Adjust(-quantity, reason, source, actor)
}

// Increase puts units back into stock
func (p *Product) Increase(quantity int64, reason MovementReason, source SourceRef, actor uuid.UUID) (*StockMovement, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return p.Adjust(quantity, reason, source, actor)
}

// Snapshot returns the pricing data a sale line needs
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		BasePrice:     p.CurrentPrice,
		StockQuantity: p.StockQuantity,
	}
}

// ProductSnapshot is a read-only view of a product loaded for a pricing decision
type ProductSnapshot struct {
	ID            uuid.UUID
	Code          string
	Name          string
	BasePrice     decimal.Decimal
	StockQuantity int64
}

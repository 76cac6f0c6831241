package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root
type ProductModel struct {
	AggregateModel
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	CurrentPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockQuantity int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		CurrentPrice:      m.CurrentPrice,
		StockQuantity:     m.StockQuantity,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.CurrentPrice = p.CurrentPrice
	m.StockQuantity = p.StockQuantity
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// StockMovementModel is one append-only row of the stock ledger
type StockMovementModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index:idx_stock_movements_product,priority:1"`
	Delta         int64     `gorm:"not null"`
	QuantityAfter int64     `gorm:"not null"`
	Reason        string    `gorm:"type:varchar(30);not null"`
	SourceType    string    `gorm:"type:varchar(30);not null;index:idx_stock_movements_source,priority:1"`
	SourceID      uuid.UUID `gorm:"type:uuid;not null;index:idx_stock_movements_source,priority:2"`
	ActorID       uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time `gorm:"not null;index:idx_stock_movements_product,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement
func (m *StockMovementModel) ToDomain() *catalog.StockMovement {
	return &catalog.StockMovement{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Delta:         m.Delta,
		QuantityAfter: m.QuantityAfter,
		Reason:        catalog.MovementReason(m.Reason),
		SourceType:    m.SourceType,
		SourceID:      m.SourceID,
		ActorID:       m.ActorID,
		CreatedAt:     m.CreatedAt,
	}
}

// StockMovementModelFromDomain creates a new persistence model from a domain StockMovement
func StockMovementModelFromDomain(mv *catalog.StockMovement) *StockMovementModel {
	return &StockMovementModel{
		ID:            mv.ID,
		ProductID:     mv.ProductID,
		Delta:         mv.Delta,
		QuantityAfter: mv.QuantityAfter,
		Reason:        string(mv.Reason),
		SourceType:    mv.SourceType,
		SourceID:      mv.SourceID,
		ActorID:       mv.ActorID,
		CreatedAt:     mv.CreatedAt,
	}
}

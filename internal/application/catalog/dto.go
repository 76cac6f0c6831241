package catalog

import (
	"time"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Code         string          `json:"code" binding:"required,min=1,max=50"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	OpeningStock int64           `json:"opening_stock" binding:"min=0"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	StockQuantity int64           `json:"stock_quantity"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StockMovementResponse represents one stock ledger entry
type StockMovementResponse struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	Delta         int64     `json:"delta"`
	QuantityAfter int64     `json:"quantity_after"`
	Reason        string    `json:"reason"`
	SourceType    string    `json:"source_type"`
	SourceID      uuid.UUID `json:"source_id"`
	ActorID       uuid.UUID `json:"actor_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		CurrentPrice:  p.CurrentPrice,
		StockQuantity: p.StockQuantity,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToStockMovementResponses converts stock movements to responses
func ToStockMovementResponses(movements []catalog.StockMovement) []StockMovementResponse {
	out := make([]StockMovementResponse, len(movements))
	for i, m := range movements {
		out[i] = StockMovementResponse{
			ID:            m.ID,
			ProductID:     m.ProductID,
			Delta:         m.Delta,
			QuantityAfter: m.QuantityAfter,
			Reason:        string(m.Reason),
			SourceType:    m.SourceType,
			SourceID:      m.SourceID,
			ActorID:       m.ActorID,
			CreatedAt:     m.CreatedAt,
		}
	}
	return out
}

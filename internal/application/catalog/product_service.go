// Package catalog holds the product use cases.
package catalog

import (
	"context"

	"github.com/erp/backoffice/internal/application/txscope"
	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultMovementLimit = 100
	sourceProduct        = "product"
)

// ProductService handles product-related business operations
type ProductService struct {
	scope  txscope.Scope
	logger *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(scope txscope.Scope, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{scope: scope, logger: logger}
}

// CreateProduct creates a product. Opening stock is recorded as the first movement.
func (s *ProductService) CreateProduct(ctx context.Context, actor uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Code, req.Name, req.CurrentPrice, req.OpeningStock)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		exists, err := repos.Products().ExistsByCode(ctx, product.Code)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists").
				WithDetail("code", product.Code)
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		if product.StockQuantity == 0 {
			return nil
		}
		opening := catalog.NewStockMovement(product.ID, product.StockQuantity, product.StockQuantity,
			catalog.ReasonOpening, catalog.SourceRef{Type: sourceProduct, ID: product.ID}, actor)
		return repos.StockMovements().Append(ctx, opening)
	})
	if err != nil {
		return nil, shared.AsStorageError(err)
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code),
		zap.Int64("opening_stock", product.StockQuantity),
	)
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProduct returns a product by id
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	var resp ProductResponse
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		p, err := repos.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToProductResponse(p)
		return nil
	})
	if err != nil {
		return nil, shared.AsStorageError(err)
	}
	return &resp, nil
}

// ListStockMovements returns a product's stock ledger, newest first
func (s *ProductService) ListStockMovements(ctx context.Context, productID uuid.UUID, limit int) ([]StockMovementResponse, error) {
	if limit <= 0 || limit > 1000 {
		limit = defaultMovementLimit
	}
	var out []StockMovementResponse
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		if _, err := repos.Products().FindByID(ctx, productID); err != nil {
			return err
		}
		movements, err := repos.StockMovements().ListByProduct(ctx, productID, limit)
		if err != nil {
			return err
		}
		out = ToStockMovementResponses(movements)
		return nil
	})
	if err != nil {
		return nil, shared.AsStorageError(err)
	}
	return out, nil
}

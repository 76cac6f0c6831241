package handler

import (
	catalogapp "github.com/erp/backoffice/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create godoc
// @Summary      Create a product
// @Description  A non-zero opening stock is recorded as the first stock movement.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Get returns a product with its current stock
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id", "product")
	if !ok {
		return
	}
	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListMovements returns the latest stock movements of a product
func (h *ProductHandler) ListMovements(c *gin.Context) {
	id, ok := h.pathID(c, "id", "product")
	if !ok {
		return
	}
	movements, err := h.productService.ListStockMovements(c.Request.Context(), id, queryLimit(c, 50))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

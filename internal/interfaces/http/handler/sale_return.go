package handler

import (
	tradeapp "github.com/erp/backoffice/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// ReturnHandler handles sale return API endpoints
type ReturnHandler struct {
	BaseHandler
	returnService *tradeapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *tradeapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// Create godoc
// @Summary      Return goods of a sale
// @Description  Restock the returned quantities and open or grow the sale's refund by what was paid for them.
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateReturnRequest true "Return request"
// @Success      201 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns [post]
func (h *ReturnHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req tradeapp.CreateReturnRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ret, err := h.returnService.CreateReturn(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ret)
}

// Get godoc
// @Summary      Get a return
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns/{id} [get]
func (h *ReturnHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id", "return")
	if !ok {
		return
	}
	ret, err := h.returnService.GetReturn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// ListBySale returns all returns of a sale
func (h *ReturnHandler) ListBySale(c *gin.Context) {
	saleID, ok := h.pathID(c, "id", "sale")
	if !ok {
		return
	}
	returns, err := h.returnService.ListReturnsBySale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, returns)
}

// Edit godoc
// @Summary      Edit a pending return
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Return ID" format(uuid)
// @Param        request body tradeapp.EditReturnRequest  true "Return edit request"
// @Success      200 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns/{id} [put]
func (h *ReturnHandler) Edit(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "return")
	if !ok {
		return
	}
	var req tradeapp.EditReturnRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ret, err := h.returnService.EditReturn(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// Cancel godoc
// @Summary      Cancel a return
// @Description  Take the returned goods back out of stock and shrink the refund accordingly.
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.ReturnResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns/{id}/cancel [post]
func (h *ReturnHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "return")
	if !ok {
		return
	}

	ret, err := h.returnService.CancelReturn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

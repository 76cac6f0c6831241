package handler

import (
	tradeapp "github.com/erp/backoffice/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// RefundHandler handles refund and refund payment API endpoints
type RefundHandler struct {
	BaseHandler
	refundService *tradeapp.RefundService
}

// NewRefundHandler creates a new RefundHandler
func NewRefundHandler(refundService *tradeapp.RefundService) *RefundHandler {
	return &RefundHandler{refundService: refundService}
}

// Get returns a refund
func (h *RefundHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id", "refund")
	if !ok {
		return
	}
	refund, err := h.refundService.GetRefund(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, refund)
}

// GetBySale returns the refund of a sale
func (h *RefundHandler) GetBySale(c *gin.Context) {
	saleID, ok := h.pathID(c, "id", "sale")
	if !ok {
		return
	}
	refund, err := h.refundService.GetRefundBySale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, refund)
}

// Update changes refund remarks
func (h *RefundHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "refund")
	if !ok {
		return
	}
	var req tradeapp.UpdateRefundRequest
	if !h.bindJSON(c, &req) {
		return
	}

	refund, err := h.refundService.UpdateRefundRemarks(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, refund)
}

// Cancel cancels a refund that has nothing paid out
func (h *RefundHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "refund")
	if !ok {
		return
	}

	refund, err := h.refundService.CancelRefund(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, refund)
}

// AddPayment pays out part of a refund
func (h *RefundHandler) AddPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "refund")
	if !ok {
		return
	}
	var req tradeapp.AddRefundPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.refundService.AddRefundPayment(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// ListPayments returns the payments of a refund
func (h *RefundHandler) ListPayments(c *gin.Context) {
	id, ok := h.pathID(c, "id", "refund")
	if !ok {
		return
	}
	payments, err := h.refundService.ListRefundPayments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// CancelPayment cancels a refund payment
func (h *RefundHandler) CancelPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "refund payment")
	if !ok {
		return
	}

	payment, err := h.refundService.CancelRefundPayment(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// DeletePayment removes a cancelled refund payment
func (h *RefundHandler) DeletePayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "refund payment")
	if !ok {
		return
	}

	if err := h.refundService.DeleteRefundPayment(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

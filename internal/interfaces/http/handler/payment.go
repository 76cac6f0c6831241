package handler

import (
	tradeapp "github.com/erp/backoffice/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment-related API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *tradeapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *tradeapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Add godoc
// @Summary      Record a payment
// @Description  Record a payment against a pending sale. The sale completes once fully paid; a cash sale deducts its stock at that point.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.AddPaymentRequest true "Payment request"
// @Success      201 {object} dto.Response{data=tradeapp.PaymentResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) Add(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req tradeapp.AddPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.AddPayment(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// Get returns one payment
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id", "payment")
	if !ok {
		return
	}
	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// ListBySale returns the payments of a sale
// @Router /sales/{id}/payments [get]
func (h *PaymentHandler) ListBySale(c *gin.Context) {
	saleID, ok := h.pathID(c, "id", "sale")
	if !ok {
		return
	}
	payments, err := h.paymentService.ListPaymentsBySale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Cancel godoc
// @Summary      Cancel a payment
// @Description  Cancel an active payment. A completed sale falls back to pending; stock is never moved.
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.PaymentResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id}/cancel [post]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "payment")
	if !ok {
		return
	}

	payment, err := h.paymentService.CancelPayment(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Delete removes a cancelled payment
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "payment")
	if !ok {
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

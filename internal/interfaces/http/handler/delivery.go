package handler

import (
	tradeapp "github.com/erp/backoffice/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// DeliveryHandler handles delivery API endpoints
type DeliveryHandler struct {
	BaseHandler
	deliveryService *tradeapp.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService *tradeapp.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// Create godoc
// @Summary      Schedule a delivery
// @Description  Schedule the hand-over of a sale's goods at the store or at a client address.
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        id      path string                         true "Sale ID" format(uuid)
// @Param        request body tradeapp.CreateDeliveryRequest true "Delivery request"
// @Success      201 {object} dto.Response{data=tradeapp.DeliveryResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/deliveries [post]
func (h *DeliveryHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	saleID, ok := h.pathID(c, "id", "sale")
	if !ok {
		return
	}
	var req tradeapp.CreateDeliveryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	delivery, err := h.deliveryService.CreateDelivery(c.Request.Context(), actor, saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, delivery)
}

// ListBySale returns the deliveries of a sale
func (h *DeliveryHandler) ListBySale(c *gin.Context) {
	saleID, ok := h.pathID(c, "id", "sale")
	if !ok {
		return
	}
	deliveries, err := h.deliveryService.ListDeliveriesBySale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deliveries)
}

// Get returns a delivery
func (h *DeliveryHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id", "delivery")
	if !ok {
		return
	}
	delivery, err := h.deliveryService.GetDelivery(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, delivery)
}

// Complete records the hand-over of a pending delivery
func (h *DeliveryHandler) Complete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "delivery")
	if !ok {
		return
	}
	delivery, err := h.deliveryService.CompleteDelivery(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, delivery)
}

// Cancel cancels a pending delivery
func (h *DeliveryHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "delivery")
	if !ok {
		return
	}
	delivery, err := h.deliveryService.CancelDelivery(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, delivery)
}

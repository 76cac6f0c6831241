package handler

import (
	currencyapp "github.com/erp/backoffice/internal/application/currency"
	"github.com/gin-gonic/gin"
)

// CurrencyHandler handles the currency directory endpoints
type CurrencyHandler struct {
	BaseHandler
	currencyService *currencyapp.CurrencyService
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(currencyService *currencyapp.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService}
}

// Create godoc
// @Summary      Add a currency
// @Tags         currencies
// @Accept       json
// @Produce      json
// @Param        request body currencyapp.CreateCurrencyRequest true "Currency"
// @Success      201 {object} dto.Response{data=currencyapp.CurrencyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /currencies [post]
func (h *CurrencyHandler) Create(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	var req currencyapp.CreateCurrencyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cur, err := h.currencyService.CreateCurrency(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cur)
}

// List returns every currency
func (h *CurrencyHandler) List(c *gin.Context) {
	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, currencies)
}

// Get returns one currency
func (h *CurrencyHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id", "currency")
	if !ok {
		return
	}
	cur, err := h.currencyService.GetCurrency(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cur)
}

// UpdateRate godoc
// @Summary      Change the current exchange rate
// @Description  Appends to the rate history. Existing sales keep the rate they were created with.
// @Tags         currencies
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Currency ID" format(uuid)
// @Param        request body currencyapp.UpdateRateRequest true "New rate"
// @Success      200 {object} dto.Response{data=currencyapp.CurrencyResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /currencies/{id}/rate [put]
func (h *CurrencyHandler) UpdateRate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "currency")
	if !ok {
		return
	}
	var req currencyapp.UpdateRateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cur, err := h.currencyService.UpdateRate(c.Request.Context(), actor, id, req.Rate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cur)
}

// ListRates returns the rate history, newest first
func (h *CurrencyHandler) ListRates(c *gin.Context) {
	id, ok := h.pathID(c, "id", "currency")
	if !ok {
		return
	}
	rates, err := h.currencyService.ListRateHistory(c.Request.Context(), id, queryLimit(c, 50))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rates)
}

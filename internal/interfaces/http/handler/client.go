package handler

import (
	partnerapp "github.com/erp/backoffice/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client, balance and credit line API endpoints
type ClientHandler struct {
	BaseHandler
	accountService *partnerapp.AccountService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(accountService *partnerapp.AccountService) *ClientHandler {
	return &ClientHandler{accountService: accountService}
}

// Create godoc
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateClientRequest true "Client creation request"
// @Success      201 {object} dto.Response{data=partnerapp.ClientResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req partnerapp.CreateClientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.accountService.CreateClient(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// GetAccount godoc
// @Summary      Get a client's balances and credit lines
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.AccountResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id}/account [get]
func (h *ClientHandler) GetAccount(c *gin.Context) {
	id, ok := h.pathID(c, "id", "client")
	if !ok {
		return
	}
	account, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// ListLedger returns the balance and credit movements of a client
func (h *ClientHandler) ListLedger(c *gin.Context) {
	id, ok := h.pathID(c, "id", "client")
	if !ok {
		return
	}
	entries, err := h.accountService.ListLedger(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// SetCreditLimit godoc
// @Summary      Set a client's credit limit in one currency
// @Description  The limit may not go below the credit currently used.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id      path string                           true "Client ID" format(uuid)
// @Param        request body partnerapp.SetCreditLimitRequest true "Credit limit"
// @Success      200 {object} dto.Response{data=partnerapp.CreditLineResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id}/credit-limits [put]
func (h *ClientHandler) SetCreditLimit(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "client")
	if !ok {
		return
	}
	var req partnerapp.SetCreditLimitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	line, err := h.accountService.SetCreditLimit(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// Deposit puts money on a client's balance
func (h *ClientHandler) Deposit(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "client")
	if !ok {
		return
	}
	var req partnerapp.DepositRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.accountService.DepositBalance(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// AddBalancePayment draws money down from a client's balance
func (h *ClientHandler) AddBalancePayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req partnerapp.LedgerPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.accountService.AddBalancePayment(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// CancelBalancePayment reverses a balance movement
func (h *ClientHandler) CancelBalancePayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "balance payment")
	if !ok {
		return
	}

	entry, err := h.accountService.CancelBalancePayment(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// DeleteBalancePayment removes a cancelled balance movement
func (h *ClientHandler) DeleteBalancePayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "balance payment")
	if !ok {
		return
	}

	if err := h.accountService.DeleteBalancePayment(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddCreditPayment repays used credit
func (h *ClientHandler) AddCreditPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req partnerapp.LedgerPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.accountService.AddCreditPayment(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// CancelCreditPayment re-debits a credit repayment, subject to the limit
func (h *ClientHandler) CancelCreditPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "credit payment")
	if !ok {
		return
	}

	entry, err := h.accountService.CancelCreditPayment(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// DeleteCreditPayment removes a cancelled credit repayment
func (h *ClientHandler) DeleteCreditPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "credit payment")
	if !ok {
		return
	}

	if err := h.accountService.DeleteCreditPayment(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

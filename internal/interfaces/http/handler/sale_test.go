package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	tradeapp "github.com/erp/backoffice/internal/application/trade"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleHandler_CreateAndGet(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(t, "10", 5)

	sale := s.createSale(t, sd, 2, false)
	assert.Equal(t, "pending", sale.Status)
	assert.True(t, decimal.NewFromInt(20).Equal(sale.TotalAmount))
	assert.NotEmpty(t, sale.SaleNumber)

	got := call[tradeapp.SaleResponse](t, s, http.MethodGet, "/sales/"+sale.ID.String(), nil, http.StatusOK)
	assert.True(t, got.Success)
	assert.Equal(t, sale.ID, got.Data.ID)
	require.Len(t, got.Data.Lines, 1)
	assert.Equal(t, sd.productID, got.Data.Lines[0].ProductID)
}

func TestSaleHandler_List(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(t, "10", 50)
	for i := 0; i < 3; i++ {
		s.createSale(t, sd, 1, false)
	}

	resp := call[[]tradeapp.SaleResponse](t, s, http.MethodGet,
		"/sales?page=1&page_size=2&client_id="+sd.clientID.String(), nil, http.StatusOK)
	assert.Len(t, resp.Data, 2)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)

	t.Run("rejects a malformed client filter", func(t *testing.T) {
		resp := call[any](t, s, http.MethodGet, "/sales?client_id=nope", nil, http.StatusBadRequest)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	})
}

func TestSaleHandler_Validation(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(t, "10", 5)

	t.Run("empty lines", func(t *testing.T) {
		resp := call[any](t, s, http.MethodPost, "/sales", map[string]any{
			"client_id":   sd.clientID,
			"currency_id": sd.currencyID,
			"lines":       []any{},
		}, http.StatusBadRequest)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.Fields)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/sales", json.RawMessage(`{"client_id":`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid path id", func(t *testing.T) {
		resp := call[any](t, s, http.MethodGet, "/sales/not-a-uuid", nil, http.StatusBadRequest)
		assert.Equal(t, "Invalid sale ID format", resp.Error.Message)
	})

	t.Run("unknown sale", func(t *testing.T) {
		resp := call[any](t, s, http.MethodGet, "/sales/"+uuid.NewString(), nil, http.StatusNotFound)
		assert.Equal(t, shared.CodeNotFound, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("missing actor", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/sales", map[string]any{}, "X-Anonymous", "1")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSaleHandler_InsufficientStock(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(t, "10", 1)

	resp := call[any](t, s, http.MethodPost, "/sales", map[string]any{
		"client_id":   sd.clientID,
		"currency_id": sd.currencyID,
		"lines":       []map[string]any{{"product_id": sd.productID, "quantity": 3}},
	}, http.StatusUnprocessableEntity)
	require.NotNil(t, resp.Error)
	assert.Equal(t, shared.CodeInsufficientStock, resp.Error.Code)
	assert.EqualValues(t, 1, resp.Error.Details["available"])
}

func TestSaleHandler_EditCancelDelete(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(t, "10", 5)
	sale := s.createSale(t, sd, 1, false)
	path := "/sales/" + sale.ID.String()

	edited := call[tradeapp.SaleResponse](t, s, http.MethodPut, path, map[string]any{
		"lines": []map[string]any{{"product_id": sd.productID, "quantity": 3}},
	}, http.StatusOK)
	assert.True(t, decimal.NewFromInt(30).Equal(edited.Data.TotalAmount))

	call[any](t, s, http.MethodDelete, path, nil, http.StatusUnprocessableEntity)

	cancelled := call[tradeapp.SaleResponse](t, s, http.MethodPost, path+"/cancel", nil, http.StatusOK)
	assert.Equal(t, "cancelled", cancelled.Data.Status)

	again := call[any](t, s, http.MethodPost, path+"/cancel", nil, http.StatusUnprocessableEntity)
	assert.Equal(t, shared.CodeAlreadyFinalized, again.Error.Code)

	call[any](t, s, http.MethodDelete, path, nil, http.StatusNoContent)
	call[any](t, s, http.MethodGet, path, nil, http.StatusNotFound)
}

func TestPaymentHandler_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(t, "10", 5)
	sale := s.createSale(t, sd, 2, false)

	over := s.pay(t, sd, sale.ID, "20.01", http.StatusUnprocessableEntity)
	assert.Equal(t, shared.CodeInsufficientFunds, over.Error.Code)

	partial := s.pay(t, sd, sale.ID, "5", http.StatusCreated)
	assert.Equal(t, "partial", partial.Data.Status)

	full := s.pay(t, sd, sale.ID, "15", http.StatusCreated)
	assert.Equal(t, "completed", full.Data.SaleStatus)

	list := call[[]tradeapp.PaymentResponse](t, s, http.MethodGet, "/sales/"+sale.ID.String()+"/payments", nil, http.StatusOK)
	assert.Len(t, list.Data, 2)

	got := call[tradeapp.PaymentResponse](t, s, http.MethodGet, "/payments/"+partial.Data.ID.String(), nil, http.StatusOK)
	assert.Equal(t, partial.Data.ID, got.Data.ID)

	paymentPath := "/payments/" + full.Data.ID.String()
	call[any](t, s, http.MethodDelete, paymentPath, nil, http.StatusUnprocessableEntity)
	cancelled := call[tradeapp.PaymentResponse](t, s, http.MethodPost, paymentPath+"/cancel", nil, http.StatusOK)
	assert.Equal(t, "cancelled", cancelled.Data.Status)
	call[any](t, s, http.MethodDelete, paymentPath, nil, http.StatusNoContent)

	reopened := call[tradeapp.SaleResponse](t, s, http.MethodGet, "/sales/"+sale.ID.String(), nil, http.StatusOK)
	assert.Equal(t, "pending", reopened.Data.Status)
	assert.True(t, decimal.NewFromInt(5).Equal(reopened.Data.PaidAmount))
}

func TestReturnAndRefundHandlers(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(t, "10", 5)
	sale := s.createSale(t, sd, 2, false)
	s.pay(t, sd, sale.ID, "20", http.StatusCreated)

	over := call[any](t, s, http.MethodPost, "/returns", map[string]any{
		"sale_id":   sale.ID,
		"client_id": sd.clientID,
		"lines":     []map[string]any{{"product_id": sd.productID, "quantity": 3}},
	}, http.StatusUnprocessableEntity)
	assert.NotEmpty(t, over.Error.Code)

	ret := call[tradeapp.ReturnResponse](t, s, http.MethodPost, "/returns", map[string]any{
		"sale_id":   sale.ID,
		"client_id": sd.clientID,
		"lines":     []map[string]any{{"product_id": sd.productID, "quantity": 1}},
	}, http.StatusCreated)
	require.NotNil(t, ret.Data.RefundID)
	assert.True(t, decimal.NewFromInt(10).Equal(ret.Data.RefundEligible))

	returns := call[[]tradeapp.ReturnResponse](t, s, http.MethodGet, "/sales/"+sale.ID.String()+"/returns", nil, http.StatusOK)
	assert.Len(t, returns.Data, 1)

	refund := call[tradeapp.RefundResponse](t, s, http.MethodGet, "/sales/"+sale.ID.String()+"/refund", nil, http.StatusOK)
	assert.Equal(t, *ret.Data.RefundID, refund.Data.ID)
	refundPath := "/refunds/" + refund.Data.ID.String()

	updated := call[tradeapp.RefundResponse](t, s, http.MethodPut, refundPath, map[string]any{"remarks": "boxed"}, http.StatusOK)
	assert.Equal(t, "boxed", updated.Data.Remarks)

	tooMuch := call[any](t, s, http.MethodPost, refundPath+"/payments", map[string]any{"amount": "10.01"}, http.StatusUnprocessableEntity)
	assert.Equal(t, shared.CodeInsufficientFunds, tooMuch.Error.Code)

	rp := call[tradeapp.RefundPaymentResponse](t, s, http.MethodPost, refundPath+"/payments", map[string]any{"amount": "4"}, http.StatusCreated)
	assert.True(t, decimal.NewFromInt(4).Equal(rp.Data.Amount))

	payments := call[[]tradeapp.RefundPaymentResponse](t, s, http.MethodGet, refundPath+"/payments", nil, http.StatusOK)
	assert.Len(t, payments.Data, 1)

	rpPath := "/refund-payments/" + rp.Data.ID.String()
	call[tradeapp.RefundPaymentResponse](t, s, http.MethodPost, rpPath+"/cancel", nil, http.StatusOK)
	call[any](t, s, http.MethodDelete, rpPath, nil, http.StatusNoContent)

	got := call[tradeapp.RefundResponse](t, s, http.MethodGet, refundPath, nil, http.StatusOK)
	assert.True(t, got.Data.RefundedAmount.IsZero())
	assert.True(t, decimal.NewFromInt(10).Equal(got.Data.TotalRefundAmount))

	fetched := call[tradeapp.ReturnResponse](t, s, http.MethodGet, "/returns/"+ret.Data.ID.String(), nil, http.StatusOK)
	assert.Equal(t, ret.Data.ID, fetched.Data.ID)
}

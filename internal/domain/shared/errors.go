package shared

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error codes shared by every bounded context
const (
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidState        = "INVALID_STATE"
	CodeAlreadyFinalized    = "ALREADY_FINALIZED"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeInsufficientFunds   = "PAYMENT_EXCEEDS_REMAINING"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeCreditLimitExceeded = "CREDIT_LIMIT_EXCEEDED"
	CodeCurrencyMismatch    = "CURRENCY_MISMATCH"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeStorage             = "STORAGE_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so that sentinel comparisons survive added details
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithDetail returns a copy of the error carrying an extra detail field
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrAlreadyFinalized    = NewDomainError(CodeAlreadyFinalized, "Resource is already finalized")
	ErrInsufficientStock   = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrInsufficientFunds   = NewDomainError(CodeInsufficientFunds, "Amount exceeds the remaining balance")
	ErrInsufficientBalance = NewDomainError(CodeInsufficientBalance, "Insufficient balance available")
	ErrCreditLimitExceeded = NewDomainError(CodeCreditLimitExceeded, "Credit limit exceeded")
	ErrCurrencyMismatch    = NewDomainError(CodeCurrencyMismatch, "Currency does not match")
	ErrStorage             = NewDomainError(CodeStorage, "Storage failure")
)

// NotFound reports a missing entity
func NotFound(entity string, id fmt.Stringer) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s not found", entity, id),
		Details: map[string]any{"entity": entity, "id": id.String()},
	}
}

// InvalidState reports an operation attempted in the wrong lifecycle state
func InvalidState(entity, expected, actual string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidState,
		Message: fmt.Sprintf("%s must be %s, but is %s", entity, expected, actual),
		Details: map[string]any{"entity": entity, "expected": expected, "actual": actual},
	}
}

// AlreadyFinalized reports an action on a completed or cancelled entity
func AlreadyFinalized(entity, status string) *DomainError {
	return &DomainError{
		Code:    CodeAlreadyFinalized,
		Message: fmt.Sprintf("%s is already %s", entity, status),
		Details: map[string]any{"entity": entity, "status": status},
	}
}

// InsufficientStock reports that a product cannot cover the required quantity
func InsufficientStock(product string, required, available int64) *DomainError {
	return &DomainError{
		Code:    CodeInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for product %s: required %d, available %d", product, required, available),
		Details: map[string]any{"product": product, "required": required, "available": available},
	}
}

// InsufficientFunds reports an amount above what remains to be paid or refunded
func InsufficientFunds(amount, remaining decimal.Decimal) *DomainError {
	return &DomainError{
		Code:    CodeInsufficientFunds,
		Message: fmt.Sprintf("Amount %s exceeds remaining %s", amount.StringFixed(2), remaining.StringFixed(2)),
		Details: map[string]any{"amount": amount.StringFixed(2), "remaining": remaining.StringFixed(2)},
	}
}

// CreditLimitExceeded reports a credit debit that would overflow the limit
func CreditLimitExceeded(currency string, limit, used decimal.Decimal) *DomainError {
	return &DomainError{
		Code:    CodeCreditLimitExceeded,
		Message: fmt.Sprintf("Credit limit exceeded for %s: limit %s, used %s", currency, limit.StringFixed(2), used.StringFixed(2)),
		Details: map[string]any{"currency": currency, "limit": limit.StringFixed(2), "used": used.StringFixed(2)},
	}
}

// CurrencyMismatch reports two currencies that should have been equal
func CurrencyMismatch(expected, actual string) *DomainError {
	return &DomainError{
		Code:    CodeCurrencyMismatch,
		Message: fmt.Sprintf("Currency mismatch: expected %s, got %s", expected, actual),
		Details: map[string]any{"expected": expected, "actual": actual},
	}
}

// StorageError wraps an unexpected persistence failure
func StorageError(err error) *DomainError {
	return &DomainError{
		Code:    CodeStorage,
		Message: "Storage failure",
		cause:   err,
	}
}

// AsStorageError passes domain errors through and wraps everything else
func AsStorageError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return StorageError(err)
}

// IsNotFound reports whether err is a NOT_FOUND domain error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

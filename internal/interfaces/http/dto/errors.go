package dto

import (
	"net/http"
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain codes
// (shared.Code*) are passed to clients unchanged.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeUnauthorized is used when the caller cannot be identified
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeTokenExpired is used when the bearer token has expired
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request binding fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeAlreadyExists is used when a unique key is taken
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeRequestTimeout is used when the handler exceeded its deadline
	ErrCodeRequestTimeout = "REQUEST_TIMEOUT"
	// ErrCodePayloadTooLarge is used when the body exceeds the configured limit
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	shared.CodeStorage: http.StatusInternalServerError,

	// Caller errors
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeRequestTimeout:  http.StatusGatewayTimeout,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	// Resource errors
	shared.CodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:           http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	shared.CodeInvalidInput:        http.StatusBadRequest,
	shared.CodeInvalidState:        http.StatusUnprocessableEntity,
	shared.CodeAlreadyFinalized:    http.StatusUnprocessableEntity,
	shared.CodeInsufficientStock:   http.StatusUnprocessableEntity,
	shared.CodeInsufficientFunds:   http.StatusUnprocessableEntity,
	shared.CodeInsufficientBalance: http.StatusUnprocessableEntity,
	shared.CodeCreditLimitExceeded: http.StatusUnprocessableEntity,
	shared.CodeCurrencyMismatch:    http.StatusUnprocessableEntity,
	"RETURN_EXCEEDS_SOLD":          http.StatusUnprocessableEntity,
	"BASE_CURRENCY_RATE":           http.StatusUnprocessableEntity,
	"CLIENT_MISMATCH":              http.StatusUnprocessableEntity,
	"NO_ITEMS":                     http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted INVALID_* codes are input errors; anything else is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errorCodeAliases folds codes produced by older clients and libraries into the current set
var errorCodeAliases = map[string]string{
	"ERR_NOT_FOUND":            shared.CodeNotFound,
	"ERR_INVALID_INPUT":        shared.CodeInvalidInput,
	"ERR_VALIDATION":           ErrCodeValidation,
	"ERR_CONCURRENCY_CONFLICT": shared.CodeConcurrencyConflict,
	"ERR_INTERNAL":             ErrCodeInternal,
	"INTERNAL":                 ErrCodeInternal,
}

// NormalizeErrorCode converts an aliased error code to its current form.
// Unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if c, ok := errorCodeAliases[code]; ok {
		return c
	}
	return code
}

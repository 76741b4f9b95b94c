package dto

import (
	"net/http"

	"github.com/cafeops/backend/internal/domain/shared"
)

// Domain error codes are passed through unchanged so clients see the same
// code the service raised.
const (
	ErrCodeNotFound             = shared.CodeNotFound
	ErrCodeAlreadyExists        = shared.CodeAlreadyExists
	ErrCodeValidation           = shared.CodeValidation
	ErrCodeForbidden            = shared.CodeForbidden
	ErrCodeUnauthorized         = shared.CodeUnauthorized
	ErrCodeInvalidState         = shared.CodeInvalidState
	ErrCodeInsufficientStock    = shared.CodeInsufficientStock
	ErrCodeAlreadyReverted      = shared.CodeAlreadyReverted
	ErrCodeRelationshipRequired = shared.CodeRelationshipRequired
	ErrCodeIncompatibleModifier = shared.CodeIncompatibleModifier
	ErrCodeInsufficientMargin   = shared.CodeInsufficientMargin
)

// Transport error codes
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "INVALID_TOKEN"
	ErrCodeTokenRevoked    = "TOKEN_REVOKED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeAlreadyExists:   http.StatusConflict,
	ErrCodeAlreadyReverted: http.StatusConflict,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	// business rule violations -> 422
	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:    http.StatusUnprocessableEntity,
	ErrCodeRelationshipRequired: http.StatusUnprocessableEntity,
	ErrCodeIncompatibleModifier: http.StatusUnprocessableEntity,
	ErrCodeInsufficientMargin:   http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are treated as internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

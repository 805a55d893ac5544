package dto

import (
	"net/http"

	"github.com/retailcore/backend/internal/domain/shared"
)

// Transport-level error codes for failures that never reach the domain
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidJSON is used when body parsing or binding fails
	ErrCodeInvalidJSON = "INVALID_JSON"
	// ErrCodeUnauthorized is used when the acting user is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeInternal:     http.StatusInternalServerError,

	shared.CodeNotFound:               http.StatusNotFound,
	shared.CodeLotNotFound:            http.StatusNotFound,
	shared.CodeDuplicateReturn:        http.StatusConflict,
	shared.CodeInvalidStateTransition: http.StatusConflict,
	shared.CodeValidation:             http.StatusUnprocessableEntity,
	shared.CodeInsufficientStock:      http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for an error code,
// defaulting to 500 for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

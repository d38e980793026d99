package dto

import (
	"net/http"

	"github.com/opsdesk/backend/internal/domain/shared"
)

// HTTP-level error codes for failures that never reach the domain
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Business rule violations map to 422 so clients can tell a well-formed but
// rejected request apart from a malformed one.
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeNotFound:         http.StatusNotFound,
	shared.CodeAlreadyExists:    http.StatusConflict,
	shared.CodeValidationFailed: http.StatusBadRequest,

	shared.CodeNegativeStock:      http.StatusUnprocessableEntity,
	shared.CodeCompositeNoStock:   http.StatusUnprocessableEntity,
	shared.CodeInvalidTransition:  http.StatusUnprocessableEntity,
	shared.CodeGuardViolation:     http.StatusUnprocessableEntity,
	shared.CodeMissingObservation: http.StatusUnprocessableEntity,
	shared.CodeInactiveLocation:   http.StatusUnprocessableEntity,

	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

package shared

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the inventory core
const (
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNegativeStock      = "NEGATIVE_STOCK"
	CodeCompositeNoStock   = "COMPOSITE_HAS_NO_STOCK"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeGuardViolation     = "GUARD_VIOLATION"
	CodeMissingObservation = "MISSING_OBSERVATION"
	CodeInactiveLocation   = "INACTIVE_LOCATION"
)

// Common domain errors
var (
	ErrNotFound      = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists = NewDomainError(CodeAlreadyExists, "Resource already exists")
)

// NewNotFoundError creates a NOT_FOUND error naming the missing resource
func NewNotFoundError(resource string, id uuid.UUID) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %s not found", resource, id))
}

// NewValidationError creates a VALIDATION_FAILED error
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidationFailed, message)
}

// NewNegativeStockError creates a NEGATIVE_STOCK error with the offending quantities
func NewNegativeStockError(current, delta fmt.Stringer) *DomainError {
	return NewDomainError(CodeNegativeStock,
		fmt.Sprintf("Adjustment of %s would drive stock below zero (current %s)", delta.String(), current.String()))
}

// NewInvalidTransitionError creates an INVALID_TRANSITION error
func NewInvalidTransitionError(from, to string) *DomainError {
	return NewDomainError(CodeInvalidTransition, fmt.Sprintf("Cannot transition from %s to %s", from, to))
}

// NewGuardViolationError creates a GUARD_VIOLATION error
func NewGuardViolationError(message string) *DomainError {
	return NewDomainError(CodeGuardViolation, message)
}

// HasCode reports whether err is a DomainError carrying the given code
func HasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	var le *LineValidationError
	if errors.As(err, &le) {
		for _, l := range le.Lines {
			if l.Code == code {
				return true
			}
		}
	}
	return false
}

// LineError describes a validation failure on a single document line
type LineError struct {
	LineNo  int       `json:"lineNo"`
	ItemID  uuid.UUID `json:"itemId"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// LineValidationError aggregates per-line validation failures so callers see
// every offending line at once. The batch is rejected as a whole.
type LineValidationError struct {
	Lines []LineError `json:"lines"`
}

// Error implements the error interface
func (e *LineValidationError) Error() string {
	msgs := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		msgs = append(msgs, fmt.Sprintf("line %d: %s", l.LineNo, l.Message))
	}
	return strings.Join(msgs, "; ")
}

// Add records a per-line failure
func (e *LineValidationError) Add(lineNo int, itemID uuid.UUID, code, message string) {
	e.Lines = append(e.Lines, LineError{LineNo: lineNo, ItemID: itemID, Code: code, Message: message})
}

// HasErrors reports whether any line failed validation
func (e *LineValidationError) HasErrors() bool {
	return len(e.Lines) > 0
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error types
var (
	ErrNotFound          = errors.New("resource not found")
	ErrBadRequest        = errors.New("bad request")
	ErrConflict          = errors.New("resource conflict")
	ErrInternal          = errors.New("internal server error")
	ErrValidation        = errors.New("validation error")
	ErrMissingData       = errors.New("required fact source missing")
	ErrDuplicateRule     = errors.New("duplicate replenishment rule")
	ErrInvalidRuleConfig = errors.New("invalid replenishment rule configuration")
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// Common error constructors

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:        ErrInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "VALIDATION_ERROR",
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// Pipeline run errors. These are the run-fatal conditions of the batch
// engine; each carries a distinct code so operators can triage missing
// upstream data vs. corrupt master data vs. validation violations.

// MissingData signals an empty or absent fact source for the business date.
func MissingData(source, businessDate string) *AppError {
	return &AppError{
		Err:        ErrMissingData,
		Code:       "MISSING_DATA",
		Message:    fmt.Sprintf("no %s facts found for %s", source, businessDate),
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// DuplicateRule signals more than one replenishment rule for a SKU.
func DuplicateRule(sku string) *AppError {
	return &AppError{
		Err:        ErrDuplicateRule,
		Code:       "DUPLICATE_RULE",
		Message:    fmt.Sprintf("multiple replenishment rules found for sku %s", sku),
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// InvalidRuleConfig signals a rule whose case size cannot be used for rounding.
func InvalidRuleConfig(sku string, caseSize int) *AppError {
	return &AppError{
		Err:        ErrInvalidRuleConfig,
		Code:       "INVALID_RULE_CONFIG",
		Message:    fmt.Sprintf("replenishment rule for sku %s has invalid case size %d", sku, caseSize),
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}

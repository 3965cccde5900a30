package model

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is the error envelope returned by every failing endpoint:
// {"success": false, "message": "...", "errors": [...]}.
// Status is the HTTP status code and is not serialized.
type APIError struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Status  int          `json:"-"`
}

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Status, e.Message)
}

// WriteJSON writes the error as a JSON response
func (e *APIError) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e)
}

// Common error constructors

func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

func NewConflictError(detail string) *APIError {
	return &APIError{
		Message: detail,
		Status:  http.StatusConflict,
	}
}

// NewInvalidStateError covers operations that are illegal for the
// entity's current state (inactive activity, already confirmed, ...).
func NewInvalidStateError(detail string) *APIError {
	return &APIError{
		Message: detail,
		Status:  http.StatusBadRequest,
	}
}

func NewValidationError(errors []FieldError) *APIError {
	message := "one or more fields failed validation"
	if len(errors) > 0 {
		message = fmt.Sprintf("%s: %s", errors[0].Field, errors[0].Message)
		if len(errors) > 1 {
			message = fmt.Sprintf("%s (and %d more errors)", message, len(errors)-1)
		}
	}
	return &APIError{
		Message: message,
		Errors:  errors,
		Status:  http.StatusBadRequest,
	}
}

func NewBadRequestError(detail string) *APIError {
	return &APIError{
		Message: detail,
		Status:  http.StatusBadRequest,
	}
}

func NewUnauthorizedError(detail string) *APIError {
	return &APIError{
		Message: detail,
		Status:  http.StatusUnauthorized,
	}
}

func NewForbiddenError(detail string) *APIError {
	return &APIError{
		Message: detail,
		Status:  http.StatusForbidden,
	}
}

// NewUpstreamError reports an external collaborator failure that could
// not be recovered by a fallback provider.
func NewUpstreamError(detail string) *APIError {
	return &APIError{
		Message: detail,
		Status:  http.StatusBadGateway,
	}
}

func NewInternalError(detail string) *APIError {
	if detail == "" {
		detail = "an unexpected error occurred"
	}
	return &APIError{
		Message: detail,
		Status:  http.StatusInternalServerError,
	}
}

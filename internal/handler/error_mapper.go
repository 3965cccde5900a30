package handler

import (
	"errors"

	"github.com/recanto/api/internal/model"
	"github.com/recanto/api/internal/service"
)

// MapServiceError converts a service error to an APIError response.
// This centralizes error handling for all handlers, keeping HTTP
// status codes consistent across the API.
func MapServiceError(err error) *model.APIError {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authentication → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())

	// ===== Not Found → 404 =====
	case errors.Is(err, service.ErrClientNotFound):
		return model.NewNotFoundError("client")
	case errors.Is(err, service.ErrActivityNotFound):
		return model.NewNotFoundError("activity")
	case errors.Is(err, service.ErrResponsibleNotFound):
		return model.NewNotFoundError("responsible")
	case errors.Is(err, service.ErrEnrollmentNotFound):
		return model.NewNotFoundError("enrollment")
	case errors.Is(err, service.ErrReviewNotFound):
		return model.NewNotFoundError("review")
	case errors.Is(err, service.ErrAddressNotFound):
		return model.NewNotFoundError("address")

	// ===== Duplicates → 409 =====
	case errors.Is(err, service.ErrAlreadyEnrolled),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrMatriculaTaken):
		return model.NewConflictError(err.Error())

	// ===== Capacity and schedule → 400 =====
	// A full activity and a schedule overlap are both client-visible
	// business rejections, not resource conflicts.
	case errors.Is(err, service.ErrNoSeatsAvailable):
		return model.NewInvalidStateError(err.Error())
	case errors.Is(err, service.ErrScheduleConflict):
		return model.NewInvalidStateError(err.Error())
	case errors.Is(err, service.ErrCapacityBelowOccupied):
		return model.NewValidationError([]model.FieldError{{Field: "capacity", Message: err.Error()}})

	// ===== Invalid state → 400 =====
	case errors.Is(err, service.ErrActivityNotOpen),
		errors.Is(err, service.ErrAlreadyConfirmed),
		errors.Is(err, service.ErrAlreadyCanceled),
		errors.Is(err, service.ErrActivityHasEnrollments),
		errors.Is(err, service.ErrResponsibleInUse),
		errors.Is(err, service.ErrReviewArchived):
		return model.NewInvalidStateError(err.Error())

	// ===== Input validation → 400 =====
	case errors.Is(err, service.ErrInvalidCEP):
		return model.NewValidationError([]model.FieldError{{Field: "cep", Message: err.Error()}})

	// ===== External providers → 502 =====
	case errors.Is(err, service.ErrAddressProviderDown):
		return model.NewUpstreamError(err.Error())

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// Package handler provides the HTTP endpoints of the enrollment API.
//
// Handlers are organized by domain: clients, activities, responsibles,
// enrollments, reviews and CEP lookup. Each handler struct wraps the
// service it serves and is created by a NewXxxHandler constructor.
//
// # Handler Pattern
//
//   - DecodeJSON parses the body; unknown fields are rejected
//   - Request structs validate themselves, returning []model.FieldError
//   - Service errors go through MapServiceError, which assigns the
//     HTTP status for every service sentinel
//   - WriteSuccess and WritePage emit the {success, data, pagination}
//     envelope; WriteError emits {success:false, message, errors}
//
// # Authentication
//
// Protected routes run behind middleware.Auth; staff-only routes add
// middleware.RequireStaff. Handlers that need the caller's identity
// read it with middleware.GetClientID or middleware.GetClaims.
//
// # Example Usage
//
//	h := NewEnrollmentHandler(enrollmentService)
//	mux.HandleFunc("POST /api/inscricoes", h.Create)
//	mux.HandleFunc("PUT /api/inscricoes/{id}/confirmar", h.Confirm)
package handler

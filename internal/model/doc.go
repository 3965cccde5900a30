// Package model defines domain entities and data structures for the
// Recanto API.
//
// The package contains all struct definitions for domain objects,
// request/response types, and error definitions. Models are used across
// all layers of the application.
//
// # Domain Entities
//
// Core domain entities:
//
//   - Client: registered member, soft-deleted via the Active flag
//   - Activity: schedulable offering with capacity and occupied counts
//   - Responsible: staff member accountable for activities
//   - Enrollment: seat reservation linking a client to an activity
//   - Review: client or visitor feedback, answered by staff
//
// # Validation
//
// Request types carry a Validate() []FieldError method checked at the
// API boundary before anything reaches a workflow:
//
//	if errs := req.Validate(); len(errs) > 0 {
//	    WriteError(w, model.NewValidationError(errs))
//	    return
//	}
//
// # Error Envelope
//
// API errors serialize as {"success": false, "message": ..., "errors": [...]};
// see errors.go for the constructors.
package model

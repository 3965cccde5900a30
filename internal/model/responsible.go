package model

import (
	"strings"
	"time"
)

// Responsible is the staff member accountable for one or more
// activities. Matricula (badge number) is unique across the center.
type Responsible struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Matricula   string    `json:"matricula"`
	Unit        string    `json:"unit"`
	Specialties []string  `json:"specialties,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const MaxSpecialties = 10

// CreateResponsibleRequest is the staff payload for registering an instructor.
type CreateResponsibleRequest struct {
	Name        string   `json:"name"`
	Matricula   string   `json:"matricula"`
	Unit        string   `json:"unit"`
	Specialties []string `json:"specialties,omitempty"`
}

// Validate validates a CreateResponsibleRequest
func (r *CreateResponsibleRequest) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(r.Name) == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	}

	if strings.TrimSpace(r.Matricula) == "" {
		errors = append(errors, FieldError{Field: "matricula", Message: "matricula is required"})
	}

	if strings.TrimSpace(r.Unit) == "" {
		errors = append(errors, FieldError{Field: "unit", Message: "unit is required"})
	}

	if len(r.Specialties) > MaxSpecialties {
		errors = append(errors, FieldError{Field: "specialties", Message: "too many specialties"})
	}

	return errors
}

// UpdateResponsibleRequest carries optional updates. Matricula is
// immutable after creation.
type UpdateResponsibleRequest struct {
	Name        *string  `json:"name,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
}

// Validate validates an UpdateResponsibleRequest
func (r *UpdateResponsibleRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name cannot be empty"})
	}

	if len(r.Specialties) > MaxSpecialties {
		errors = append(errors, FieldError{Field: "specialties", Message: "too many specialties"})
	}

	return errors
}

// ResponsibleFilters narrows responsible listings.
type ResponsibleFilters struct {
	Unit      *string
	Specialty *string
}

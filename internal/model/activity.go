package model

import (
	"strings"
	"time"
)

// Activity represents a schedulable offering with a finite number of
// seats. Occupied counts non-canceled reservations and is mutated only
// through the enrollment workflow's transactional writes, never by a
// generic update.
type Activity struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Unit          string    `json:"unit"`
	ResponsibleID string    `json:"responsibleId"`
	Capacity      int       `json:"capacity"`
	Occupied      int       `json:"occupied"`
	StartsAt      time.Time `json:"startsAt"`
	EndsAt        time.Time `json:"endsAt"`
	Price         float64   `json:"price"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Activity status constants
const (
	ActivityStatusActive   = "active"
	ActivityStatusInactive = "inactive"
)

// Field limits
const (
	MaxActivityNameLength = 120
	MaxDescriptionLength  = 2000
	MaxActivityCapacity   = 10_000
)

// HasSeats reports whether at least one seat is free.
func (a *Activity) HasSeats() bool {
	return a.Occupied < a.Capacity
}

// Overlaps reports whether the activity's schedule window intersects
// [start, end] under inclusive-bounds comparison.
func (a *Activity) Overlaps(start, end time.Time) bool {
	return !a.StartsAt.After(end) && !a.EndsAt.Before(start)
}

// CreateActivityRequest is the staff payload for creating an activity.
type CreateActivityRequest struct {
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	Unit          string  `json:"unit"`
	ResponsibleID string  `json:"responsibleId"`
	Capacity      int     `json:"capacity"`
	StartsAt      string  `json:"startsAt"` // RFC 3339
	EndsAt        string  `json:"endsAt"`   // RFC 3339
	Price         float64 `json:"price"`
}

// Window parses the schedule window. Validate reports format errors.
func (r *CreateActivityRequest) Window() (time.Time, time.Time) {
	start, _ := time.Parse(time.RFC3339, r.StartsAt)
	end, _ := time.Parse(time.RFC3339, r.EndsAt)
	return start, end
}

// Validate validates a CreateActivityRequest
func (r *CreateActivityRequest) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(r.Name) == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > MaxActivityNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name too long"})
	}

	if strings.TrimSpace(r.Unit) == "" {
		errors = append(errors, FieldError{Field: "unit", Message: "unit is required"})
	}

	if r.ResponsibleID == "" {
		errors = append(errors, FieldError{Field: "responsibleId", Message: "responsibleId is required"})
	}

	if r.Capacity <= 0 {
		errors = append(errors, FieldError{Field: "capacity", Message: "capacity must be positive"})
	} else if r.Capacity > MaxActivityCapacity {
		errors = append(errors, FieldError{Field: "capacity", Message: "capacity too large"})
	}

	if r.Price < 0 {
		errors = append(errors, FieldError{Field: "price", Message: "price cannot be negative"})
	}

	if r.Description != nil && len(*r.Description) > MaxDescriptionLength {
		errors = append(errors, FieldError{Field: "description", Message: "description too long"})
	}

	start, errStart := time.Parse(time.RFC3339, r.StartsAt)
	if errStart != nil {
		errors = append(errors, FieldError{Field: "startsAt", Message: "startsAt must be an RFC 3339 timestamp"})
	}
	end, errEnd := time.Parse(time.RFC3339, r.EndsAt)
	if errEnd != nil {
		errors = append(errors, FieldError{Field: "endsAt", Message: "endsAt must be an RFC 3339 timestamp"})
	}
	if errStart == nil && errEnd == nil && !start.Before(end) {
		errors = append(errors, FieldError{Field: "endsAt", Message: "endsAt must be after startsAt"})
	}

	return errors
}

// UpdateActivityRequest carries optional activity updates. Occupied is
// deliberately absent: seat counts move only through enrollments.
type UpdateActivityRequest struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Unit          *string  `json:"unit,omitempty"`
	ResponsibleID *string  `json:"responsibleId,omitempty"`
	Capacity      *int     `json:"capacity,omitempty"`
	StartsAt      *string  `json:"startsAt,omitempty"`
	EndsAt        *string  `json:"endsAt,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Status        *string  `json:"status,omitempty"`
}

// Validate validates an UpdateActivityRequest
func (r *UpdateActivityRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name cannot be empty"})
	}

	if r.Capacity != nil {
		if *r.Capacity <= 0 {
			errors = append(errors, FieldError{Field: "capacity", Message: "capacity must be positive"})
		} else if *r.Capacity > MaxActivityCapacity {
			errors = append(errors, FieldError{Field: "capacity", Message: "capacity too large"})
		}
	}

	if r.Price != nil && *r.Price < 0 {
		errors = append(errors, FieldError{Field: "price", Message: "price cannot be negative"})
	}

	if r.Status != nil && *r.Status != ActivityStatusActive && *r.Status != ActivityStatusInactive {
		errors = append(errors, FieldError{Field: "status", Message: "status must be active or inactive"})
	}

	if r.StartsAt != nil {
		if _, err := time.Parse(time.RFC3339, *r.StartsAt); err != nil {
			errors = append(errors, FieldError{Field: "startsAt", Message: "startsAt must be an RFC 3339 timestamp"})
		}
	}
	if r.EndsAt != nil {
		if _, err := time.Parse(time.RFC3339, *r.EndsAt); err != nil {
			errors = append(errors, FieldError{Field: "endsAt", Message: "endsAt must be an RFC 3339 timestamp"})
		}
	}

	return errors
}

// ActivityFilters narrows activity listings.
type ActivityFilters struct {
	Unit   *string
	Status *string
}

package model

import "time"

// Enrollment links a Client to an Activity and carries the seat
// reservation's status and payment state. At most one non-canceled
// enrollment may exist per (client, activity) pair.
//
// Status moves only forward (pending -> confirmed), except cancellation,
// which is reachable from any non-canceled state and symmetrically
// releases the activity seat.
type Enrollment struct {
	ID         string `json:"id"`
	ClientID   string `json:"clientId"`
	ActivityID string `json:"activityId"`

	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	AmountPaid    float64 `json:"amountPaid"`

	Notes        *string `json:"notes,omitempty"`
	CancelReason *string `json:"cancelReason,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	CanceledAt  *time.Time `json:"canceledAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Enrollment status constants
const (
	EnrollmentStatusPending    = "pending"
	EnrollmentStatusConfirmed  = "confirmed"
	EnrollmentStatusCanceled   = "canceled"
	EnrollmentStatusWaitlisted = "waitlisted"
)

// Payment status constants
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusCanceled = "canceled"
)

const MaxEnrollmentNotes = 500

// IsActive reports whether the enrollment holds a seat (pending or
// confirmed; waitlisted and canceled enrollments hold none).
func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusPending || e.Status == EnrollmentStatusConfirmed
}

// CreateEnrollmentRequest is the payload for POST /api/inscricoes.
// Field names follow the public API contract.
type CreateEnrollmentRequest struct {
	IDCliente   string  `json:"idCliente"`
	IDAtividade string  `json:"idAtividade"`
	Observacoes *string `json:"observacoes,omitempty"`
}

// Validate validates a CreateEnrollmentRequest
func (r *CreateEnrollmentRequest) Validate() []FieldError {
	var errors []FieldError

	if r.IDCliente == "" {
		errors = append(errors, FieldError{Field: "idCliente", Message: "idCliente is required"})
	}

	if r.IDAtividade == "" {
		errors = append(errors, FieldError{Field: "idAtividade", Message: "idAtividade is required"})
	}

	if r.Observacoes != nil && len(*r.Observacoes) > MaxEnrollmentNotes {
		errors = append(errors, FieldError{Field: "observacoes", Message: "observacoes too long"})
	}

	return errors
}

// CancelEnrollmentRequest is the payload for PUT /api/inscricoes/{id}/cancelar.
type CancelEnrollmentRequest struct {
	Motivo *string `json:"motivo,omitempty"`
}

// Validate validates a CancelEnrollmentRequest
func (r *CancelEnrollmentRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Motivo != nil && len(*r.Motivo) > MaxEnrollmentNotes {
		errors = append(errors, FieldError{Field: "motivo", Message: "motivo too long"})
	}

	return errors
}

// EnrollmentSummary joins an enrollment with client and activity
// display fields for listings.
type EnrollmentSummary struct {
	Enrollment
	ClientName   string    `json:"clientName"`
	ActivityName string    `json:"activityName"`
	ActivityUnit string    `json:"activityUnit"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
}

// EnrollmentFilters narrows enrollment queries.
type EnrollmentFilters struct {
	ClientID   *string
	ActivityID *string
	Status     *string
	Unit       *string
	From       *time.Time
	To         *time.Time
}

// EnrollmentReport aggregates enrollments by status and revenue for the
// staff dashboard.
type EnrollmentReport struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Confirmed  int `json:"confirmed"`
	Canceled   int `json:"canceled"`
	Waitlisted int `json:"waitlisted"`

	// TotalRevenue sums amountPaid over non-canceled enrollments;
	// PaidRevenue over those with paymentStatus paid.
	TotalRevenue float64 `json:"totalRevenue"`
	PaidRevenue  float64 `json:"paidRevenue"`
}

package service

import "errors"

// Not found
var (
	ErrClientNotFound      = errors.New("client not found")
	ErrActivityNotFound    = errors.New("activity not found")
	ErrResponsibleNotFound = errors.New("responsible not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrAddressNotFound     = errors.New("address not found for cep")
)

// Invalid state
var (
	ErrActivityNotOpen        = errors.New("activity not open for enrollment")
	ErrAlreadyConfirmed       = errors.New("enrollment already confirmed")
	ErrAlreadyCanceled        = errors.New("enrollment already canceled")
	ErrActivityHasEnrollments = errors.New("activity still has occupied seats")
	ErrResponsibleInUse       = errors.New("responsible is assigned to active activities")
	ErrReviewArchived         = errors.New("review is archived")
)

// Capacity
var ErrNoSeatsAvailable = errors.New("no seats available for this activity")

// Conflicts
var (
	ErrAlreadyEnrolled = errors.New("already enrolled in this activity")
	ErrEmailTaken      = errors.New("email already registered")
	ErrMatriculaTaken  = errors.New("matricula already registered")
)

// Input
var (
	ErrCapacityBelowOccupied = errors.New("capacity below confirmed enrollments")
	ErrInvalidCEP            = errors.New("cep must have 8 digits")
)

// Auth
var ErrInvalidCredentials = errors.New("invalid email or password")

// External collaborators
var (
	ErrAddressProviderDown = errors.New("address lookup providers unavailable")
	ErrNoDrafterConfigured = errors.New("no response drafter configured")
)

// ErrScheduleConflict is the sentinel for schedule-overlap rejections;
// the concrete error carries the conflicting activity's name.
var ErrScheduleConflict = errors.New("schedule conflict")

// ScheduleConflictError reports a schedule overlap with one of the
// client's confirmed enrollments.
type ScheduleConflictError struct {
	ActivityName string
}

func (e *ScheduleConflictError) Error() string {
	return "schedule overlap with " + e.ActivityName
}

// Is makes errors.Is(err, ErrScheduleConflict) work for the typed error.
func (e *ScheduleConflictError) Is(target error) bool {
	return target == ErrScheduleConflict
}

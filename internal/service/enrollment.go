package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/recanto/api/internal/model"
	"github.com/recanto/api/internal/repository"
)

// EnrollmentRepository defines the interface for enrollment storage
type EnrollmentRepository interface {
	CreateWithReservation(ctx context.Context, enrollment *model.Enrollment) error
	CancelWithRelease(ctx context.Context, enrollmentID, activityID string, reason *string) error
	Get(ctx context.Context, enrollmentID string) (*model.Enrollment, error)
	GetActiveByClientAndActivity(ctx context.Context, clientID, activityID string) (*model.Enrollment, error)
	GetConfirmedByClient(ctx context.Context, clientID string) ([]*model.Enrollment, error)
	Confirm(ctx context.Context, enrollmentID string) (*model.Enrollment, error)
	List(ctx context.Context, filters *model.EnrollmentFilters, limit, offset int) ([]*model.EnrollmentSummary, error)
	Count(ctx context.Context, filters *model.EnrollmentFilters) (int, error)
	Report(ctx context.Context, filters *model.EnrollmentFilters) (*model.EnrollmentReport, error)
}

// ClientReader is the slice of client storage the workflow needs
type ClientReader interface {
	GetByID(ctx context.Context, clientID string) (*model.Client, error)
}

// ActivityReader is the slice of activity storage the workflow needs
type ActivityReader interface {
	GetByID(ctx context.Context, activityID string) (*model.Activity, error)
}

// EnrollmentNotifier delivers best-effort notifications. Implementations
// must never block the caller; failures are logged, not returned.
type EnrollmentNotifier interface {
	EnrollmentCreated(client *model.Client, activity *model.Activity, enrollment *model.Enrollment)
	EnrollmentCanceled(client *model.Client, activity *model.Activity, enrollment *model.Enrollment)
}

// EnrollmentService orchestrates the enrollment workflow: seat
// reservation on create, confirmation, and cancellation with seat
// release. It is the only caller of the repository's occupied-mutating
// batches.
type EnrollmentService struct {
	repo       EnrollmentRepository
	clients    ClientReader
	activities ActivityReader
	notifier   EnrollmentNotifier // optional
}

// EnrollmentServiceConfig holds configuration for the enrollment service
type EnrollmentServiceConfig struct {
	Repo       EnrollmentRepository
	Clients    ClientReader
	Activities ActivityReader
	Notifier   EnrollmentNotifier
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(cfg EnrollmentServiceConfig) *EnrollmentService {
	return &EnrollmentService{
		repo:       cfg.Repo,
		clients:    cfg.Clients,
		activities: cfg.Activities,
		notifier:   cfg.Notifier,
	}
}

// Create runs the enrollment preconditions in order and, when they all
// hold, atomically inserts the enrollment and reserves a seat.
//
// Precondition order matters for the error a caller sees:
//  1. client exists and is active
//  2. activity exists
//  3. activity is open for enrollment
//  4. a seat is free
//  5. no pending/confirmed enrollment for the pair
//  6. no schedule overlap with the client's confirmed enrollments
func (s *EnrollmentService) Create(ctx context.Context, req *model.CreateEnrollmentRequest) (*model.Enrollment, error) {
	client, err := s.clients.GetByID(ctx, req.IDCliente)
	if err != nil {
		return nil, err
	}
	if client == nil || !client.Active {
		return nil, ErrClientNotFound
	}

	activity, err := s.activities.GetByID(ctx, req.IDAtividade)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	if activity.Status != model.ActivityStatusActive {
		return nil, ErrActivityNotOpen
	}

	if !activity.HasSeats() {
		return nil, ErrNoSeatsAvailable
	}

	existing, err := s.repo.GetActiveByClientAndActivity(ctx, client.ID, activity.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyEnrolled
	}

	if err := s.checkScheduleConflicts(ctx, client.ID, activity); err != nil {
		return nil, err
	}

	enrollment := &model.Enrollment{
		ClientID:   client.ID,
		ActivityID: activity.ID,
		AmountPaid: activity.Price,
		Notes:      req.Observacoes,
	}

	if err := s.repo.CreateWithReservation(ctx, enrollment); err != nil {
		// The in-transaction guard lost a race the pre-check won.
		if errors.Is(err, repository.ErrNoSeats) {
			return nil, ErrNoSeatsAvailable
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.EnrollmentCreated(client, activity, enrollment)
	}

	return enrollment, nil
}

// checkScheduleConflicts compares the target activity's window against
// the activities of the client's confirmed enrollments. Each referenced
// activity is fetched individually; the confirmed list per client is
// small.
func (s *EnrollmentService) checkScheduleConflicts(ctx context.Context, clientID string, target *model.Activity) error {
	confirmed, err := s.repo.GetConfirmedByClient(ctx, clientID)
	if err != nil {
		return err
	}

	for _, e := range confirmed {
		if e.ActivityID == target.ID {
			continue
		}
		other, err := s.activities.GetByID(ctx, e.ActivityID)
		if err != nil {
			return err
		}
		if other == nil {
			continue
		}
		if other.Overlaps(target.StartsAt, target.EndsAt) {
			return &ScheduleConflictError{ActivityName: other.Name}
		}
	}
	return nil
}

// Confirm transitions an enrollment from pending to confirmed. The seat
// was already reserved at creation, so occupied is untouched.
func (s *EnrollmentService) Confirm(ctx context.Context, enrollmentID string) (*model.Enrollment, error) {
	enrollment, err := s.repo.Get(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, ErrEnrollmentNotFound
	}

	switch enrollment.Status {
	case model.EnrollmentStatusConfirmed:
		return nil, ErrAlreadyConfirmed
	case model.EnrollmentStatusCanceled:
		// Status moves only forward; a canceled enrollment stays canceled.
		return nil, ErrAlreadyCanceled
	}

	return s.repo.Confirm(ctx, enrollmentID)
}

// Cancel marks the enrollment canceled and releases its seat in the
// same transaction.
func (s *EnrollmentService) Cancel(ctx context.Context, enrollmentID string, reason *string) (*model.Enrollment, error) {
	enrollment, err := s.repo.Get(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, ErrEnrollmentNotFound
	}

	if enrollment.Status == model.EnrollmentStatusCanceled {
		return nil, ErrAlreadyCanceled
	}

	activity, err := s.activities.GetByID(ctx, enrollment.ActivityID)
	if err != nil {
		return nil, err
	}
	if activity != nil && activity.Occupied == 0 {
		// The release floors at zero, but an active enrollment against a
		// zero-occupied activity means the books are already off.
		slog.Warn("canceling enrollment while activity has zero occupied seats",
			slog.String("enrollment_id", enrollmentID),
			slog.String("activity_id", enrollment.ActivityID),
		)
	}

	if err := s.repo.CancelWithRelease(ctx, enrollmentID, enrollment.ActivityID, reason); err != nil {
		return nil, err
	}

	canceled, err := s.repo.Get(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && activity != nil {
		client, _ := s.clients.GetByID(ctx, canceled.ClientID)
		if client != nil {
			s.notifier.EnrollmentCanceled(client, activity, canceled)
		}
	}

	return canceled, nil
}

// Get retrieves an enrollment by ID
func (s *EnrollmentService) Get(ctx context.Context, enrollmentID string) (*model.Enrollment, error) {
	enrollment, err := s.repo.Get(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, ErrEnrollmentNotFound
	}
	return enrollment, nil
}

// List retrieves enrollment summaries plus the total matching count
func (s *EnrollmentService) List(ctx context.Context, filters *model.EnrollmentFilters, limit, offset int) ([]*model.EnrollmentSummary, int, error) {
	limit = clampLimit(limit)

	summaries, err := s.repo.List(ctx, filters, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// ListByClient retrieves a client's enrollments
func (s *EnrollmentService) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*model.EnrollmentSummary, int, error) {
	return s.List(ctx, &model.EnrollmentFilters{ClientID: &clientID}, limit, offset)
}

// ListByActivity retrieves an activity's enrollments
func (s *EnrollmentService) ListByActivity(ctx context.Context, activityID string, limit, offset int) ([]*model.EnrollmentSummary, int, error) {
	return s.List(ctx, &model.EnrollmentFilters{ActivityID: &activityID}, limit, offset)
}

// Report aggregates enrollment counts and revenue, optionally filtered
// by creation date range and activity unit.
func (s *EnrollmentService) Report(ctx context.Context, from, to *time.Time, unit *string) (*model.EnrollmentReport, error) {
	return s.repo.Report(ctx, &model.EnrollmentFilters{From: from, To: to, Unit: unit})
}

// Page size bounds shared by the list operations
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// clampLimit keeps page sizes sane
func clampLimit(limit int) int {
	if limit <= 0 || limit > maxPageSize {
		return defaultPageSize
	}
	return limit
}

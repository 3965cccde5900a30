package tests

/*
FEATURE: Enrollments
DOMAIN: Activity Enrollment & Seat Management

ACCEPTANCE CRITERIA:
===================

AC-ENR-001: Create Enrollment
  GIVEN an active client and an activity with open seats
  WHEN the client enrolls
  THEN the enrollment is created in pending status
  AND one seat is taken on the activity

AC-ENR-002: Create Enrollment - Duplicate
  GIVEN the client already holds a pending enrollment in the activity
  WHEN the client enrolls again
  THEN the request is rejected as already enrolled

AC-ENR-003: Create Enrollment - No Seats
  GIVEN an activity with every seat taken
  WHEN a client enrolls
  THEN the request is rejected for lack of seats

AC-ENR-004: Create Enrollment - Inactive Activity
  GIVEN an inactive activity
  WHEN a client enrolls
  THEN the request is rejected as not open for enrollment

AC-ENR-005: Create Enrollment - Schedule Conflict
  GIVEN the client has a confirmed enrollment whose activity overlaps
  WHEN the client enrolls in the overlapping activity
  THEN the request is rejected naming the conflicting activity

AC-ENR-006: Confirm Enrollment
  GIVEN a pending enrollment
  WHEN staff confirms it
  THEN the status moves to confirmed
  AND a second confirmation is rejected

AC-ENR-007: Cancel Enrollment
  GIVEN an active enrollment
  WHEN it is canceled
  THEN the status moves to canceled
  AND the seat is released
  AND a second cancellation is rejected

AC-ENR-008: Canceled Seat Is Reusable
  GIVEN a single-seat activity whose enrollment was canceled
  WHEN another client enrolls
  THEN the enrollment succeeds
*/

import (
	"context"
	"testing"

	"github.com/recanto/api/internal/model"
	"github.com/recanto/api/internal/repository"
	"github.com/recanto/api/internal/service"
	"github.com/recanto/api/internal/testing/fixtures"
	"github.com/recanto/api/internal/testing/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnrollmentService(tdb *testdb.TestDB) *service.EnrollmentService {
	return service.NewEnrollmentService(service.EnrollmentServiceConfig{
		Repo:       repository.NewEnrollmentRepository(tdb.DB),
		Clients:    repository.NewClientRepository(tdb.DB),
		Activities: repository.NewActivityRepository(tdb.DB),
	})
}

func TestEnrollment_Create(t *testing.T) {
	// AC-ENR-001: Create Enrollment
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEnrollmentService(tdb)
	activityRepo := repository.NewActivityRepository(tdb.DB)
	ctx := context.Background()

	client := f.CreateClient(t)
	responsible := f.CreateResponsible(t)
	activity := f.CreateActivity(t, responsible)

	enrollment, err := svc.Create(ctx, &model.CreateEnrollmentRequest{
		IDCliente:   client.ID,
		IDAtividade: activity.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, enrollment)
	assert.NotEmpty(t, enrollment.ID)
	assert.Equal(t, model.EnrollmentStatusPending, enrollment.Status)
	assert.Equal(t, model.PaymentStatusPending, enrollment.PaymentStatus)
	assert.Equal(t, activity.Price, enrollment.AmountPaid)

	// One seat was taken
	fetched, err := activityRepo.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, 1, fetched.Occupied)
}

func TestEnrollment_Create_Duplicate(t *testing.T) {
	// AC-ENR-002: Create Enrollment - Duplicate
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEnrollmentService(tdb)
	ctx := context.Background()

	client := f.CreateClient(t)
	responsible := f.CreateResponsible(t)
	activity := f.CreateActivity(t, responsible)

	_, err := svc.Create(ctx, &model.CreateEnrollmentRequest{
		IDCliente:   client.ID,
		IDAtividade: activity.ID,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &model.CreateEnrollmentRequest{
		IDCliente:   client.ID,
		IDAtividade: activity.ID,
	})
	assert.ErrorIs(t, err, service.ErrAlreadyEnrolled)
}

func TestEnrollment_Create_NoSeats(t *testing.T) {
	// AC-ENR-003: Create Enrollment - No Seats
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEnrollmentService(tdb)
	ctx := context.Background()

	client := f.CreateClient(t)
	responsible := f.CreateResponsible(t)
	activity := f.CreateFullActivity(t, responsible)

	_, err := svc.Create(ctx, &model.CreateEnrollmentRequest{
		IDCliente:   client.ID,
		IDAtividade: activity.ID,
	})
	assert.ErrorIs(t, err, service.ErrNoSeatsAvailable)
}

func TestEnrollment_Create_InactiveActivity(t *testing.T) {
	// AC-ENR-004: Create Enrollment - Inactive Activity
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEnrollmentService(tdb)
	ctx := context.Background()

	client := f.CreateClient(t)
	responsible := f.CreateResponsible(t)
	activity := f.CreateActivity(t, responsible, func(o *fixtures.ActivityOpts) {
		o.Status = model.ActivityStatusInactive
	})

	_, err := svc.Create(ctx, &model.CreateEnrollmentRequest{
		IDCliente:   client.ID,
		IDAtividade: activity.ID,
	})
	assert.ErrorIs(t, err, service.ErrActivityNotOpen)
}

func TestEnrollment_Create_ScheduleConflict(t *testing.T) {
	// AC-ENR-005: Create Enrollment - Schedule Conflict
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEnrollmentService(tdb)
	ctx := context.Background()

	client := f.CreateClient(t)
	responsible := f.CreateResponsible(t)

	// Default fixture activities share the same schedule window
	confirmed := f.CreateActivity(t, responsible, func(o *fixtures.ActivityOpts) {
		o.Name = "Judô Infantil"
	})
	f.CreateConfirmedEnrollment(t, client, confirmed)

	overlapping := f.CreateActivity(t, responsible)

	_, err := svc.Create(ctx, &model.CreateEnrollmentRequest{
		IDCliente:   client.ID,
		IDAtividade: overlapping.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrScheduleConflict)

	var conflict *service.ScheduleConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Judô Infantil", conflict.ActivityName)
}

func TestEnrollment_Confirm(t *testing.T) {
	// AC-ENR-006: Confirm Enrollment
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEnrollmentService(tdb)
	ctx := context.Background()

	client := f.CreateClient(t)
	responsible := f.CreateResponsible(t)
	activity := f.CreateActivity(t, responsible)
	enrollment := f.CreateEnrollment(t, client, activity)

	confirmed, err := svc.Confirm(ctx, enrollment.ID)
	require.NoError(t, err)
	require.NotNil(t, confirmed)
	assert.Equal(t, model.EnrollmentStatusConfirmed, confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)

	_, err = svc.Confirm(ctx, enrollment.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyConfirmed)
}

func TestEnrollment_Cancel(t *testing.T) {
	// AC-ENR-007: Cancel Enrollment
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEnrollmentService(tdb)
	activityRepo := repository.NewActivityRepository(tdb.DB)
	ctx := context.Background()

	client := f.CreateClient(t)
	responsible := f.CreateResponsible(t)
	activity := f.CreateActivity(t, responsible)
	enrollment := f.CreateEnrollment(t, client, activity)

	reason := "mudança de cidade"
	canceled, err := svc.Cancel(ctx, enrollment.ID, &reason)
	require.NoError(t, err)
	require.NotNil(t, canceled)
	assert.Equal(t, model.EnrollmentStatusCanceled, canceled.Status)
	assert.Equal(t, model.PaymentStatusCanceled, canceled.PaymentStatus)
	require.NotNil(t, canceled.CancelReason)
	assert.Equal(t, reason, *canceled.CancelReason)

	// The seat was released
	fetched, err := activityRepo.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, 0, fetched.Occupied)

	_, err = svc.Cancel(ctx, enrollment.ID, nil)
	assert.ErrorIs(t, err, service.ErrAlreadyCanceled)
}

func TestEnrollment_CancelPaid_KeepsPaymentRecord(t *testing.T) {
	// AC-ENR-007: Cancel Enrollment
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEnrollmentService(tdb)
	ctx := context.Background()

	client := f.CreateClient(t)
	responsible := f.CreateResponsible(t)
	activity := f.CreateActivity(t, responsible)
	enrollment := f.CreateConfirmedEnrollment(t, client, activity)

	reason := "desistência após pagamento"
	canceled, err := svc.Cancel(ctx, enrollment.ID, &reason)
	require.NoError(t, err)
	require.NotNil(t, canceled)
	assert.Equal(t, model.EnrollmentStatusCanceled, canceled.Status)

	// The settled payment survives the cancellation
	assert.Equal(t, model.PaymentStatusPaid, canceled.PaymentStatus)

	// Revenue reporting still counts the money received
	report, err := svc.Report(ctx, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, activity.Price, report.PaidRevenue)
}

func TestEnrollment_CanceledSeatIsReusable(t *testing.T) {
	// AC-ENR-008: Canceled Seat Is Reusable
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEnrollmentService(tdb)
	ctx := context.Background()

	first := f.CreateClient(t)
	second := f.CreateClient(t)
	responsible := f.CreateResponsible(t)
	activity := f.CreateActivity(t, responsible, fixtures.WithCapacity(1))

	enrollment, err := svc.Create(ctx, &model.CreateEnrollmentRequest{
		IDCliente:   first.ID,
		IDAtividade: activity.ID,
	})
	require.NoError(t, err)

	// Second client is turned away while the seat is held
	_, err = svc.Create(ctx, &model.CreateEnrollmentRequest{
		IDCliente:   second.ID,
		IDAtividade: activity.ID,
	})
	require.ErrorIs(t, err, service.ErrNoSeatsAvailable)

	_, err = svc.Cancel(ctx, enrollment.ID, nil)
	require.NoError(t, err)

	// The released seat is available again
	reused, err := svc.Create(ctx, &model.CreateEnrollmentRequest{
		IDCliente:   second.ID,
		IDAtividade: activity.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentStatusPending, reused.Status)
}

func TestEnrollment_ListByClient(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := newEnrollmentService(tdb)
	ctx := context.Background()

	client := f.CreateClient(t)
	other := f.CreateClient(t)
	responsible := f.CreateResponsible(t)
	activity := f.CreateActivity(t, responsible)
	second := f.CreateActivity(t, responsible)

	f.CreateEnrollment(t, client, activity)
	f.CreateEnrollment(t, client, second)
	f.CreateEnrollment(t, other, activity)

	summaries, total, err := svc.ListByClient(ctx, client.ID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, summaries, 2)
	for _, s := range summaries {
		assert.Equal(t, client.ID, s.ClientID)
		assert.NotEmpty(t, s.ActivityName)
	}
}

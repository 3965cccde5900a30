package repository

import (
	"context"
	"errors"

	"github.com/recanto/api/internal/database"
	"github.com/recanto/api/internal/model"
)

// ErrNoSeats is returned when the in-transaction capacity guard rejects
// a seat reservation. The service pre-checks capacity for a friendly
// error; this guard is what makes the check race-free.
var ErrNoSeats = errors.New("no seats available")

// EnrollmentRepository handles enrollment data access.
//
// Seat accounting lives here: CreateWithReservation and
// CancelWithRelease are the only two code paths in the system that
// mutate activity.occupied, and both run as single BEGIN/COMMIT batches.
type EnrollmentRepository struct {
	db database.Database
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db database.Database) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// CreateWithReservation atomically inserts the enrollment and increments
// the activity's occupied count. The batch re-reads the activity inside
// the transaction and THROWs when occupied >= capacity, so two
// concurrent creations cannot both take the last seat; a rejected
// reservation surfaces as ErrNoSeats.
func (r *EnrollmentRepository) CreateWithReservation(ctx context.Context, enrollment *model.Enrollment) error {
	tb := database.NewTxBuilder()

	tb.Add(`LET $act = (SELECT * FROM ONLY type::record($activity_id) LIMIT 1)`, map[string]interface{}{
		"activity_id": enrollment.ActivityID,
	})
	tb.AddRaw(`IF $act.occupied >= $act.capacity { THROW "no seats available" }`)
	tb.Add(`UPDATE type::record($activity_id) SET occupied += 1, updated_at = time::now()`, map[string]interface{}{
		"activity_id": enrollment.ActivityID,
	})
	tb.Add(`
		CREATE enrollment CONTENT {
			client_id: type::record($client_id),
			activity_id: type::record($activity_id),
			status: $status,
			payment_status: $payment_status,
			amount_paid: $amount_paid,
			notes: $notes,
			created_at: time::now(),
			updated_at: time::now()
		} RETURN AFTER
	`, map[string]interface{}{
		"client_id":      enrollment.ClientID,
		"activity_id":    enrollment.ActivityID,
		"status":         model.EnrollmentStatusPending,
		"payment_status": model.PaymentStatusPending,
		"amount_paid":    enrollment.AmountPaid,
		"notes":          enrollment.Notes,
	})

	result, err := database.ExecuteTransaction(ctx, r.db, tb)
	if err != nil {
		if isCapacityThrow(err) {
			return ErrNoSeats
		}
		return err
	}

	// The CREATE is the only statement producing an enrollment row.
	for _, row := range statementResults(result) {
		if _, ok := row["client_id"]; !ok {
			continue
		}
		created := parseEnrollmentData(row)
		enrollment.ID = created.ID
		enrollment.Status = created.Status
		enrollment.PaymentStatus = created.PaymentStatus
		enrollment.CreatedAt = created.CreatedAt
		enrollment.UpdatedAt = created.UpdatedAt
		return nil
	}

	return errors.New("no enrollment returned from reservation")
}

// CancelWithRelease atomically marks the enrollment canceled and
// releases its seat. A settled payment stays paid so revenue reporting
// keeps counting money already received; only an open payment flips to
// canceled. The decrement floors at zero; the status guard in the
// service makes a double release unreachable in practice.
func (r *EnrollmentRepository) CancelWithRelease(ctx context.Context, enrollmentID, activityID string, reason *string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		UPDATE type::record($enrollment_id) SET
			status = $status,
			payment_status = IF payment_status = $paid THEN payment_status ELSE $canceled END,
			cancel_reason = $reason,
			canceled_at = time::now(),
			updated_at = time::now()
	`, map[string]interface{}{
		"enrollment_id": enrollmentID,
		"status":        model.EnrollmentStatusCanceled,
		"paid":          model.PaymentStatusPaid,
		"canceled":      model.PaymentStatusCanceled,
		"reason":        reason,
	})
	batch.Add(`
		UPDATE type::record($activity_id) SET
			occupied = math::max(occupied - 1, 0),
			updated_at = time::now()
	`, map[string]interface{}{
		"activity_id": activityID,
	})

	return batch.Execute(ctx, r.db)
}

// Get retrieves an enrollment by ID. Returns nil when absent.
func (r *EnrollmentRepository) Get(ctx context.Context, enrollmentID string) (*model.Enrollment, error) {
	query := `SELECT * FROM type::record($enrollment_id)`
	vars := map[string]interface{}{"enrollment_id": enrollmentID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseEnrollmentResult(result)
}

// GetActiveByClientAndActivity returns the pending or confirmed
// enrollment for the pair, or nil. At most one can exist.
func (r *EnrollmentRepository) GetActiveByClientAndActivity(ctx context.Context, clientID, activityID string) (*model.Enrollment, error) {
	query := `
		SELECT * FROM enrollment
		WHERE client_id = type::record($client_id)
		AND activity_id = type::record($activity_id)
		AND status IN [$pending, $confirmed]
		LIMIT 1
	`
	vars := map[string]interface{}{
		"client_id":   clientID,
		"activity_id": activityID,
		"pending":     model.EnrollmentStatusPending,
		"confirmed":   model.EnrollmentStatusConfirmed,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseEnrollmentResult(result)
}

// GetConfirmedByClient returns a client's confirmed enrollments, used
// by the schedule-conflict check.
func (r *EnrollmentRepository) GetConfirmedByClient(ctx context.Context, clientID string) ([]*model.Enrollment, error) {
	query := `
		SELECT * FROM enrollment
		WHERE client_id = type::record($client_id)
		AND status = $confirmed
		ORDER BY created_at ASC
	`
	vars := map[string]interface{}{
		"client_id": clientID,
		"confirmed": model.EnrollmentStatusConfirmed,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseEnrollmentsResult(result)
}

// Confirm transitions an enrollment to confirmed and stamps confirmedAt
func (r *EnrollmentRepository) Confirm(ctx context.Context, enrollmentID string) (*model.Enrollment, error) {
	query := `
		UPDATE type::record($enrollment_id) SET
			status = $status,
			confirmed_at = time::now(),
			updated_at = time::now()
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"enrollment_id": enrollmentID,
		"status":        model.EnrollmentStatusConfirmed,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseEnrollmentResult(result)
}

// List retrieves enrollment summaries joined with client and activity
// display fields, newest first.
func (r *EnrollmentRepository) List(ctx context.Context, filters *model.EnrollmentFilters, limit, offset int) ([]*model.EnrollmentSummary, error) {
	query := `
		SELECT *,
			client_id.name AS client_name,
			activity_id.name AS activity_name,
			activity_id.unit AS activity_unit,
			activity_id.starts_at AS activity_starts_at,
			activity_id.ends_at AS activity_ends_at
		FROM enrollment WHERE true
	`
	vars := map[string]interface{}{"limit": limit, "offset": offset}
	query, vars = applyEnrollmentFilters(query, vars, filters)
	query += ` ORDER BY created_at DESC LIMIT $limit START $offset`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(result)
	if !ok {
		return []*model.EnrollmentSummary{}, nil
	}

	summaries := make([]*model.EnrollmentSummary, 0, len(rows))
	for _, row := range rows {
		data, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		summaries = append(summaries, &model.EnrollmentSummary{
			Enrollment:   *parseEnrollmentData(data),
			ClientName:   getString(data, "client_name"),
			ActivityName: getString(data, "activity_name"),
			ActivityUnit: getString(data, "activity_unit"),
			StartsAt:     getTime(data, "activity_starts_at"),
			EndsAt:       getTime(data, "activity_ends_at"),
		})
	}
	return summaries, nil
}

// Count returns the number of enrollments matching the filters
func (r *EnrollmentRepository) Count(ctx context.Context, filters *model.EnrollmentFilters) (int, error) {
	query := `SELECT count() AS count FROM enrollment WHERE true`
	vars := map[string]interface{}{}
	query, vars = applyEnrollmentFilters(query, vars, filters)
	query += ` GROUP ALL`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if m, ok := result.(map[string]interface{}); ok {
		return getInt(m, "count"), nil
	}
	return extractCount(result), nil
}

// Report aggregates status counts and revenue over the filtered
// enrollments. Aggregation happens in process; the dataset is the
// filtered slice of a single center's enrollments.
func (r *EnrollmentRepository) Report(ctx context.Context, filters *model.EnrollmentFilters) (*model.EnrollmentReport, error) {
	query := `SELECT status, payment_status, amount_paid FROM enrollment WHERE true`
	vars := map[string]interface{}{}
	query, vars = applyEnrollmentFilters(query, vars, filters)

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	report := &model.EnrollmentReport{}
	rows, _ := extractQueryResults(result)
	for _, row := range rows {
		data, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		report.Total++
		status := getString(data, "status")
		switch status {
		case model.EnrollmentStatusPending:
			report.Pending++
		case model.EnrollmentStatusConfirmed:
			report.Confirmed++
		case model.EnrollmentStatusCanceled:
			report.Canceled++
		case model.EnrollmentStatusWaitlisted:
			report.Waitlisted++
		}
		if status != model.EnrollmentStatusCanceled {
			report.TotalRevenue += getFloat(data, "amount_paid")
		}
		if getString(data, "payment_status") == model.PaymentStatusPaid {
			report.PaidRevenue += getFloat(data, "amount_paid")
		}
	}
	return report, nil
}

func applyEnrollmentFilters(query string, vars map[string]interface{}, filters *model.EnrollmentFilters) (string, map[string]interface{}) {
	if filters == nil {
		return query, vars
	}
	if filters.ClientID != nil {
		query += ` AND client_id = type::record($filter_client_id)`
		vars["filter_client_id"] = *filters.ClientID
	}
	if filters.ActivityID != nil {
		query += ` AND activity_id = type::record($filter_activity_id)`
		vars["filter_activity_id"] = *filters.ActivityID
	}
	if filters.Status != nil {
		query += ` AND status = $filter_status`
		vars["filter_status"] = *filters.Status
	}
	if filters.Unit != nil {
		query += ` AND activity_id.unit = $filter_unit`
		vars["filter_unit"] = *filters.Unit
	}
	if filters.From != nil {
		query += ` AND created_at >= <datetime> $filter_from`
		vars["filter_from"] = filters.From.Format("2006-01-02T15:04:05Z07:00")
	}
	if filters.To != nil {
		query += ` AND created_at <= <datetime> $filter_to`
		vars["filter_to"] = filters.To.Format("2006-01-02T15:04:05Z07:00")
	}
	return query, vars
}

func parseEnrollmentResult(result interface{}) (*model.Enrollment, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected enrollment result format")
	}
	return parseEnrollmentData(data), nil
}

func parseEnrollmentsResult(result []interface{}) ([]*model.Enrollment, error) {
	rows, ok := extractQueryResults(result)
	if !ok {
		return []*model.Enrollment{}, nil
	}

	enrollments := make([]*model.Enrollment, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			enrollments = append(enrollments, parseEnrollmentData(data))
		}
	}
	return enrollments, nil
}

func parseEnrollmentData(data map[string]interface{}) *model.Enrollment {
	return &model.Enrollment{
		ID:            convertSurrealID(data["id"]),
		ClientID:      getRecordID(data, "client_id"),
		ActivityID:    getRecordID(data, "activity_id"),
		Status:        getString(data, "status"),
		PaymentStatus: getString(data, "payment_status"),
		AmountPaid:    getFloat(data, "amount_paid"),
		Notes:         getStringPtr(data, "notes"),
		CancelReason:  getStringPtr(data, "cancel_reason"),
		CreatedAt:     getTime(data, "created_at"),
		ConfirmedAt:   getTimePtr(data, "confirmed_at"),
		CanceledAt:    getTimePtr(data, "canceled_at"),
		UpdatedAt:     getTime(data, "updated_at"),
	}
}

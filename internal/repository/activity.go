package repository

import (
	"context"
	"errors"

	"github.com/recanto/api/internal/database"
	"github.com/recanto/api/internal/model"
)

// ActivityRepository handles activity data access.
//
// The occupied counter is never touched here: it is written exclusively
// by the enrollment repository's transactional reserve/release batches.
type ActivityRepository struct {
	db database.Database
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db database.Database) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts a new activity with zero occupied seats
func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	query := `
		CREATE activity CONTENT {
			name: $name,
			description: $description,
			unit: $unit,
			responsible_id: type::record($responsible_id),
			capacity: $capacity,
			occupied: 0,
			starts_at: <datetime> $starts_at,
			ends_at: <datetime> $ends_at,
			price: $price,
			status: $status,
			created_at: time::now(),
			updated_at: time::now()
		} RETURN AFTER
	`

	status := activity.Status
	if status == "" {
		status = model.ActivityStatusActive
	}

	vars := map[string]interface{}{
		"name":           activity.Name,
		"description":    activity.Description,
		"unit":           activity.Unit,
		"responsible_id": activity.ResponsibleID,
		"capacity":       activity.Capacity,
		"starts_at":      activity.StartsAt.Format("2006-01-02T15:04:05Z07:00"),
		"ends_at":        activity.EndsAt.Format("2006-01-02T15:04:05Z07:00"),
		"price":          activity.Price,
		"status":         status,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	rows := statementResults(result)
	if len(rows) == 0 {
		return errors.New("no result returned from create")
	}
	created := parseActivityData(rows[0])
	activity.ID = created.ID
	activity.Occupied = created.Occupied
	activity.Status = created.Status
	activity.CreatedAt = created.CreatedAt
	activity.UpdatedAt = created.UpdatedAt
	return nil
}

// GetByID retrieves an activity by ID. Returns nil when absent.
func (r *ActivityRepository) GetByID(ctx context.Context, activityID string) (*model.Activity, error) {
	query := `SELECT * FROM type::record($activity_id)`
	vars := map[string]interface{}{"activity_id": activityID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseActivityResult(result)
}

// List retrieves activities, optionally filtered by unit and status
func (r *ActivityRepository) List(ctx context.Context, filters *model.ActivityFilters, limit, offset int) ([]*model.Activity, error) {
	query := `SELECT * FROM activity WHERE true`
	vars := map[string]interface{}{"limit": limit, "offset": offset}

	if filters != nil && filters.Unit != nil {
		query += ` AND unit = $unit`
		vars["unit"] = *filters.Unit
	}
	if filters != nil && filters.Status != nil {
		query += ` AND status = $status`
		vars["status"] = *filters.Status
	}

	query += ` ORDER BY starts_at ASC LIMIT $limit START $offset`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseActivitiesResult(result)
}

// Count returns the number of activities matching the filters
func (r *ActivityRepository) Count(ctx context.Context, filters *model.ActivityFilters) (int, error) {
	query := `SELECT count() AS count FROM activity WHERE true`
	vars := map[string]interface{}{}

	if filters != nil && filters.Unit != nil {
		query += ` AND unit = $unit`
		vars["unit"] = *filters.Unit
	}
	if filters != nil && filters.Status != nil {
		query += ` AND status = $status`
		vars["status"] = *filters.Status
	}

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

// CountActiveByResponsible counts active activities referencing a responsible
func (r *ActivityRepository) CountActiveByResponsible(ctx context.Context, responsibleID string) (int, error) {
	query := `
		SELECT count() AS count FROM activity
		WHERE responsible_id = type::record($responsible_id)
		AND status = $status
		GROUP ALL
	`
	vars := map[string]interface{}{
		"responsible_id": responsibleID,
		"status":         model.ActivityStatusActive,
	}

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

// Update applies a partial update and returns the updated activity.
// Callers must never include "occupied" in updates; the service layer
// enforces this and the capacity guard.
func (r *ActivityRepository) Update(ctx context.Context, activityID string, updates map[string]interface{}) (*model.Activity, error) {
	query := `UPDATE type::record($activity_id) SET updated_at = time::now()`
	vars := map[string]interface{}{"activity_id": activityID}

	for key, value := range updates {
		query += ", " + key + " = $" + key
		vars[key] = value
	}

	query += ` RETURN AFTER`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseActivityResult(result)
}

// Deactivate soft-deletes an activity by marking it inactive
func (r *ActivityRepository) Deactivate(ctx context.Context, activityID string) error {
	query := `UPDATE type::record($activity_id) SET status = $status, updated_at = time::now()`
	vars := map[string]interface{}{
		"activity_id": activityID,
		"status":      model.ActivityStatusInactive,
	}

	return r.db.Execute(ctx, query, vars)
}

func parseActivityResult(result interface{}) (*model.Activity, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected activity result format")
	}
	return parseActivityData(data), nil
}

func parseActivitiesResult(result []interface{}) ([]*model.Activity, error) {
	rows, ok := extractQueryResults(result)
	if !ok {
		return []*model.Activity{}, nil
	}

	activities := make([]*model.Activity, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			activities = append(activities, parseActivityData(data))
		}
	}
	return activities, nil
}

func parseActivityData(data map[string]interface{}) *model.Activity {
	return &model.Activity{
		ID:            convertSurrealID(data["id"]),
		Name:          getString(data, "name"),
		Description:   getStringPtr(data, "description"),
		Unit:          getString(data, "unit"),
		ResponsibleID: getRecordID(data, "responsible_id"),
		Capacity:      getInt(data, "capacity"),
		Occupied:      getInt(data, "occupied"),
		StartsAt:      getTime(data, "starts_at"),
		EndsAt:        getTime(data, "ends_at"),
		Price:         getFloat(data, "price"),
		Status:        getString(data, "status"),
		CreatedAt:     getTime(data, "created_at"),
		UpdatedAt:     getTime(data, "updated_at"),
	}
}

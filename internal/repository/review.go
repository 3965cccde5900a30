package repository

import (
	"context"
	"errors"

	"github.com/recanto/api/internal/database"
	"github.com/recanto/api/internal/model"
)

// ReviewRepository handles review data access
type ReviewRepository struct {
	db database.Database
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db database.Database) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review with status pending
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		CREATE review CONTENT {
			client_id: $client_id,
			activity_id: $activity_id,
			type: $type,
			title: $title,
			message: $message,
			rating: $rating,
			status: $status,
			public: $public,
			anonymous: $anonymous,
			created_at: time::now(),
			updated_at: time::now()
		} RETURN AFTER
	`

	vars := map[string]interface{}{
		"client_id":   review.ClientID,
		"activity_id": review.ActivityID,
		"type":        review.Type,
		"title":       review.Title,
		"message":     review.Message,
		"rating":      review.Rating,
		"status":      model.ReviewStatusPending,
		"public":      review.Public,
		"anonymous":   review.Anonymous,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	rows := statementResults(result)
	if len(rows) == 0 {
		return errors.New("no result returned from create")
	}
	created := parseReviewData(rows[0])
	review.ID = created.ID
	review.Status = created.Status
	review.CreatedAt = created.CreatedAt
	review.UpdatedAt = created.UpdatedAt
	return nil
}

// Get retrieves a review by ID. Returns nil when absent.
func (r *ReviewRepository) Get(ctx context.Context, reviewID string) (*model.Review, error) {
	query := `SELECT * FROM type::record($review_id)`
	vars := map[string]interface{}{"review_id": reviewID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseReviewResult(result)
}

// List retrieves reviews matching the filters, newest first
func (r *ReviewRepository) List(ctx context.Context, filters *model.ReviewFilters, limit, offset int) ([]*model.Review, error) {
	query := `SELECT * FROM review WHERE true`
	vars := map[string]interface{}{"limit": limit, "offset": offset}

	if filters != nil && filters.Status != nil {
		query += ` AND status = $status`
		vars["status"] = *filters.Status
	}
	if filters != nil && filters.Type != nil {
		query += ` AND type = $type`
		vars["type"] = *filters.Type
	}
	if filters != nil && filters.ActivityID != nil {
		query += ` AND activity_id = $activity_id`
		vars["activity_id"] = *filters.ActivityID
	}
	if filters != nil && filters.PublicOnly {
		query += ` AND public = true`
	}

	query += ` ORDER BY created_at DESC LIMIT $limit START $offset`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseReviewsResult(result)
}

// Count returns the number of reviews matching the filters
func (r *ReviewRepository) Count(ctx context.Context, filters *model.ReviewFilters) (int, error) {
	query := `SELECT count() AS count FROM review WHERE true`
	vars := map[string]interface{}{}

	if filters != nil && filters.Status != nil {
		query += ` AND status = $status`
		vars["status"] = *filters.Status
	}
	if filters != nil && filters.Type != nil {
		query += ` AND type = $type`
		vars["type"] = *filters.Type
	}
	if filters != nil && filters.PublicOnly {
		query += ` AND public = true`
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

// Respond records a staff answer and flips the review to answered.
// The response timestamp is set server-side.
func (r *ReviewRepository) Respond(ctx context.Context, reviewID, response, staffID string) (*model.Review, error) {
	query := `
		UPDATE type::record($review_id) SET
			response = $response,
			responded_by = $staff_id,
			responded_at = time::now(),
			status = $status,
			updated_at = time::now()
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"review_id": reviewID,
		"response":  response,
		"staff_id":  staffID,
		"status":    model.ReviewStatusAnswered,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parseReviewResult(result)
}

// Update applies a partial update and returns the updated review
func (r *ReviewRepository) Update(ctx context.Context, reviewID string, updates map[string]interface{}) (*model.Review, error) {
	query := `UPDATE type::record($review_id) SET updated_at = time::now()`
	vars := map[string]interface{}{"review_id": reviewID}

	for key, value := range updates {
		query += ", " + key + " = $" + key
		vars[key] = value
	}

	query += ` RETURN AFTER`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseReviewResult(result)
}

func parseReviewResult(result interface{}) (*model.Review, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected review result format")
	}
	return parseReviewData(data), nil
}

func parseReviewsResult(result []interface{}) ([]*model.Review, error) {
	rows, ok := extractQueryResults(result)
	if !ok {
		return []*model.Review{}, nil
	}

	reviews := make([]*model.Review, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			reviews = append(reviews, parseReviewData(data))
		}
	}
	return reviews, nil
}

func parseReviewData(data map[string]interface{}) *model.Review {
	return &model.Review{
		ID:          convertSurrealID(data["id"]),
		ClientID:    getStringPtr(data, "client_id"),
		ActivityID:  getStringPtr(data, "activity_id"),
		Type:        getString(data, "type"),
		Title:       getString(data, "title"),
		Message:     getString(data, "message"),
		Rating:      getIntPtr(data, "rating"),
		Status:      getString(data, "status"),
		Response:    getStringPtr(data, "response"),
		RespondedBy: getStringPtr(data, "responded_by"),
		RespondedAt: getTimePtr(data, "responded_at"),
		Public:      getBool(data, "public"),
		Anonymous:   getBool(data, "anonymous"),
		CreatedAt:   getTime(data, "created_at"),
		UpdatedAt:   getTime(data, "updated_at"),
	}
}

package service

import (
	"context"
	"time"

	"github.com/recanto/api/internal/model"
)

// ActivityRepository defines the interface for activity storage
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	GetByID(ctx context.Context, activityID string) (*model.Activity, error)
	List(ctx context.Context, filters *model.ActivityFilters, limit, offset int) ([]*model.Activity, error)
	Count(ctx context.Context, filters *model.ActivityFilters) (int, error)
	Update(ctx context.Context, activityID string, updates map[string]interface{}) (*model.Activity, error)
	Deactivate(ctx context.Context, activityID string) error
}

// ResponsibleReader is the slice of responsible storage this service needs
type ResponsibleReader interface {
	GetByID(ctx context.Context, responsibleID string) (*model.Responsible, error)
}

// ActivityService handles activity management. Updates never carry the
// occupied counter, and capacity can never drop below it.
type ActivityService struct {
	repo         ActivityRepository
	responsibles ResponsibleReader
}

// ActivityServiceConfig holds configuration for the activity service
type ActivityServiceConfig struct {
	Repo         ActivityRepository
	Responsibles ResponsibleReader
}

// NewActivityService creates a new activity service
func NewActivityService(cfg ActivityServiceConfig) *ActivityService {
	return &ActivityService{
		repo:         cfg.Repo,
		responsibles: cfg.Responsibles,
	}
}

// Create registers a new activity with zero occupied seats
func (s *ActivityService) Create(ctx context.Context, req *model.CreateActivityRequest) (*model.Activity, error) {
	responsible, err := s.responsibles.GetByID(ctx, req.ResponsibleID)
	if err != nil {
		return nil, err
	}
	if responsible == nil {
		return nil, ErrResponsibleNotFound
	}

	start, end := req.Window()
	activity := &model.Activity{
		Name:          req.Name,
		Description:   req.Description,
		Unit:          req.Unit,
		ResponsibleID: responsible.ID,
		Capacity:      req.Capacity,
		StartsAt:      start,
		EndsAt:        end,
		Price:         req.Price,
		Status:        model.ActivityStatusActive,
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// Get retrieves an activity by ID
func (s *ActivityService) Get(ctx context.Context, activityID string) (*model.Activity, error) {
	activity, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// List retrieves activities plus the total matching count
func (s *ActivityService) List(ctx context.Context, filters *model.ActivityFilters, limit, offset int) ([]*model.Activity, int, error) {
	limit = clampLimit(limit)

	activities, err := s.repo.List(ctx, filters, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// Update applies a partial activity update under the capacity guard:
// a new capacity below the current occupied count is rejected and the
// document is left untouched. Occupied itself is not updatable here.
func (s *ActivityService) Update(ctx context.Context, activityID string, req *model.UpdateActivityRequest) (*model.Activity, error) {
	activity, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	if req.Capacity != nil && *req.Capacity < activity.Occupied {
		return nil, ErrCapacityBelowOccupied
	}

	if req.ResponsibleID != nil {
		responsible, err := s.responsibles.GetByID(ctx, *req.ResponsibleID)
		if err != nil {
			return nil, err
		}
		if responsible == nil {
			return nil, ErrResponsibleNotFound
		}
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.ResponsibleID != nil {
		updates["responsible_id"] = *req.ResponsibleID
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.StartsAt != nil {
		if t, err := time.Parse(time.RFC3339, *req.StartsAt); err == nil {
			updates["starts_at"] = t.Format("2006-01-02T15:04:05Z07:00")
		}
	}
	if req.EndsAt != nil {
		if t, err := time.Parse(time.RFC3339, *req.EndsAt); err == nil {
			updates["ends_at"] = t.Format("2006-01-02T15:04:05Z07:00")
		}
	}

	if len(updates) == 0 {
		return activity, nil
	}

	return s.repo.Update(ctx, activityID, updates)
}

// Delete soft-deletes an activity. Only activities with zero occupied
// seats can be removed; cancel the enrollments first.
func (s *ActivityService) Delete(ctx context.Context, activityID string) error {
	activity, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		return err
	}
	if activity == nil {
		return ErrActivityNotFound
	}

	if activity.Occupied > 0 {
		return ErrActivityHasEnrollments
	}

	return s.repo.Deactivate(ctx, activityID)
}

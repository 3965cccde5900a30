package service

import (
	"context"
	"errors"

	"github.com/recanto/api/internal/database"
	"github.com/recanto/api/internal/model"
)

// ResponsibleRepository defines the interface for responsible storage
type ResponsibleRepository interface {
	Create(ctx context.Context, responsible *model.Responsible) error
	GetByID(ctx context.Context, responsibleID string) (*model.Responsible, error)
	GetByMatricula(ctx context.Context, matricula string) (*model.Responsible, error)
	List(ctx context.Context, filters *model.ResponsibleFilters, limit, offset int) ([]*model.Responsible, error)
	Update(ctx context.Context, responsibleID string, updates map[string]interface{}) (*model.Responsible, error)
	Delete(ctx context.Context, responsibleID string) error
}

// ActivityCounter reports how many active activities reference a responsible
type ActivityCounter interface {
	CountActiveByResponsible(ctx context.Context, responsibleID string) (int, error)
}

// ResponsibleService handles instructor management
type ResponsibleService struct {
	repo       ResponsibleRepository
	activities ActivityCounter
}

// ResponsibleServiceConfig holds configuration for the responsible service
type ResponsibleServiceConfig struct {
	Repo       ResponsibleRepository
	Activities ActivityCounter
}

// NewResponsibleService creates a new responsible service
func NewResponsibleService(cfg ResponsibleServiceConfig) *ResponsibleService {
	return &ResponsibleService{
		repo:       cfg.Repo,
		activities: cfg.Activities,
	}
}

// Create registers a new responsible. Matricula must be unique.
func (s *ResponsibleService) Create(ctx context.Context, req *model.CreateResponsibleRequest) (*model.Responsible, error) {
	existing, err := s.repo.GetByMatricula(ctx, req.Matricula)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMatriculaTaken
	}

	responsible := &model.Responsible{
		Name:        req.Name,
		Matricula:   req.Matricula,
		Unit:        req.Unit,
		Specialties: req.Specialties,
	}

	if err := s.repo.Create(ctx, responsible); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrMatriculaTaken
		}
		return nil, err
	}
	return responsible, nil
}

// Get retrieves a responsible by ID
func (s *ResponsibleService) Get(ctx context.Context, responsibleID string) (*model.Responsible, error) {
	responsible, err := s.repo.GetByID(ctx, responsibleID)
	if err != nil {
		return nil, err
	}
	if responsible == nil {
		return nil, ErrResponsibleNotFound
	}
	return responsible, nil
}

// List retrieves responsibles matching the filters
func (s *ResponsibleService) List(ctx context.Context, filters *model.ResponsibleFilters, limit, offset int) ([]*model.Responsible, error) {
	limit = clampLimit(limit)
	return s.repo.List(ctx, filters, limit, offset)
}

// Update applies a partial update. Matricula is immutable.
func (s *ResponsibleService) Update(ctx context.Context, responsibleID string, req *model.UpdateResponsibleRequest) (*model.Responsible, error) {
	responsible, err := s.repo.GetByID(ctx, responsibleID)
	if err != nil {
		return nil, err
	}
	if responsible == nil {
		return nil, ErrResponsibleNotFound
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.Specialties != nil {
		updates["specialties"] = req.Specialties
	}

	if len(updates) == 0 {
		return responsible, nil
	}

	return s.repo.Update(ctx, responsibleID, updates)
}

// Delete removes a responsible. Blocked while any active activity
// still references them.
func (s *ResponsibleService) Delete(ctx context.Context, responsibleID string) error {
	responsible, err := s.repo.GetByID(ctx, responsibleID)
	if err != nil {
		return err
	}
	if responsible == nil {
		return ErrResponsibleNotFound
	}

	count, err := s.activities.CountActiveByResponsible(ctx, responsibleID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrResponsibleInUse
	}

	return s.repo.Delete(ctx, responsibleID)
}

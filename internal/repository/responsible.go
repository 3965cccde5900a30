package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/recanto/api/internal/database"
	"github.com/recanto/api/internal/model"
)

// ResponsibleRepository handles responsible (staff/instructor) data access
type ResponsibleRepository struct {
	db database.Database
}

// NewResponsibleRepository creates a new responsible repository
func NewResponsibleRepository(db database.Database) *ResponsibleRepository {
	return &ResponsibleRepository{db: db}
}

// Create inserts a new responsible. Matricula uniqueness violations are
// mapped to database.ErrDuplicate.
func (r *ResponsibleRepository) Create(ctx context.Context, responsible *model.Responsible) error {
	query := `
		CREATE responsible CONTENT {
			name: $name,
			matricula: $matricula,
			unit: $unit,
			specialties: $specialties,
			created_at: time::now(),
			updated_at: time::now()
		} RETURN AFTER
	`

	vars := map[string]interface{}{
		"name":        responsible.Name,
		"matricula":   responsible.Matricula,
		"unit":        responsible.Unit,
		"specialties": responsible.Specialties,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: matricula", database.ErrDuplicate)
		}
		return err
	}

	rows := statementResults(result)
	if len(rows) == 0 {
		return errors.New("no result returned from create")
	}
	created := parseResponsibleData(rows[0])
	responsible.ID = created.ID
	responsible.CreatedAt = created.CreatedAt
	responsible.UpdatedAt = created.UpdatedAt
	return nil
}

// GetByID retrieves a responsible by ID. Returns nil when absent.
func (r *ResponsibleRepository) GetByID(ctx context.Context, responsibleID string) (*model.Responsible, error) {
	query := `SELECT * FROM type::record($responsible_id)`
	vars := map[string]interface{}{"responsible_id": responsibleID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseResponsibleResult(result)
}

// GetByMatricula retrieves a responsible by badge number. Returns nil when absent.
func (r *ResponsibleRepository) GetByMatricula(ctx context.Context, matricula string) (*model.Responsible, error) {
	query := `SELECT * FROM responsible WHERE matricula = $matricula LIMIT 1`
	vars := map[string]interface{}{"matricula": matricula}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseResponsibleResult(result)
}

// List retrieves responsibles, optionally filtered by unit and specialty
func (r *ResponsibleRepository) List(ctx context.Context, filters *model.ResponsibleFilters, limit, offset int) ([]*model.Responsible, error) {
	query := `SELECT * FROM responsible WHERE true`
	vars := map[string]interface{}{"limit": limit, "offset": offset}

	if filters != nil && filters.Unit != nil {
		query += ` AND unit = $unit`
		vars["unit"] = *filters.Unit
	}
	if filters != nil && filters.Specialty != nil {
		query += ` AND $specialty IN specialties`
		vars["specialty"] = *filters.Specialty
	}

	query += ` ORDER BY name ASC LIMIT $limit START $offset`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseResponsiblesResult(result)
}

// Update applies a partial update and returns the updated responsible
func (r *ResponsibleRepository) Update(ctx context.Context, responsibleID string, updates map[string]interface{}) (*model.Responsible, error) {
	query := `UPDATE type::record($responsible_id) SET updated_at = time::now()`
	vars := map[string]interface{}{"responsible_id": responsibleID}

	for key, value := range updates {
		query += ", " + key + " = $" + key
		vars[key] = value
	}

	query += ` RETURN AFTER`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseResponsibleResult(result)
}

// Delete removes a responsible. The service layer blocks deletion while
// active activities still reference the record.
func (r *ResponsibleRepository) Delete(ctx context.Context, responsibleID string) error {
	query := `DELETE type::record($responsible_id)`
	vars := map[string]interface{}{"responsible_id": responsibleID}

	return r.db.Execute(ctx, query, vars)
}

func parseResponsibleResult(result interface{}) (*model.Responsible, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected responsible result format")
	}
	return parseResponsibleData(data), nil
}

func parseResponsiblesResult(result []interface{}) ([]*model.Responsible, error) {
	rows, ok := extractQueryResults(result)
	if !ok {
		return []*model.Responsible{}, nil
	}

	responsibles := make([]*model.Responsible, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			responsibles = append(responsibles, parseResponsibleData(data))
		}
	}
	return responsibles, nil
}

func parseResponsibleData(data map[string]interface{}) *model.Responsible {
	return &model.Responsible{
		ID:          convertSurrealID(data["id"]),
		Name:        getString(data, "name"),
		Matricula:   getString(data, "matricula"),
		Unit:        getString(data, "unit"),
		Specialties: getStringSlice(data, "specialties"),
		CreatedAt:   getTime(data, "created_at"),
		UpdatedAt:   getTime(data, "updated_at"),
	}
}

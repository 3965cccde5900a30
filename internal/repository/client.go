package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/recanto/api/internal/database"
	"github.com/recanto/api/internal/model"
)

// ClientRepository handles client data access
type ClientRepository struct {
	db database.Database
}

// NewClientRepository creates a new client repository
func NewClientRepository(db database.Database) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a new client. The client's ID and timestamps are
// populated from the created record.
func (r *ClientRepository) Create(ctx context.Context, client *model.Client) error {
	query := `
		CREATE client CONTENT {
			name: $name,
			birth_date: <datetime> $birth_date,
			email: $email,
			phone: $phone,
			cep: $cep,
			street: $street,
			neighborhood: $neighborhood,
			city: $city,
			state: $state,
			password_hash: $password_hash,
			active: true,
			created_at: time::now(),
			updated_at: time::now()
		} RETURN AFTER
	`

	vars := map[string]interface{}{
		"name":          client.Name,
		"birth_date":    client.BirthDate.Format("2006-01-02T15:04:05Z07:00"),
		"email":         client.Email,
		"phone":         client.Phone,
		"cep":           client.CEP,
		"street":        client.Street,
		"neighborhood":  client.Neighborhood,
		"city":          client.City,
		"state":         client.State,
		"password_hash": client.PasswordHash,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email", database.ErrDuplicate)
		}
		return err
	}

	rows := statementResults(result)
	if len(rows) == 0 {
		return errors.New("no result returned from create")
	}
	created := parseClientData(rows[0])
	client.ID = created.ID
	client.Active = created.Active
	client.CreatedAt = created.CreatedAt
	client.UpdatedAt = created.UpdatedAt
	return nil
}

// GetByID retrieves a client by ID. Returns nil when absent.
func (r *ClientRepository) GetByID(ctx context.Context, clientID string) (*model.Client, error) {
	query := `SELECT * FROM type::record($client_id)`
	vars := map[string]interface{}{"client_id": clientID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseClientResult(result)
}

// GetByEmail retrieves a client by email. Returns nil when absent.
func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*model.Client, error) {
	query := `SELECT * FROM client WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": email}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseClientResult(result)
}

// List retrieves clients ordered by name
func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*model.Client, error) {
	query := `SELECT * FROM client ORDER BY name ASC LIMIT $limit START $offset`
	vars := map[string]interface{}{"limit": limit, "offset": offset}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseClientsResult(result)
}

// Count returns the total number of clients
func (r *ClientRepository) Count(ctx context.Context) (int, error) {
	result, err := r.db.QueryOne(ctx, `SELECT count() AS count FROM client GROUP ALL`, nil)
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

// Update applies a partial update and returns the updated client
func (r *ClientRepository) Update(ctx context.Context, clientID string, updates map[string]interface{}) (*model.Client, error) {
	query := `UPDATE type::record($client_id) SET updated_at = time::now()`
	vars := map[string]interface{}{"client_id": clientID}

	for key, value := range updates {
		query += ", " + key + " = $" + key
		vars[key] = value
	}

	query += ` RETURN AFTER`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseClientResult(result)
}

// Deactivate soft-deletes a client by clearing the active flag
func (r *ClientRepository) Deactivate(ctx context.Context, clientID string) error {
	query := `UPDATE type::record($client_id) SET active = false, updated_at = time::now()`
	vars := map[string]interface{}{"client_id": clientID}

	return r.db.Execute(ctx, query, vars)
}

func parseClientResult(result interface{}) (*model.Client, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected client result format")
	}
	return parseClientData(data), nil
}

func parseClientsResult(result []interface{}) ([]*model.Client, error) {
	rows, ok := extractQueryResults(result)
	if !ok {
		return []*model.Client{}, nil
	}

	clients := make([]*model.Client, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			clients = append(clients, parseClientData(data))
		}
	}
	return clients, nil
}

func parseClientData(data map[string]interface{}) *model.Client {
	return &model.Client{
		ID:           convertSurrealID(data["id"]),
		Name:         getString(data, "name"),
		BirthDate:    getTime(data, "birth_date"),
		Email:        getString(data, "email"),
		Phone:        getStringPtr(data, "phone"),
		CEP:          getStringPtr(data, "cep"),
		Street:       getStringPtr(data, "street"),
		Neighborhood: getStringPtr(data, "neighborhood"),
		City:         getStringPtr(data, "city"),
		State:        getStringPtr(data, "state"),
		PasswordHash: getString(data, "password_hash"),
		Active:       getBool(data, "active"),
		CreatedAt:    getTime(data, "created_at"),
		UpdatedAt:    getTime(data, "updated_at"),
	}
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/recanto/api/internal/database"
	"github.com/recanto/api/internal/model"
)

// ClientRepository defines the interface for client storage
type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, clientID string) (*model.Client, error)
	GetByEmail(ctx context.Context, email string) (*model.Client, error)
	List(ctx context.Context, limit, offset int) ([]*model.Client, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, clientID string, updates map[string]interface{}) (*model.Client, error)
	Deactivate(ctx context.Context, clientID string) error
}

// AddressLookup resolves a CEP into a full address
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (*model.Address, error)
}

// TokenSigner issues signed access tokens for authenticated clients
type TokenSigner interface {
	Issue(subject, role string) (token string, expiresAt time.Time, err error)
}

// ClientService handles client registration, authentication and
// profile management. Address lookups are best-effort: a provider
// outage never blocks registration.
type ClientService struct {
	repo      ClientRepository
	addresses AddressLookup
	signer    TokenSigner
	logger    *slog.Logger
}

// ClientServiceConfig holds configuration for the client service
type ClientServiceConfig struct {
	Repo      ClientRepository
	Addresses AddressLookup
	Signer    TokenSigner
	Logger    *slog.Logger
}

// NewClientService creates a new client service
func NewClientService(cfg ClientServiceConfig) *ClientService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientService{
		repo:      cfg.Repo,
		addresses: cfg.Addresses,
		signer:    cfg.Signer,
		logger:    logger,
	}
}

// Register creates a new client account. The password is stored as a
// bcrypt hash; the plaintext never leaves this function.
func (s *ClientService) Register(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	client := &model.Client{
		Name:         req.Name,
		BirthDate:    req.ParsedBirthDate(),
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Active:       true,
	}

	if req.CEP != nil {
		s.fillAddress(ctx, client, *req.CEP)
	}

	if err := s.repo.Create(ctx, client); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return client, nil
}

// Login authenticates a client and issues an access token. Missing
// accounts, deactivated accounts and bad passwords all surface as the
// same credentials error.
func (s *ClientService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	client, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if client == nil || !client.Active {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.signer.Issue(client.ID, "client")
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Client:    client,
	}, nil
}

// Get retrieves a client by ID
func (s *ClientService) Get(ctx context.Context, clientID string) (*model.Client, error) {
	client, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

// List retrieves clients plus the total count
func (s *ClientService) List(ctx context.Context, limit, offset int) ([]*model.Client, int, error) {
	limit = clampLimit(limit)

	clients, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

// Update applies a partial profile update. A changed CEP re-resolves
// the address, again best-effort.
func (s *ClientService) Update(ctx context.Context, clientID string, req *model.UpdateClientRequest) (*model.Client, error) {
	client, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.CEP != nil {
		fresh := &model.Client{}
		s.fillAddress(ctx, fresh, *req.CEP)
		if fresh.CEP != nil {
			updates["cep"] = *fresh.CEP
		}
		if fresh.Street != nil {
			updates["street"] = *fresh.Street
			updates["neighborhood"] = *fresh.Neighborhood
			updates["city"] = *fresh.City
			updates["state"] = *fresh.State
		}
	}

	if len(updates) == 0 {
		return client, nil
	}

	return s.repo.Update(ctx, clientID, updates)
}

// Deactivate soft-deletes a client account. Historical enrollments
// keep pointing at the record.
func (s *ClientService) Deactivate(ctx context.Context, clientID string) error {
	client, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return ErrClientNotFound
	}
	return s.repo.Deactivate(ctx, clientID)
}

// fillAddress stores the normalized CEP and, when a provider answers,
// the resolved address fields. Lookup failures are logged and ignored.
func (s *ClientService) fillAddress(ctx context.Context, client *model.Client, cep string) {
	normalized := model.NormalizeCEP(cep)
	client.CEP = &normalized

	if s.addresses == nil {
		return
	}

	addr, err := s.addresses.Lookup(ctx, normalized)
	if err != nil {
		s.logger.Warn("address lookup failed, storing cep only",
			"cep", normalized,
			"error", err)
		return
	}

	client.Street = &addr.Street
	client.Neighborhood = &addr.Neighborhood
	client.City = &addr.City
	client.State = &addr.State
}

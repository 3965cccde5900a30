package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/recanto/api/internal/model"
)

// Default provider endpoints. Overridable for tests.
const (
	viaCEPBaseURL    = "https://viacep.com.br/ws"
	brasilAPIBaseURL = "https://brasilapi.com.br/api/cep/v1"
)

// AddressService resolves Brazilian postal codes (CEP) against public
// providers. ViaCEP is tried first, BrasilAPI on failure. Implements
// AddressLookup.
type AddressService struct {
	client       *http.Client
	viaCEPURL    string
	brasilAPIURL string
	logger       *slog.Logger
}

// AddressServiceConfig holds configuration for the address service
type AddressServiceConfig struct {
	Client       *http.Client
	ViaCEPURL    string
	BrasilAPIURL string
	Logger       *slog.Logger
}

// NewAddressService creates a new address service
func NewAddressService(cfg AddressServiceConfig) *AddressService {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	viaCEP := cfg.ViaCEPURL
	if viaCEP == "" {
		viaCEP = viaCEPBaseURL
	}
	brasilAPI := cfg.BrasilAPIURL
	if brasilAPI == "" {
		brasilAPI = brasilAPIBaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AddressService{
		client:       client,
		viaCEPURL:    viaCEP,
		brasilAPIURL: brasilAPI,
		logger:       logger,
	}
}

// Lookup resolves a CEP to an address. The CEP must already be
// normalized to 8 digits. A CEP unknown to a provider is final; a
// provider outage falls through to the next provider.
func (s *AddressService) Lookup(ctx context.Context, cep string) (*model.Address, error) {
	if len(cep) != 8 {
		return nil, ErrInvalidCEP
	}

	addr, err := s.lookupViaCEP(ctx, cep)
	if err == nil {
		return addr, nil
	}
	if err == ErrAddressNotFound {
		return nil, err
	}
	s.logger.Warn("viacep lookup failed, falling back to brasilapi",
		"cep", cep,
		"error", err)

	addr, err = s.lookupBrasilAPI(ctx, cep)
	if err == nil {
		return addr, nil
	}
	if err == ErrAddressNotFound {
		return nil, err
	}
	return nil, ErrAddressProviderDown
}

// viaCEPResponse is ViaCEP's wire format. An unknown CEP answers 200
// with {"erro": true}.
type viaCEPResponse struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	Erro         bool   `json:"erro"`
}

func (s *AddressService) lookupViaCEP(ctx context.Context, cep string) (*model.Address, error) {
	url := fmt.Sprintf("%s/%s/json/", s.viaCEPURL, cep)

	var payload viaCEPResponse
	if err := s.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	if payload.Erro {
		return nil, ErrAddressNotFound
	}

	return &model.Address{
		CEP:          cep,
		Street:       payload.Street,
		Neighborhood: payload.Neighborhood,
		City:         payload.City,
		State:        payload.State,
	}, nil
}

type brasilAPIResponse struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

func (s *AddressService) lookupBrasilAPI(ctx context.Context, cep string) (*model.Address, error) {
	url := fmt.Sprintf("%s/%s", s.brasilAPIURL, cep)

	var payload brasilAPIResponse
	if err := s.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	return &model.Address{
		CEP:          cep,
		Street:       payload.Street,
		Neighborhood: payload.Neighborhood,
		City:         payload.City,
		State:        payload.State,
	}, nil
}

func (s *AddressService) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrAddressNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/recanto/api/internal/model"
)

// AIDrafter asks an external text-generation endpoint for a suggested
// response. Implements ResponseDrafter; callers should chain a
// TemplateDrafter after it since the endpoint may be down.
type AIDrafter struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

// AIDrafterConfig holds configuration for the AI drafter
type AIDrafterConfig struct {
	Client   *http.Client
	Endpoint string
	APIKey   string
}

// NewAIDrafter creates a new AI drafter
func NewAIDrafter(cfg AIDrafterConfig) *AIDrafter {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &AIDrafter{
		client:   client,
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
	}
}

type draftRequest struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Rating  *int   `json:"rating,omitempty"`
}

type draftResponse struct {
	Draft string `json:"draft"`
}

// Draft posts the review content to the drafting endpoint and returns
// the suggested response text.
func (d *AIDrafter) Draft(ctx context.Context, review *model.Review) (string, error) {
	payload, err := json.Marshal(draftRequest{
		Type:    review.Type,
		Title:   review.Title,
		Message: review.Message,
		Rating:  review.Rating,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("draft endpoint returned status %d", resp.StatusCode)
	}

	var out draftResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Draft == "" {
		return "", fmt.Errorf("draft endpoint returned empty draft")
	}
	return out.Draft, nil
}

// TemplateDrafter produces a canned response per review type. It never
// fails, so it terminates any drafter chain.
type TemplateDrafter struct{}

// Draft returns the template for the review's type.
func (TemplateDrafter) Draft(_ context.Context, review *model.Review) (string, error) {
	switch review.Type {
	case model.ReviewTypePraise:
		return "Muito obrigado pelo seu elogio! Ficamos felizes em saber que você teve uma boa experiência no Recanto das Garças. Esperamos vê-lo novamente em breve.", nil
	case model.ReviewTypeCriticism:
		return "Agradecemos o seu retorno e lamentamos que sua experiência não tenha sido a esperada. Sua crítica foi encaminhada à equipe responsável e entraremos em contato caso precisemos de mais detalhes.", nil
	case model.ReviewTypeSuggestion:
		return "Obrigado pela sua sugestão! Todas as ideias são avaliadas pela nossa equipe na próxima revisão de atividades do Recanto das Garças.", nil
	default:
		return "Obrigado pelo seu contato. Nossa equipe analisará sua mensagem e retornará em breve.", nil
	}
}

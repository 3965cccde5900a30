package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/recanto/api/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockReviewRepo struct {
	createFunc  func(ctx context.Context, review *model.Review) error
	getFunc     func(ctx context.Context, reviewID string) (*model.Review, error)
	listFunc    func(ctx context.Context, filters *model.ReviewFilters, limit, offset int) ([]*model.Review, error)
	countFunc   func(ctx context.Context, filters *model.ReviewFilters) (int, error)
	respondFunc func(ctx context.Context, reviewID, response, staffID string) (*model.Review, error)
	updateFunc  func(ctx context.Context, reviewID string, updates map[string]interface{}) (*model.Review, error)
}

func (m *mockReviewRepo) Create(ctx context.Context, review *model.Review) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, review)
	}
	review.ID = "review:test"
	review.Status = model.ReviewStatusPending
	return nil
}

func (m *mockReviewRepo) Get(ctx context.Context, reviewID string) (*model.Review, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, reviewID)
	}
	return nil, nil
}

func (m *mockReviewRepo) List(ctx context.Context, filters *model.ReviewFilters, limit, offset int) ([]*model.Review, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filters, limit, offset)
	}
	return nil, nil
}

func (m *mockReviewRepo) Count(ctx context.Context, filters *model.ReviewFilters) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filters)
	}
	return 0, nil
}

func (m *mockReviewRepo) Respond(ctx context.Context, reviewID, response, staffID string) (*model.Review, error) {
	if m.respondFunc != nil {
		return m.respondFunc(ctx, reviewID, response, staffID)
	}
	return &model.Review{ID: reviewID, Response: &response, RespondedBy: &staffID, Status: model.ReviewStatusAnswered}, nil
}

func (m *mockReviewRepo) Update(ctx context.Context, reviewID string, updates map[string]interface{}) (*model.Review, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, reviewID, updates)
	}
	return &model.Review{ID: reviewID}, nil
}

// failingDrafter always errors, standing in for a dead AI endpoint.
type failingDrafter struct{}

func (failingDrafter) Draft(context.Context, *model.Review) (string, error) {
	return "", errors.New("endpoint unavailable")
}

func newTestReviewService(repo *mockReviewRepo, drafters ...ResponseDrafter) *ReviewService {
	if repo == nil {
		repo = &mockReviewRepo{}
	}
	clients := &mockClientReader{
		getByIDFunc: func(ctx context.Context, id string) (*model.Client, error) {
			return activeClient(id), nil
		},
	}
	activities := &mockActivityReader{
		getByIDFunc: func(ctx context.Context, id string) (*model.Activity, error) {
			return openActivity(id, 10, 0), nil
		},
	}
	return NewReviewService(ReviewServiceConfig{
		Repo:       repo,
		Clients:    clients,
		Activities: activities,
		Drafters:   drafters,
	})
}

func pendingReview(id string) *model.Review {
	return &model.Review{
		ID:      id,
		Type:    model.ReviewTypeCriticism,
		Title:   "Fila no vestiário",
		Message: "O vestiário estava lotado no sábado.",
		Status:  model.ReviewStatusPending,
	}
}

// ============================================================================
// Create Tests
// ============================================================================

func TestReviewCreate_AnonymousWithoutReferences_Succeeds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestReviewService(nil)

	review, err := svc.Create(ctx, &model.CreateReviewRequest{
		Type:      model.ReviewTypeSuggestion,
		Title:     "Mais horários",
		Message:   "Seria bom ter natação à noite.",
		Anonymous: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if review.Status != model.ReviewStatusPending {
		t.Errorf("expected pending status, got %q", review.Status)
	}
}

func TestReviewCreate_UnknownClientReference_ReturnsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewReviewService(ReviewServiceConfig{
		Repo: &mockReviewRepo{},
		Clients: &mockClientReader{
			getByIDFunc: func(ctx context.Context, id string) (*model.Client, error) {
				return nil, nil
			},
		},
		Activities: &mockActivityReader{},
	})

	clientID := "client:missing"
	_, err := svc.Create(ctx, &model.CreateReviewRequest{
		ClientID: &clientID,
		Type:     model.ReviewTypePraise,
		Title:    "Ótimo",
		Message:  "Muito bom.",
	})
	if !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

// ============================================================================
// Respond Tests
// ============================================================================

func TestRespond_ManualText_Persisted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var gotResponse, gotStaff string
	repo := &mockReviewRepo{
		getFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return pendingReview(id), nil
		},
		respondFunc: func(ctx context.Context, reviewID, response, staffID string) (*model.Review, error) {
			gotResponse, gotStaff = response, staffID
			return &model.Review{ID: reviewID, Status: model.ReviewStatusAnswered}, nil
		},
	}
	svc := newTestReviewService(repo)

	text := "Obrigado pelo aviso, vamos reforçar a limpeza aos sábados."
	_, err := svc.Respond(ctx, "review:1", "staff:ana", &model.RespondReviewRequest{Response: &text})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotResponse != text {
		t.Errorf("expected manual response persisted, got %q", gotResponse)
	}
	if gotStaff != "staff:ana" {
		t.Errorf("expected staff id persisted, got %q", gotStaff)
	}
}

func TestRespond_DraftChain_FallsBackToTemplate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var gotResponse string
	repo := &mockReviewRepo{
		getFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return pendingReview(id), nil
		},
		respondFunc: func(ctx context.Context, reviewID, response, staffID string) (*model.Review, error) {
			gotResponse = response
			return &model.Review{ID: reviewID, Status: model.ReviewStatusAnswered}, nil
		},
	}
	svc := newTestReviewService(repo, failingDrafter{}, TemplateDrafter{})

	_, err := svc.Respond(ctx, "review:1", "staff:ana", &model.RespondReviewRequest{UseAiDraft: true})
	if err != nil {
		t.Fatalf("expected template fallback to succeed, got %v", err)
	}
	if gotResponse == "" {
		t.Error("expected a drafted response")
	}
}

func TestRespond_AllDraftersFail_ReturnsError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockReviewRepo{
		getFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return pendingReview(id), nil
		},
	}
	svc := newTestReviewService(repo, failingDrafter{}, failingDrafter{})

	if _, err := svc.Respond(ctx, "review:1", "staff:ana", &model.RespondReviewRequest{UseAiDraft: true}); err == nil {
		t.Error("expected error when every drafter fails")
	}
}

func TestRespond_ArchivedReview_Rejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockReviewRepo{
		getFunc: func(ctx context.Context, id string) (*model.Review, error) {
			r := pendingReview(id)
			r.Status = model.ReviewStatusArchived
			return r, nil
		},
	}
	svc := newTestReviewService(repo)

	text := "resposta"
	if _, err := svc.Respond(ctx, "review:1", "staff:ana", &model.RespondReviewRequest{Response: &text}); !errors.Is(err, ErrReviewArchived) {
		t.Errorf("expected ErrReviewArchived, got %v", err)
	}
}

// ============================================================================
// Template Drafter Tests
// ============================================================================

func TestTemplateDrafter_AlwaysAnswers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	drafter := TemplateDrafter{}
	for _, typ := range []string{model.ReviewTypePraise, model.ReviewTypeCriticism, model.ReviewTypeSuggestion, "unknown"} {
		text, err := drafter.Draft(ctx, &model.Review{Type: typ})
		if err != nil {
			t.Errorf("template drafter must not fail for type %q: %v", typ, err)
		}
		if text == "" {
			t.Errorf("expected non-empty draft for type %q", typ)
		}
	}
}

// ============================================================================
// Sentiment Tests
// ============================================================================

func TestSummarizeSentiment(t *testing.T) {
	t.Parallel()

	rating := func(n int) *int { return &n }

	tests := []struct {
		name   string
		review model.Review
		want   string
	}{
		{
			name:   "high rating positive",
			review: model.Review{Title: "Muito bom", Message: "Gostei da aula.", Rating: rating(5)},
			want:   model.SentimentPositive,
		},
		{
			name:   "positive keyword",
			review: model.Review{Title: "Excelente estrutura", Message: "recomendo a todos", Rating: rating(5)},
			want:   model.SentimentPositive,
		},
		{
			name:   "low rating negative",
			review: model.Review{Title: "Não gostei", Message: "A aula atrasou muito.", Rating: rating(1)},
			want:   model.SentimentNegative,
		},
		{
			name:   "negative keyword",
			review: model.Review{Title: "péssimo atendimento", Message: "Fui mal atendido.", Rating: rating(1)},
			want:   model.SentimentNegative,
		},
		{
			name:   "negative keyword overrides high rating",
			review: model.Review{Title: "Horrível", Message: "Não volto mais.", Rating: rating(5)},
			want:   model.SentimentNegative,
		},
		{
			name:   "mixed keywords fall back to high rating",
			review: model.Review{Title: "excelente estrutura", Message: "mas o estacionamento é ruim", Rating: rating(5)},
			want:   model.SentimentPositive,
		},
		{
			name:   "mixed keywords without rating neutral",
			review: model.Review{Title: "Ótimo professor", Message: "mas o vestiário estava horrível."},
			want:   model.SentimentNeutral,
		},
		{
			name:   "middle rating neutral",
			review: model.Review{Title: "Regular", Message: "Foi ok.", Rating: rating(3)},
			want:   model.SentimentNeutral,
		},
		{
			name:   "no rating no keywords neutral",
			review: model.Review{Title: "Horário", Message: "Qual o horário de funcionamento?"},
			want:   model.SentimentNeutral,
		},
		{
			name:   "keyword match is case insensitive",
			review: model.Review{Title: "EXCELENTE", Message: "Tudo certo."},
			want:   model.SentimentPositive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SummarizeSentiment(&tt.review); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSentimentSummary_SpansMultiplePages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	const total = 250
	all := make([]*model.Review, total)
	for i := range all {
		all[i] = &model.Review{
			ID:      fmt.Sprintf("review:%d", i),
			Type:    model.ReviewTypePraise,
			Title:   "Excelente",
			Message: "Adorei a aula.",
		}
	}

	var offsets []int
	repo := &mockReviewRepo{
		listFunc: func(ctx context.Context, filters *model.ReviewFilters, limit, offset int) ([]*model.Review, error) {
			offsets = append(offsets, offset)
			if offset >= total {
				return nil, nil
			}
			end := offset + limit
			if end > total {
				end = total
			}
			return all[offset:end], nil
		},
	}
	svc := newTestReviewService(repo)

	entries, err := svc.SentimentSummary(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != total {
		t.Fatalf("expected %d entries, got %d", total, len(entries))
	}
	if len(offsets) < 3 {
		t.Errorf("expected at least 3 pages fetched, got offsets %v", offsets)
	}
	if entries[total-1].ID != fmt.Sprintf("review:%d", total-1) {
		t.Errorf("expected last review included, got %q", entries[total-1].ID)
	}
}

func TestSentimentSummary_NoReviews_ReturnsEmptySlice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestReviewService(&mockReviewRepo{})

	entries, err := svc.SentimentSummary(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty slice, got %v", entries)
	}
}

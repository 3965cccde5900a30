package service

import (
	"context"
	"log/slog"

	"github.com/recanto/api/internal/model"
)

// ReviewRepository defines the interface for review storage
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Get(ctx context.Context, reviewID string) (*model.Review, error)
	List(ctx context.Context, filters *model.ReviewFilters, limit, offset int) ([]*model.Review, error)
	Count(ctx context.Context, filters *model.ReviewFilters) (int, error)
	Respond(ctx context.Context, reviewID, response, staffID string) (*model.Review, error)
	Update(ctx context.Context, reviewID string, updates map[string]interface{}) (*model.Review, error)
}

// ResponseDrafter produces a suggested staff response for a review.
// Implementations that cannot draft return an error; the service walks
// its drafter list in order until one succeeds.
type ResponseDrafter interface {
	Draft(ctx context.Context, review *model.Review) (string, error)
}

// ReviewService handles feedback intake, staff responses and the
// sentiment summary. Responses may be drafted by the configured
// drafter chain; the last drafter is expected to always succeed.
type ReviewService struct {
	repo     ReviewRepository
	clients  ClientReader
	acts     ActivityReader
	drafters []ResponseDrafter
	logger   *slog.Logger
}

// ReviewServiceConfig holds configuration for the review service
type ReviewServiceConfig struct {
	Repo       ReviewRepository
	Clients    ClientReader
	Activities ActivityReader
	Drafters   []ResponseDrafter
	Logger     *slog.Logger
}

// NewReviewService creates a new review service
func NewReviewService(cfg ReviewServiceConfig) *ReviewService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{
		repo:     cfg.Repo,
		clients:  cfg.Clients,
		acts:     cfg.Activities,
		drafters: cfg.Drafters,
		logger:   logger,
	}
}

// Create stores a new review. Both references are optional, but when
// present they must point at existing records.
func (s *ReviewService) Create(ctx context.Context, req *model.CreateReviewRequest) (*model.Review, error) {
	if req.ClientID != nil {
		client, err := s.clients.GetByID(ctx, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, ErrClientNotFound
		}
	}
	if req.ActivityID != nil {
		activity, err := s.acts.GetByID(ctx, *req.ActivityID)
		if err != nil {
			return nil, err
		}
		if activity == nil {
			return nil, ErrActivityNotFound
		}
	}

	review := &model.Review{
		ClientID:   req.ClientID,
		ActivityID: req.ActivityID,
		Type:       req.Type,
		Title:      req.Title,
		Message:    req.Message,
		Rating:     req.Rating,
		Public:     req.Public,
		Anonymous:  req.Anonymous,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Get retrieves a review by ID
func (s *ReviewService) Get(ctx context.Context, reviewID string) (*model.Review, error) {
	review, err := s.repo.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// List retrieves reviews plus the total matching count
func (s *ReviewService) List(ctx context.Context, filters *model.ReviewFilters, limit, offset int) ([]*model.Review, int, error) {
	limit = clampLimit(limit)

	reviews, err := s.repo.List(ctx, filters, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ListPublic retrieves only staff-approved public reviews
func (s *ReviewService) ListPublic(ctx context.Context, filters *model.ReviewFilters, limit, offset int) ([]*model.Review, int, error) {
	if filters == nil {
		filters = &model.ReviewFilters{}
	}
	filters.PublicOnly = true
	return s.List(ctx, filters, limit, offset)
}

// Respond records a staff answer on a pending review. When the request
// asks for a draft, the drafter chain is consulted in order; a drafter
// failure falls through to the next one.
func (s *ReviewService) Respond(ctx context.Context, reviewID, staffID string, req *model.RespondReviewRequest) (*model.Review, error) {
	review, err := s.repo.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	if review.Status == model.ReviewStatusArchived {
		return nil, ErrReviewArchived
	}

	response := ""
	if req.Response != nil {
		response = *req.Response
	}
	if req.UseAiDraft && response == "" {
		response, err = s.draft(ctx, review)
		if err != nil {
			return nil, err
		}
	}

	return s.repo.Respond(ctx, reviewID, response, staffID)
}

// DraftResponse runs the drafter chain without persisting anything, so
// staff can preview and edit the suggestion.
func (s *ReviewService) DraftResponse(ctx context.Context, reviewID string) (string, error) {
	review, err := s.repo.Get(ctx, reviewID)
	if err != nil {
		return "", err
	}
	if review == nil {
		return "", ErrReviewNotFound
	}
	return s.draft(ctx, review)
}

// Archive hides a review from staff work queues. Archived reviews
// cannot be answered.
func (s *ReviewService) Archive(ctx context.Context, reviewID string) (*model.Review, error) {
	review, err := s.repo.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}

	return s.repo.Update(ctx, reviewID, map[string]interface{}{
		"status": model.ReviewStatusArchived,
	})
}

// SetVisibility toggles whether a review shows on the public listing
func (s *ReviewService) SetVisibility(ctx context.Context, reviewID string, public bool) (*model.Review, error) {
	review, err := s.repo.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}

	return s.repo.Update(ctx, reviewID, map[string]interface{}{
		"public": public,
	})
}

// SentimentSummary classifies every review matching the filters. The
// classification is rating-first with a keyword override, see
// SummarizeSentiment. Reviews are fetched page by page until the
// result set is exhausted so the summary covers the whole corpus.
func (s *ReviewService) SentimentSummary(ctx context.Context, filters *model.ReviewFilters) ([]model.SentimentEntry, error) {
	var entries []model.SentimentEntry
	for offset := 0; ; offset += maxPageSize {
		reviews, err := s.repo.List(ctx, filters, maxPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, review := range reviews {
			entries = append(entries, model.SentimentEntry{
				ID:        review.ID,
				Sentiment: SummarizeSentiment(review),
				Rating:    review.Rating,
				Type:      review.Type,
			})
		}
		if len(reviews) < maxPageSize {
			break
		}
	}
	if entries == nil {
		entries = []model.SentimentEntry{}
	}
	return entries, nil
}

func (s *ReviewService) draft(ctx context.Context, review *model.Review) (string, error) {
	var lastErr error
	for _, drafter := range s.drafters {
		text, err := drafter.Draft(ctx, review)
		if err == nil {
			return text, nil
		}
		lastErr = err
		s.logger.Warn("response drafter failed, trying next",
			"review_id", review.ID,
			"error", err)
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", ErrNoDrafterConfigured
}

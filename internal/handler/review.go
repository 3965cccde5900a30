package handler

import (
	"net/http"

	"github.com/recanto/api/internal/middleware"
	"github.com/recanto/api/internal/model"
	"github.com/recanto/api/internal/service"
)

// ReviewHandler handles feedback endpoints
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Create handles POST /api/avaliacoes - public, anonymous allowed
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateReviewRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	review, err := h.reviewService.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusCreated, review)
}

// Get handles GET /api/avaliacoes/{id} - staff only
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("id")
	if reviewID == "" {
		WriteError(w, model.NewBadRequestError("review ID required"))
		return
	}

	review, err := h.reviewService.Get(r.Context(), reviewID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, review)
}

// List handles GET /api/avaliacoes - staff only, all reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	filters, apiErr := reviewFiltersFromQuery(r)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}

	reviews, total, err := h.reviewService.List(r.Context(), filters, limit, offset)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WritePage(w, http.StatusOK, reviews, total, limit, offset)
}

// ListPublic handles GET /api/avaliacoes/publicas - public wall
func (h *ReviewHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	filters, apiErr := reviewFiltersFromQuery(r)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}

	reviews, total, err := h.reviewService.ListPublic(r.Context(), filters, limit, offset)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WritePage(w, http.StatusOK, reviews, total, limit, offset)
}

// Respond handles PUT /api/avaliacoes/{id}/responder - staff only
func (h *ReviewHandler) Respond(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("id")
	if reviewID == "" {
		WriteError(w, model.NewBadRequestError("review ID required"))
		return
	}

	staffID := middleware.GetClientID(r.Context())
	if staffID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.RespondReviewRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	review, err := h.reviewService.Respond(r.Context(), reviewID, staffID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, review)
}

// Draft handles GET /api/avaliacoes/{id}/rascunho - staff only.
// Returns a suggested response without persisting anything.
func (h *ReviewHandler) Draft(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("id")
	if reviewID == "" {
		WriteError(w, model.NewBadRequestError("review ID required"))
		return
	}

	draft, err := h.reviewService.DraftResponse(r.Context(), reviewID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]string{"draft": draft})
}

// Archive handles PUT /api/avaliacoes/{id}/arquivar - staff only
func (h *ReviewHandler) Archive(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("id")
	if reviewID == "" {
		WriteError(w, model.NewBadRequestError("review ID required"))
		return
	}

	review, err := h.reviewService.Archive(r.Context(), reviewID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, review)
}

// SetVisibility handles PUT /api/avaliacoes/{id}/visibilidade - staff only
func (h *ReviewHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("id")
	if reviewID == "" {
		WriteError(w, model.NewBadRequestError("review ID required"))
		return
	}

	var req model.SetVisibilityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	review, err := h.reviewService.SetVisibility(r.Context(), reviewID, req.Public)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, review)
}

// Sentiment handles GET /api/avaliacoes/admin/sentimento - staff only
func (h *ReviewHandler) Sentiment(w http.ResponseWriter, r *http.Request) {
	filters, apiErr := reviewFiltersFromQuery(r)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}

	entries, err := h.reviewService.SentimentSummary(r.Context(), filters)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, entries)
}

func reviewFiltersFromQuery(r *http.Request) (*model.ReviewFilters, *model.APIError) {
	filters := &model.ReviewFilters{}
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		switch raw {
		case model.ReviewStatusPending, model.ReviewStatusAnswered, model.ReviewStatusArchived:
			filters.Status = &raw
		default:
			return nil, model.NewValidationError([]model.FieldError{
				{Field: "status", Message: "unknown review status"},
			})
		}
	}
	if raw := q.Get("tipo"); raw != "" {
		if !model.ValidReviewType(raw) {
			return nil, model.NewValidationError([]model.FieldError{
				{Field: "tipo", Message: "tipo must be praise, criticism or suggestion"},
			})
		}
		filters.Type = &raw
	}
	if raw := q.Get("idAtividade"); raw != "" {
		filters.ActivityID = &raw
	}

	return filters, nil
}

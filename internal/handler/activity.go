package handler

import (
	"net/http"

	"github.com/recanto/api/internal/model"
	"github.com/recanto/api/internal/service"
)

// ActivityHandler handles activity catalog endpoints
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// Create handles POST /api/atividades - staff only
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateActivityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	activity, err := h.activityService.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusCreated, activity)
}

// Get handles GET /api/atividades/{id} - public
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("id")
	if activityID == "" {
		WriteError(w, model.NewBadRequestError("activity ID required"))
		return
	}

	activity, err := h.activityService.Get(r.Context(), activityID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, activity)
}

// List handles GET /api/atividades - public, filterable by unidade/status
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	filters := &model.ActivityFilters{}
	if raw := r.URL.Query().Get("unidade"); raw != "" {
		filters.Unit = &raw
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		if raw != model.ActivityStatusActive && raw != model.ActivityStatusInactive {
			WriteError(w, model.NewValidationError([]model.FieldError{
				{Field: "status", Message: "status must be active or inactive"},
			}))
			return
		}
		filters.Status = &raw
	}

	activities, total, err := h.activityService.List(r.Context(), filters, limit, offset)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WritePage(w, http.StatusOK, activities, total, limit, offset)
}

// Update handles PUT /api/atividades/{id} - staff only
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("id")
	if activityID == "" {
		WriteError(w, model.NewBadRequestError("activity ID required"))
		return
	}

	var req model.UpdateActivityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	activity, err := h.activityService.Update(r.Context(), activityID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, activity)
}

// Delete handles DELETE /api/atividades/{id} - staff only, soft delete
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("id")
	if activityID == "" {
		WriteError(w, model.NewBadRequestError("activity ID required"))
		return
	}

	if err := h.activityService.Delete(r.Context(), activityID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

package handler

import (
	"net/http"

	"github.com/recanto/api/internal/model"
	"github.com/recanto/api/internal/service"
)

// ResponsibleHandler handles instructor registry endpoints (staff only)
type ResponsibleHandler struct {
	responsibleService *service.ResponsibleService
}

// NewResponsibleHandler creates a new responsible handler
func NewResponsibleHandler(responsibleService *service.ResponsibleService) *ResponsibleHandler {
	return &ResponsibleHandler{
		responsibleService: responsibleService,
	}
}

// Create handles POST /api/responsaveis
func (h *ResponsibleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateResponsibleRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	responsible, err := h.responsibleService.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusCreated, responsible)
}

// Get handles GET /api/responsaveis/{id}
func (h *ResponsibleHandler) Get(w http.ResponseWriter, r *http.Request) {
	responsibleID := r.PathValue("id")
	if responsibleID == "" {
		WriteError(w, model.NewBadRequestError("responsible ID required"))
		return
	}

	responsible, err := h.responsibleService.Get(r.Context(), responsibleID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, responsible)
}

// List handles GET /api/responsaveis, filterable by unidade/especialidade
func (h *ResponsibleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	filters := &model.ResponsibleFilters{}
	if raw := r.URL.Query().Get("unidade"); raw != "" {
		filters.Unit = &raw
	}
	if raw := r.URL.Query().Get("especialidade"); raw != "" {
		filters.Specialty = &raw
	}

	responsibles, err := h.responsibleService.List(r.Context(), filters, limit, offset)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, responsibles)
}

// Update handles PUT /api/responsaveis/{id}
func (h *ResponsibleHandler) Update(w http.ResponseWriter, r *http.Request) {
	responsibleID := r.PathValue("id")
	if responsibleID == "" {
		WriteError(w, model.NewBadRequestError("responsible ID required"))
		return
	}

	var req model.UpdateResponsibleRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	responsible, err := h.responsibleService.Update(r.Context(), responsibleID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, responsible)
}

// Delete handles DELETE /api/responsaveis/{id}
func (h *ResponsibleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	responsibleID := r.PathValue("id")
	if responsibleID == "" {
		WriteError(w, model.NewBadRequestError("responsible ID required"))
		return
	}

	if err := h.responsibleService.Delete(r.Context(), responsibleID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

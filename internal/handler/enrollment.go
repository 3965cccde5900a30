package handler

import (
	"net/http"
	"time"

	"github.com/recanto/api/internal/model"
	"github.com/recanto/api/internal/service"
)

// EnrollmentHandler handles enrollment lifecycle endpoints
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
	}
}

// Create handles POST /api/inscricoes - enroll a client in an activity
func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEnrollmentRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	enrollment, err := h.enrollmentService.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusCreated, enrollment)
}

// Get handles GET /api/inscricoes/{id}
func (h *EnrollmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	enrollmentID := r.PathValue("id")
	if enrollmentID == "" {
		WriteError(w, model.NewBadRequestError("enrollment ID required"))
		return
	}

	enrollment, err := h.enrollmentService.Get(r.Context(), enrollmentID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, enrollment)
}

// Confirm handles PUT /api/inscricoes/{id}/confirmar
func (h *EnrollmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	enrollmentID := r.PathValue("id")
	if enrollmentID == "" {
		WriteError(w, model.NewBadRequestError("enrollment ID required"))
		return
	}

	enrollment, err := h.enrollmentService.Confirm(r.Context(), enrollmentID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, enrollment)
}

// Cancel handles PUT /api/inscricoes/{id}/cancelar
func (h *EnrollmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	enrollmentID := r.PathValue("id")
	if enrollmentID == "" {
		WriteError(w, model.NewBadRequestError("enrollment ID required"))
		return
	}

	// The cancel body is optional; an empty body means no reason.
	var req model.CancelEnrollmentRequest
	if r.ContentLength > 0 {
		if err := DecodeJSON(r, &req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid request body"))
			return
		}
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	enrollment, err := h.enrollmentService.Cancel(r.Context(), enrollmentID, req.Motivo)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, enrollment)
}

// List handles GET /api/inscricoes with optional status/unit/period filters
func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	filters, apiErr := enrollmentFiltersFromQuery(r)
	if apiErr != nil {
		WriteError(w, apiErr)
		return
	}

	enrollments, total, err := h.enrollmentService.List(r.Context(), filters, limit, offset)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WritePage(w, http.StatusOK, enrollments, total, limit, offset)
}

// ListByClient handles GET /api/inscricoes/cliente/{id}
func (h *EnrollmentHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	if clientID == "" {
		WriteError(w, model.NewBadRequestError("client ID required"))
		return
	}

	limit, offset := parsePagination(r)

	enrollments, total, err := h.enrollmentService.ListByClient(r.Context(), clientID, limit, offset)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WritePage(w, http.StatusOK, enrollments, total, limit, offset)
}

// ListByActivity handles GET /api/inscricoes/atividade/{id}
func (h *EnrollmentHandler) ListByActivity(w http.ResponseWriter, r *http.Request) {
	activityID := r.PathValue("id")
	if activityID == "" {
		WriteError(w, model.NewBadRequestError("activity ID required"))
		return
	}

	limit, offset := parsePagination(r)

	enrollments, total, err := h.enrollmentService.ListByActivity(r.Context(), activityID, limit, offset)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WritePage(w, http.StatusOK, enrollments, total, limit, offset)
}

// Report handles GET /api/inscricoes/admin/relatorio with inicio/fim/unidade filters
func (h *EnrollmentHandler) Report(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time
	if raw := r.URL.Query().Get("inicio"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			WriteError(w, model.NewValidationError([]model.FieldError{
				{Field: "inicio", Message: "inicio must be an RFC 3339 timestamp"},
			}))
			return
		}
		from = &t
	}
	if raw := r.URL.Query().Get("fim"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			WriteError(w, model.NewValidationError([]model.FieldError{
				{Field: "fim", Message: "fim must be an RFC 3339 timestamp"},
			}))
			return
		}
		to = &t
	}

	var unit *string
	if raw := r.URL.Query().Get("unidade"); raw != "" {
		unit = &raw
	}

	report, err := h.enrollmentService.Report(r.Context(), from, to, unit)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, report)
}

func enrollmentFiltersFromQuery(r *http.Request) (*model.EnrollmentFilters, *model.APIError) {
	filters := &model.EnrollmentFilters{}
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		switch raw {
		case model.EnrollmentStatusPending, model.EnrollmentStatusConfirmed,
			model.EnrollmentStatusCanceled, model.EnrollmentStatusWaitlisted:
			filters.Status = &raw
		default:
			return nil, model.NewValidationError([]model.FieldError{
				{Field: "status", Message: "unknown enrollment status"},
			})
		}
	}
	if raw := q.Get("unidade"); raw != "" {
		filters.Unit = &raw
	}

	return filters, nil
}

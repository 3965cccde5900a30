package handler

import (
	"net/http"

	"github.com/recanto/api/internal/middleware"
	"github.com/recanto/api/internal/model"
	"github.com/recanto/api/internal/service"
)

// ClientHandler handles client registration, login and profile endpoints
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// Register handles POST /api/clientes - public self-registration
func (h *ClientHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.CreateClientRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	client, err := h.clientService.Register(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusCreated, client)
}

// Login handles POST /api/clientes/login
func (h *ClientHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	var fieldErrors []model.FieldError
	if req.Email == "" {
		fieldErrors = append(fieldErrors, model.FieldError{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		fieldErrors = append(fieldErrors, model.FieldError{Field: "password", Message: "password is required"})
	}
	if len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	resp, err := h.clientService.Login(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, resp)
}

// Get handles GET /api/clientes/{id} - owner or staff
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	if clientID == "" {
		WriteError(w, model.NewBadRequestError("client ID required"))
		return
	}

	if apiErr := requireSelfOrStaff(r, clientID); apiErr != nil {
		WriteError(w, apiErr)
		return
	}

	client, err := h.clientService.Get(r.Context(), clientID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, client)
}

// List handles GET /api/clientes - staff only (enforced by route middleware)
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	clients, total, err := h.clientService.List(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WritePage(w, http.StatusOK, clients, total, limit, offset)
}

// Update handles PUT /api/clientes/{id} - owner or staff
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	if clientID == "" {
		WriteError(w, model.NewBadRequestError("client ID required"))
		return
	}

	if apiErr := requireSelfOrStaff(r, clientID); apiErr != nil {
		WriteError(w, apiErr)
		return
	}

	var req model.UpdateClientRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	client, err := h.clientService.Update(r.Context(), clientID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, client)
}

// Deactivate handles DELETE /api/clientes/{id} - owner or staff
func (h *ClientHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	if clientID == "" {
		WriteError(w, model.NewBadRequestError("client ID required"))
		return
	}

	if apiErr := requireSelfOrStaff(r, clientID); apiErr != nil {
		WriteError(w, apiErr)
		return
	}

	if err := h.clientService.Deactivate(r.Context(), clientID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// requireSelfOrStaff allows the authenticated owner of the record or
// any staff token through.
func requireSelfOrStaff(r *http.Request, clientID string) *model.APIError {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		return model.NewUnauthorizedError("authentication required")
	}
	if claims.IsStaff() || claims.Subject == clientID {
		return nil
	}
	return model.NewForbiddenError("access restricted to the account owner")
}

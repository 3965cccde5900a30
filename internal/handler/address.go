package handler

import (
	"net/http"

	"github.com/recanto/api/internal/model"
	"github.com/recanto/api/internal/service"
)

// AddressHandler handles CEP lookup endpoints
type AddressHandler struct {
	addressService *service.AddressService
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(addressService *service.AddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
	}
}

// Lookup handles GET /api/cep/{cep} - resolve a Brazilian postal code
func (h *AddressHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	cep := r.PathValue("cep")
	if cep == "" {
		WriteError(w, model.NewBadRequestError("cep required"))
		return
	}

	address, err := h.addressService.Lookup(r.Context(), cep)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteSuccess(w, http.StatusOK, address)
}

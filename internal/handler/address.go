package handler

import (
	"errors"
	"net/http"

	"github.com/addrbook/addrbook/internal/envelope"
	"github.com/addrbook/addrbook/internal/handler/dto"
	"github.com/addrbook/addrbook/internal/service"
)

// AddressHandler handles HTTP requests for address operations.
type AddressHandler struct {
	*Handler
	svc *service.AddressService
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(svc *service.AddressService, base *Handler) *AddressHandler {
	return &AddressHandler{
		Handler: base,
		svc:     svc,
	}
}

// List handles GET /users/{user_id}/addresses.
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "user_id")
	if !ok {
		return
	}

	addresses, err := h.svc.ListAddresses(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.reply(w, envelope.Collection(h.replies, dto.ToAddressResponses(addresses)))
}

// Update handles PUT /users/{user_id}/addresses/{address_id}.
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "user_id")
	if !ok {
		return
	}
	addressID, ok := h.pathID(w, r, "address_id")
	if !ok {
		return
	}

	var req dto.AddressRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := h.svc.UpdateAddress(r.Context(), req.ToInput(userID, addressID)); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("address_updated",
		"user_id", userID,
		"address_id", addressID,
	)

	h.reply(w, h.replies.Empty(http.StatusOK))
}

func (h *AddressHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrAddressNotFound):
		h.reply(w, h.replies.NotFound())
	case errors.Is(err, service.ErrOwnershipMismatch):
		h.reply(w, h.replies.BadRequest())
	default:
		h.internalError(w, r, err)
	}
}

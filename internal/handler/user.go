package handler

import (
	"errors"
	"net/http"

	"github.com/addrbook/addrbook/internal/envelope"
	"github.com/addrbook/addrbook/internal/handler/dto"
	"github.com/addrbook/addrbook/internal/service"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	*Handler
	svc *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, base *Handler) *UserHandler {
	return &UserHandler{
		Handler: base,
		svc:     svc,
	}
}

// List handles GET /users?sortedBy=&order=.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	users, err := h.svc.ListUsers(r.Context(), service.ListUsersInput{
		SortedBy: query.Get("sortedBy"),
		Order:    query.Get("order"),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.reply(w, envelope.Collection(h.replies, dto.ToUserResponses(users)))
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.svc.CreateUser(r.Context(), req.ToInput())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_created",
		"user_id", user.ID,
		"addresses", len(user.Addresses),
	)

	h.reply(w, h.replies.Empty(http.StatusCreated))
}

// Patch handles PATCH /users/{id}.
func (h *UserHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.PatchUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := h.svc.PatchUser(r.Context(), req.ToInput(id)); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_updated",
		"user_id", id,
		"password_changed", req.Password != nil,
	)

	h.reply(w, h.replies.Empty(http.StatusOK))
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", id)

	h.reply(w, h.replies.Empty(http.StatusOK))
}

func (h *UserHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		h.reply(w, h.replies.NotFound())
	case errors.Is(err, service.ErrUserMissing):
		// Deleting an absent user is a bad request, not a 404.
		h.reply(w, h.replies.BadRequest())
	default:
		h.internalError(w, r, err)
	}
}

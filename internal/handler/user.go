package handler

import (
	"context"
	"log"
	"net/http"

	"carmarket/internal/httputil"
	"carmarket/internal/model"
)

type UserService interface {
	GetOrCreate(ctx context.Context, p model.Principal) (*model.User, error)
	Update(ctx context.Context, p model.Principal, req *model.UpdateProfileRequest) (*model.User, error)
}

// UserHandler serves the caller's own profile
type UserHandler struct {
	userService UserService
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Get handles GET /user
// The profile row is created from the session on first access.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.userService.GetOrCreate(r.Context(), p)
	if err != nil {
		log.Printf("[ERROR] Get profile handler: user=%s err=%v", p.ID, err)
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Update handles PUT /user
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Update(r.Context(), p, &req)
	if err != nil {
		log.Printf("[ERROR] Update profile handler: user=%s err=%v", p.ID, err)
		httputil.WriteInternalError(w, "Failed to update profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"carmarket/internal/httputil"
	"carmarket/internal/model"
)

type FavoriteService interface {
	Toggle(ctx context.Context, p model.Principal, carID string) (*model.ToggleFavoriteResponse, error)
	List(ctx context.Context, p model.Principal) ([]model.FavoriteWithCar, error)
}

type FavoriteHandler struct {
	favoriteService FavoriteService
}

func NewFavoriteHandler(favoriteService FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// List handles GET /favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	favorites, err := h.favoriteService.List(r.Context(), p)
	if err != nil {
		log.Printf("[ERROR] List favorites handler: user=%s err=%v", p.ID, err)
		httputil.WriteInternalError(w, "Failed to list favorites")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, favorites)
}

// Toggle handles POST /favorites
// Adds the car to the caller's favorites, or removes it if already there.
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.ToggleFavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.favoriteService.Toggle(r.Context(), p, req.CarID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidInput):
			httputil.WriteBadRequest(w, "carId is required")
		case errors.Is(err, model.ErrCarNotFound):
			httputil.WriteNotFound(w, "Car not found")
		default:
			log.Printf("[ERROR] Toggle favorite handler: user=%s car=%s err=%v", p.ID, req.CarID, err)
			httputil.WriteInternalError(w, "Failed to toggle favorite")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carmarket/internal/httputil"
	"carmarket/internal/model"
)

// CarService is the listing behavior the car routes need.
type CarService interface {
	List(ctx context.Context, filter model.CarFilter) (*model.CarListResponse, error)
	GetByID(ctx context.Context, id string) (*model.CarDetail, error)
	Create(ctx context.Context, p model.Principal, req *model.CreateCarRequest) (*model.Car, error)
	Update(ctx context.Context, p model.Principal, id string, req *model.UpdateCarRequest) (*model.Car, error)
	Delete(ctx context.Context, p model.Principal, id string) error
}

type CarHandler struct {
	carService CarService
}

func NewCarHandler(carService CarService) *CarHandler {
	return &CarHandler{carService: carService}
}

// List handles GET /cars
// Public search over active listings, or all of one seller's listings with ?sellerId.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCarFilter(r.URL.Query())
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	resp, err := h.carService.List(r.Context(), filter)
	if err != nil {
		log.Printf("[ERROR] List cars handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to list cars")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// GetByID handles GET /cars/:id
func (h *CarHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	car, err := h.carService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrCarNotFound) {
			httputil.WriteNotFound(w, "Car not found")
			return
		}
		log.Printf("[ERROR] Get car handler: car=%s err=%v", id, err)
		httputil.WriteInternalError(w, "Failed to get car")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, car)
}

// Create handles POST /cars
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateCarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	car, err := h.carService.Create(r.Context(), p, &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		log.Printf("[ERROR] Create car handler: user=%s err=%v", p.ID, err)
		httputil.WriteInternalError(w, "Failed to create car")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, car)
}

// Update handles PUT /cars/:id
// Only the seller may edit; fields absent from the body are left unchanged.
func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	id := chi.URLParam(r, "id")

	var req model.UpdateCarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	car, err := h.carService.Update(r.Context(), p, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCarNotFound):
			httputil.WriteNotFound(w, "Car not found")
		case errors.Is(err, model.ErrNotCarOwner):
			httputil.WriteForbidden(w, "You can only edit your own listings")
		case errors.Is(err, model.ErrInvalidInput):
			httputil.WriteBadRequest(w, err.Error())
		default:
			log.Printf("[ERROR] Update car handler: user=%s car=%s err=%v", p.ID, id, err)
			httputil.WriteInternalError(w, "Failed to update car")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, car)
}

// Delete handles DELETE /cars/:id
func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.carService.Delete(r.Context(), p, id); err != nil {
		switch {
		case errors.Is(err, model.ErrCarNotFound):
			httputil.WriteNotFound(w, "Car not found")
		case errors.Is(err, model.ErrNotCarOwner):
			httputil.WriteForbidden(w, "You can only delete your own listings")
		default:
			log.Printf("[ERROR] Delete car handler: user=%s car=%s err=%v", p.ID, id, err)
			httputil.WriteInternalError(w, "Failed to delete car")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

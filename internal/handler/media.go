package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"carmarket/internal/httputil"
	"carmarket/internal/model"
)

type MediaService interface {
	PresignCarImageUpload(ctx context.Context, p model.Principal, req *model.PresignCarImageRequest) (*model.PresignCarImageResponse, error)
}

type MediaHandler struct {
	mediaService MediaService
}

// NewMediaHandler accepts a nil service when object storage is not configured.
func NewMediaHandler(mediaService MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// PresignCarImage handles POST /media/cars/presign
// Returns a presigned URL for uploading one listing photo directly to R2.
func (h *MediaHandler) PresignCarImage(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if h.mediaService == nil {
		httputil.WriteServiceUnavailable(w, "Image uploads are not configured")
		return
	}

	var req model.PresignCarImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	res, err := h.mediaService.PresignCarImageUpload(r.Context(), p, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, webp")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Image exceeds 10MB limit")
		case errors.Is(err, model.ErrInvalidInput):
			httputil.WriteBadRequest(w, err.Error())
		default:
			log.Printf("[ERROR] Presign car image handler: user=%s err=%v", p.ID, err)
			httputil.WriteInternalError(w, "Failed to create upload URL")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

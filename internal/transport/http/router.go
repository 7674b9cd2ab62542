package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"carmarket/internal/handler"
	"carmarket/internal/httputil"
	authmw "carmarket/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	CarHandler      *handler.CarHandler
	FavoriteHandler *handler.FavoriteHandler
	MessageHandler  *handler.MessageHandler
	UserHandler     *handler.UserHandler
	MediaHandler    *handler.MediaHandler

	Verifier    authmw.TokenVerifier
	RateLimiter *authmw.LimiterStore
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public listing browse
	r.Get("/cars", cfg.CarHandler.List)
	r.Get("/cars/{id}", cfg.CarHandler.GetByID)

	// Protected routes - require a valid session
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.Verifier))

		limited := func(h http.HandlerFunc) http.Handler {
			if cfg.RateLimiter == nil {
				return h
			}
			return authmw.RateLimit(cfg.RateLimiter)(h)
		}

		r.Post("/cars", cfg.CarHandler.Create)
		r.Put("/cars/{id}", cfg.CarHandler.Update)
		r.Delete("/cars/{id}", cfg.CarHandler.Delete)

		r.Get("/favorites", cfg.FavoriteHandler.List)
		r.Method(http.MethodPost, "/favorites", limited(cfg.FavoriteHandler.Toggle))

		r.Get("/messages", cfg.MessageHandler.List)
		r.Method(http.MethodPost, "/messages", limited(cfg.MessageHandler.Send))

		r.Get("/user", cfg.UserHandler.Get)
		r.Put("/user", cfg.UserHandler.Update)

		// Direct-to-R2 listing photo uploads
		r.Post("/media/cars/presign", cfg.MediaHandler.PresignCarImage)
	})

	return r
}

package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"time"

	"carmarket/internal/config"
	"carmarket/internal/database"
	"carmarket/internal/database/migrations"
	"carmarket/internal/handler"
	"carmarket/internal/identity"
	"carmarket/internal/queue"
	"carmarket/internal/redis"
	"carmarket/internal/repository"
	"carmarket/internal/service"
	authmw "carmarket/internal/transport/http/middleware"
)

const (
	// eventStreamMaxLen bounds the marketplace stream; older entries are trimmed.
	eventStreamMaxLen = 10000

	shutdownTimeout = 10 * time.Second
)

// Run wires the store, optional Redis and R2 collaborators and the HTTP API, then
// serves until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := migrations.MigrateUp(db.DB); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Println("Database schema is up to date")
	} else if err := migrations.CheckDBMigrationStatus(db.DB); err != nil {
		return fmt.Errorf("database schema check failed: %w", err)
	}

	// Events are optional; without Redis the services skip publishing.
	var publisher queue.Publisher
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		if err := redisClient.Ping(ctx); err != nil {
			log.Printf("[WARN] Redis unreachable, events disabled: %v", err)
		} else {
			publisher = queue.NewPublisher(redisClient.Client, eventStreamMaxLen)
			log.Println("Connected to Redis, publishing marketplace events")
		}
	}

	var mediaHandler *handler.MediaHandler
	if cfg.MediaEnabled() {
		mediaService, err := service.NewMediaService(ctx, cfg)
		if err != nil {
			return err
		}
		mediaHandler = handler.NewMediaHandler(mediaService)
	} else {
		log.Println("[WARN] R2 not configured, image presign disabled")
		mediaHandler = handler.NewMediaHandler(nil)
	}

	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	carRepo := repository.NewCarRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	carService := service.NewCarService(carRepo, userRepo, tx, publisher)
	favoriteService := service.NewFavoriteService(favoriteRepo, userRepo, tx)
	messageService := service.NewMessageService(messageRepo, carRepo, userRepo, tx, publisher)
	userService := service.NewUserService(userRepo)

	limiter := authmw.NewLimiterStore(cfg.RateLimitPerMinute, cfg.RateLimitBurst, time.Minute)
	defer limiter.Stop()

	router := NewRouter(RouterConfig{
		CarHandler:      handler.NewCarHandler(carService),
		FavoriteHandler: handler.NewFavoriteHandler(favoriteService),
		MessageHandler:  handler.NewMessageHandler(messageService),
		UserHandler:     handler.NewUserHandler(userService),
		MediaHandler:    mediaHandler,
		Verifier:        identity.NewVerifier(cfg.AuthJWTSecret, cfg.AuthJWTAudience),
		RateLimiter:     limiter,
	})

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"carmarket/internal/model"
	"carmarket/internal/repository"
)

type FavoriteService struct {
	favorites repository.FavoriteRepository
	users     repository.UserRepository
	tx        repository.Transactor
}

func NewFavoriteService(
	favorites repository.FavoriteRepository,
	users repository.UserRepository,
	tx repository.Transactor,
) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		users:     users,
		tx:        tx,
	}
}

// Toggle flips whether p has favorited carID and reports the resulting state.
func (s *FavoriteService) Toggle(ctx context.Context, p model.Principal, carID string) (*model.ToggleFavoriteResponse, error) {
	carID = strings.TrimSpace(carID)
	if carID == "" {
		return nil, model.NewValidationError("carId", "is required")
	}
	if _, err := uuid.Parse(carID); err != nil {
		return nil, model.ErrCarNotFound
	}

	var favorited bool
	err := s.tx.WithinTx(ctx, nil, func(tx *sqlx.Tx) error {
		if err := s.users.Ensure(ctx, tx, p); err != nil {
			return err
		}

		existing, err := s.favorites.Find(ctx, tx, p.ID, carID)
		switch {
		case err == nil:
			favorited = false
			return s.favorites.Delete(ctx, tx, existing.ID)
		case !errors.Is(err, model.ErrFavoriteNotFound):
			return err
		}

		_, err = s.favorites.Create(ctx, tx, p.ID, carID)
		if err != nil && !errors.Is(err, model.ErrAlreadyFavorited) {
			return err
		}
		// A concurrent toggle that inserted first still leaves the car favorited.
		favorited = true
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrCarNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}

	return &model.ToggleFavoriteResponse{Favorited: favorited}, nil
}

// List returns p's favorites, newest first, each with its listing and seller.
func (s *FavoriteService) List(ctx context.Context, p model.Principal) ([]model.FavoriteWithCar, error) {
	favorites, err := s.favorites.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if favorites == nil {
		favorites = []model.FavoriteWithCar{}
	}
	return favorites, nil
}

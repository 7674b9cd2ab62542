package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"carmarket/internal/model"
)

type favoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Find(ctx context.Context, tx *sqlx.Tx, userID, carID string) (*model.Favorite, error) {
	query := `SELECT id, user_id, car_id, created_at FROM favorites WHERE user_id = $1 AND car_id = $2`

	var f model.Favorite
	if err := pick(r.db, tx).GetContext(ctx, &f, query, userID, carID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrFavoriteNotFound
		}
		return nil, fmt.Errorf("failed to find favorite: %w", err)
	}
	return &f, nil
}

func (r *favoriteRepository) Create(ctx context.Context, tx *sqlx.Tx, userID, carID string) (*model.Favorite, error) {
	query := `
		INSERT INTO favorites (id, user_id, car_id)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT favorites_user_car_unique DO NOTHING
		RETURNING id, user_id, car_id, created_at
	`

	var f model.Favorite
	err := pick(r.db, tx).GetContext(ctx, &f, query, uuid.NewString(), userID, carID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrAlreadyFavorited
		}
		switch pqCode(err) {
		case pgUniqueViolation:
			return nil, model.ErrAlreadyFavorited
		case pgForeignKeyViolation:
			return nil, model.ErrCarNotFound
		}
		return nil, fmt.Errorf("insert favorite: %w", err)
	}
	return &f, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, tx *sqlx.Tx, id string) error {
	query := `DELETE FROM favorites WHERE id = $1`
	result, err := pick(r.db, tx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrFavoriteNotFound
	}
	return nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]model.FavoriteWithCar, error) {
	query := `
		SELECT f.id, f.user_id, f.car_id, f.created_at,
			c.id AS "car.id", c.title AS "car.title", c.make AS "car.make", c.model AS "car.model",
			c.year AS "car.year", c.price AS "car.price", c.mileage AS "car.mileage",
			c.fuel_type AS "car.fuel_type", c.transmission AS "car.transmission",
			c.body_type AS "car.body_type", c.color AS "car.color", c.condition AS "car.condition",
			c.description AS "car.description", c.images AS "car.images", c.location AS "car.location",
			c.features AS "car.features", c.status AS "car.status", c.seller_id AS "car.seller_id",
			c.created_at AS "car.created_at", c.updated_at AS "car.updated_at",
			u.id AS "car.seller.id", u.full_name AS "car.seller.full_name",
			u.avatar AS "car.seller.avatar", u.location AS "car.seller.location"
		FROM favorites f
		JOIN cars c ON c.id = f.car_id
		JOIN users u ON u.id = c.seller_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.id
	`

	favorites := []model.FavoriteWithCar{}
	if err := r.db.SelectContext(ctx, &favorites, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

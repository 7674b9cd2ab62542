package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"carmarket/internal/model"
)

const carColumns = `
	c.id, c.title, c.make, c.model, c.year, c.price, c.mileage,
	c.fuel_type, c.transmission, c.body_type, c.color, c.condition,
	c.description, c.images, c.location, c.features, c.status,
	c.seller_id, c.created_at, c.updated_at`

const sellerSummaryColumns = `
	u.id AS "seller.id", u.full_name AS "seller.full_name",
	u.avatar AS "seller.avatar", u.location AS "seller.location"`

type carRepository struct {
	db *sqlx.DB
}

func NewCarRepository(db *sqlx.DB) CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) List(ctx context.Context, tx *sqlx.Tx, filter model.CarFilter) ([]model.Car, error) {
	where, args := buildCarWhere(filter)
	args = append(args, filter.Limit, filter.Offset())

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM cars c
		JOIN users u ON u.id = c.seller_id
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, carColumns, sellerSummaryColumns, where, orderByClause(filter.SortBy), len(args)-1, len(args))

	cars := []model.Car{}
	if err := pick(r.db, tx).SelectContext(ctx, &cars, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return cars, nil
}

func (r *carRepository) Count(ctx context.Context, tx *sqlx.Tx, filter model.CarFilter) (int, error) {
	where, args := buildCarWhere(filter)
	query := `SELECT COUNT(*) FROM cars c ` + where

	var total int
	if err := pick(r.db, tx).GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count cars: %w", err)
	}
	return total, nil
}

func (r *carRepository) GetByID(ctx context.Context, id string) (*model.Car, error) {
	query := `
		SELECT ` + carColumns + `, ` + sellerSummaryColumns + `
		FROM cars c
		JOIN users u ON u.id = c.seller_id
		WHERE c.id = $1
	`

	var car model.Car
	if err := r.db.GetContext(ctx, &car, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCarNotFound
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return &car, nil
}

// carDetailRow keeps the extended seller projection under its own prefix so it
// does not collide with Car.Seller.
type carDetailRow struct {
	model.Car
	Profile model.SellerProfile `db:"profile"`
}

// GetDetail reads the car and its favorites. Pass a snapshot tx so favoriteCount
// matches the car row.
func (r *carRepository) GetDetail(ctx context.Context, tx *sqlx.Tx, id string) (*model.CarDetail, error) {
	query := `
		SELECT ` + carColumns + `,
			u.id AS "profile.id", u.full_name AS "profile.full_name", u.email AS "profile.email",
			u.phone AS "profile.phone", u.avatar AS "profile.avatar", u.location AS "profile.location",
			u.bio AS "profile.bio", u.created_at AS "profile.created_at"
		FROM cars c
		JOIN users u ON u.id = c.seller_id
		WHERE c.id = $1
	`

	q := pick(r.db, tx)

	var row carDetailRow
	if err := q.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCarNotFound
		}
		return nil, fmt.Errorf("failed to get car detail: %w", err)
	}

	favorites := []model.FavoriteRef{}
	favQuery := `SELECT id, user_id FROM favorites WHERE car_id = $1 ORDER BY created_at`
	if err := q.SelectContext(ctx, &favorites, favQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get car favorites: %w", err)
	}

	return &model.CarDetail{
		Car:           row.Car,
		Seller:        &row.Profile,
		Favorites:     favorites,
		FavoriteCount: len(favorites),
	}, nil
}

func (r *carRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM cars WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("failed to check car existence: %w", err)
	}
	return exists, nil
}

func (r *carRepository) Create(ctx context.Context, tx *sqlx.Tx, car *model.Car) error {
	query := `
		INSERT INTO cars (
			id, title, make, model, year, price, mileage, fuel_type, transmission,
			body_type, color, condition, description, images, location, features,
			status, seller_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at
	`

	err := pick(r.db, tx).QueryRowxContext(ctx, query,
		car.ID,
		car.Title,
		car.Make,
		car.Model,
		car.Year,
		car.Price,
		car.Mileage,
		car.FuelType,
		car.Transmission,
		car.BodyType,
		car.Color,
		car.Condition,
		car.Description,
		car.Images,
		car.Location,
		car.Features,
		car.Status,
		car.SellerID,
	).Scan(&car.CreatedAt, &car.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert car: %w", err)
	}
	return nil
}

// buildCarSet renders the SET assignments for the fields present in upd.
func buildCarSet(upd model.CarUpdate) ([]string, []interface{}) {
	var sets []string
	var args []interface{}

	set := func(column string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Make != nil {
		set("make", *upd.Make)
	}
	if upd.Model != nil {
		set("model", *upd.Model)
	}
	if upd.Year != nil {
		set("year", *upd.Year)
	}
	if upd.Price != nil {
		set("price", *upd.Price)
	}
	if upd.Mileage != nil {
		set("mileage", *upd.Mileage)
	}
	if upd.FuelType != nil {
		set("fuel_type", *upd.FuelType)
	}
	if upd.Transmission != nil {
		set("transmission", *upd.Transmission)
	}
	if upd.BodyType != nil {
		set("body_type", *upd.BodyType)
	}
	if upd.Color != nil {
		set("color", *upd.Color)
	}
	if upd.Condition != nil {
		set("condition", *upd.Condition)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.Images != nil {
		set("images", pq.StringArray(nonNil(*upd.Images)))
	}
	if upd.Location != nil {
		set("location", *upd.Location)
	}
	if upd.Features != nil {
		set("features", pq.StringArray(nonNil(*upd.Features)))
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}

	sets = append(sets, "updated_at = NOW()")
	return sets, args
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *carRepository) Update(ctx context.Context, id, sellerID string, upd model.CarUpdate) (*model.Car, error) {
	sets, args := buildCarSet(upd)
	args = append(args, id, sellerID)

	query := fmt.Sprintf(`
		WITH updated AS (
			UPDATE cars SET %s
			WHERE id = $%d AND seller_id = $%d
			RETURNING *
		)
		SELECT %s, %s
		FROM updated c
		JOIN users u ON u.id = c.seller_id
	`, strings.Join(sets, ", "), len(args)-1, len(args), carColumns, sellerSummaryColumns)

	var car model.Car
	if err := r.db.GetContext(ctx, &car, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCarNotFound
		}
		return nil, fmt.Errorf("failed to update car: %w", err)
	}
	return &car, nil
}

func (r *carRepository) Delete(ctx context.Context, id, sellerID string) error {
	query := `DELETE FROM cars WHERE id = $1 AND seller_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, sellerID)
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCarNotFound
	}
	return nil
}

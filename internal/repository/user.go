package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"carmarket/internal/model"
)

const userColumns = `id, email, full_name, phone, location, bio, avatar, created_at, updated_at`

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// nullIfEmpty stores an empty full name as NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *userRepository) Ensure(ctx context.Context, tx *sqlx.Tx, p model.Principal) error {
	query := `
		INSERT INTO users (id, email, full_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := pick(r.db, tx).ExecContext(ctx, query, p.ID, p.Email, nullIfEmpty(p.FullName)); err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, p model.Principal) (*model.User, error) {
	if err := r.Ensure(ctx, nil, p); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, p.ID)
}

// Upsert writes the profile fields, leaving columns untouched where the request field is nil.
func (r *userRepository) Upsert(ctx context.Context, p model.Principal, req *model.UpdateProfileRequest) (*model.User, error) {
	query := `
		INSERT INTO users (id, email, full_name, phone, location, bio, avatar)
		VALUES ($1, $2, COALESCE($3, $8), $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			full_name  = COALESCE($3, users.full_name),
			phone      = COALESCE($4, users.phone),
			location   = COALESCE($5, users.location),
			bio        = COALESCE($6, users.bio),
			avatar     = COALESCE($7, users.avatar),
			updated_at = NOW()
		RETURNING ` + userColumns

	var u model.User
	err := r.db.GetContext(ctx, &u, query,
		p.ID,
		p.Email,
		req.FullName,
		req.Phone,
		req.Location,
		req.Bio,
		req.Avatar,
		nullIfEmpty(p.FullName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return &u, nil
}
